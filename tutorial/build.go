package tutorial

import (
	"errors"
	"fmt"

	"github.com/gogpu/shadercheck"
)

// StageFunc turns a program spec into the stages handed to a backend,
// e.g. ProgramSpec.Stages or ProgramSpec.GLSLStages.
type StageFunc func(ProgramSpec) ([]shadercheck.StageSource, error)

// Native passes sources through unchanged.
func Native(p ProgramSpec) ([]shadercheck.StageSource, error) {
	return p.Stages(), nil
}

// Programs holds the built programs of a variant by name. A program whose
// sources could not be prepared is present with a nil value.
type Programs map[string]*shadercheck.Program

// Close releases every program.
func (ps Programs) Close() {
	for _, p := range ps {
		p.Close()
	}
}

// OK reports whether every program compiled and linked.
func (ps Programs) OK() bool {
	for _, p := range ps {
		if p == nil || !p.OK() {
			return false
		}
	}
	return true
}

// BuildPrograms builds every program of the variant on b in declaration
// order. Compile and link failures follow opts.Policy, including a stage
// that stages could not translate: with PolicyContinue its diagnostic goes
// to sink and the program is recorded as nil. On any returned error the
// programs built so far are released.
func (v *Variant) BuildPrograms(b shadercheck.Backend, sink shadercheck.Sink, opts shadercheck.Options, stages StageFunc) (Programs, error) {
	if stages == nil {
		stages = Native
	}
	out := make(Programs, len(v.Programs))
	for _, spec := range v.Programs {
		src, err := stages(spec)
		if err != nil {
			var cf *shadercheck.CompileFailure
			if opts.Policy == shadercheck.PolicyContinue && errors.As(err, &cf) {
				reportFailure(sink, cf, opts)
				out[spec.Name] = nil
				continue
			}
			out.Close()
			return nil, err
		}
		p, err := shadercheck.Build(b, sink, opts, src...)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("program %q: %w", spec.Name, err)
		}
		out[spec.Name] = p
	}
	return out, nil
}

func reportFailure(sink shadercheck.Sink, cf *shadercheck.CompileFailure, opts shadercheck.Options) {
	if sink == nil {
		return
	}
	n := opts.MaxLogLength
	if n <= 0 {
		n = shadercheck.DefaultMaxLogLength
	}
	f := shadercheck.CompileFailure{Label: cf.Label, Log: shadercheck.TruncateLog(cf.Log, n)}
	sink.Report(f.Message())
}
