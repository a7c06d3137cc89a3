package shadercheck

import (
	"errors"
	"fmt"
)

// StageSource is one stage handed to Build.
type StageSource struct {
	Kind   StageKind
	Label  string // diagnostic label, defaults to Kind.String()
	Source string
}

func (s StageSource) label() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Kind.String()
}

// StageReport records the validation of one stage.
type StageReport struct {
	Kind   StageKind
	Label  string
	Result Result
}

// Program is a linked (or failed) shader program returned by Build.
// The caller owns it and must Close it.
type Program struct {
	Handle ProgramHandle
	Stages []StageReport
	Link   Result

	backend Backend
	closed  bool
}

// OK reports whether every stage compiled and the program linked.
func (p *Program) OK() bool {
	return p.Failures() == nil
}

// Failures returns the compile and link failures joined, or nil.
func (p *Program) Failures() error {
	var errs []error
	for _, s := range p.Stages {
		if err := s.Result.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := p.Link.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close deletes the program object. Calling Close more than once is a no-op.
func (p *Program) Close() {
	if p == nil || p.closed {
		return
	}
	p.closed = true
	p.backend.DeleteProgram(p.Handle)
}

// Build compiles every stage, validates each one, attaches them to a new
// program, links it once and validates the link. Stage objects are deleted
// before Build returns; their compiled code lives on in the program.
//
// With PolicyContinue (the default) failures are reported to sink and the
// program is returned anyway, the way the tutorials keep rendering after a
// broken shader. With PolicyAbort the failures are returned and no program
// is kept. Backend errors always abort. Every object created is released on
// every error path.
func Build(b Backend, sink Sink, opts Options, stages ...StageSource) (*Program, error) {
	if len(stages) == 0 {
		return nil, errors.New("shadercheck: no shader stages")
	}

	v := &Validator{Querier: b, Sink: sink, Options: opts}

	handles := make([]StageHandle, 0, len(stages))
	defer func() {
		for _, h := range handles {
			b.DeleteStage(h)
		}
	}()

	reports := make([]StageReport, 0, len(stages))
	for _, s := range stages {
		label := s.label()
		h, err := b.CreateStage(s.Kind, s.Source)
		if err != nil {
			return nil, fmt.Errorf("create %s stage: %w", label, err)
		}
		handles = append(handles, h)
		reports = append(reports, StageReport{
			Kind:   s.Kind,
			Label:  label,
			Result: v.Stage(h, label),
		})
	}

	if opts.Policy == PolicyAbort {
		var errs []error
		for _, r := range reports {
			if err := r.Result.Err(); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
	}

	ph, err := b.CreateProgram()
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}
	p := &Program{Handle: ph, Stages: reports, backend: b}

	keep := false
	defer func() {
		if !keep {
			p.Close()
		}
	}()

	for i, h := range handles {
		if err := b.AttachStage(ph, h); err != nil {
			return nil, fmt.Errorf("attach %s stage: %w", reports[i].Label, err)
		}
	}
	if err := b.LinkProgram(ph); err != nil {
		return nil, fmt.Errorf("link program: %w", err)
	}
	p.Link = v.Link(ph)

	if opts.Policy == PolicyAbort {
		if err := p.Failures(); err != nil {
			return nil, err
		}
	}

	keep = true
	return p, nil
}
