// Package shadercheck validates compiled shader stages and linked shader
// programs and reports their diagnostic logs.
//
// The validators ask a backend four questions: did a stage compile, what
// did the compiler say, did a program link, what did the linker say. On
// failure the diagnostic log is fetched into a bounded buffer, formatted
// with a stage label, and handed to a Sink. Nothing is aborted: the caller
// decides whether a failed stage or program is fatal.
//
// Two backends ship with the module:
//   - offline: pure Go, compiles WGSL with naga; needs no GPU
//   - glcore: OpenGL 3.3 core through go-gl; needs a current context
//
// Example usage:
//
//	b := offline.New(offline.DefaultOptions())
//	prog, err := shadercheck.Build(b, diag.Writer(os.Stderr), shadercheck.DefaultOptions(),
//	    shadercheck.StageSource{Kind: shadercheck.StageVertex, Source: vs},
//	    shadercheck.StageSource{Kind: shadercheck.StageFragment, Source: fs},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prog.Close()
package shadercheck

import (
	"fmt"
	"strings"
)

// DefaultMaxLogLength is the size of the diagnostic buffer used when
// Options.MaxLogLength is not set.
const DefaultMaxLogLength = 512

// StageKind identifies the pipeline stage of a shader unit.
type StageKind uint8

const (
	StageVertex StageKind = iota
	StageFragment
)

// String returns the upper-case label used in diagnostics.
func (k StageKind) String() string {
	switch k {
	case StageVertex:
		return "VERTEX"
	case StageFragment:
		return "FRAGMENT"
	default:
		return fmt.Sprintf("STAGE(%d)", uint8(k))
	}
}

// ParseStageKind parses "vertex" or "fragment" (any case, "vert"/"frag" accepted).
func ParseStageKind(s string) (StageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex", "vert", "vs":
		return StageVertex, nil
	case "fragment", "frag", "fs":
		return StageFragment, nil
	}
	return 0, fmt.Errorf("unknown shader stage %q", s)
}

// StageHandle is an opaque reference to a compiled shader unit.
type StageHandle uint32

// ProgramHandle is an opaque reference to a shader program.
type ProgramHandle uint32

// Querier is the read-only status interface the validators depend on.
//
// Log methods return at most maxLen bytes of diagnostic text.
type Querier interface {
	CompileStatus(stage StageHandle) bool
	CompileLog(stage StageHandle, maxLen int) string
	LinkStatus(program ProgramHandle) bool
	LinkLog(program ProgramHandle, maxLen int) string
}

// Backend creates, links and releases shader objects.
//
// Errors returned by the lifecycle methods describe backend problems
// (unknown handles, missing context). A source that fails to compile or a
// program that fails to link is not an error here; it is observed through
// the Querier methods.
type Backend interface {
	Querier

	CreateStage(kind StageKind, source string) (StageHandle, error)
	DeleteStage(stage StageHandle)

	CreateProgram() (ProgramHandle, error)
	AttachStage(program ProgramHandle, stage StageHandle) error
	LinkProgram(program ProgramHandle) error
	DeleteProgram(program ProgramHandle)
}

// Sink receives formatted diagnostic messages.
type Sink interface {
	Report(message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(message string)

// Report calls f(message).
func (f SinkFunc) Report(message string) { f(message) }

// Policy selects what Build does after a compile or link failure.
type Policy uint8

const (
	// PolicyContinue reports failures and keeps going.
	PolicyContinue Policy = iota
	// PolicyAbort reports failures, releases the program and returns an error.
	PolicyAbort
)

// Options configures validation.
type Options struct {
	// MaxLogLength bounds every diagnostic log, in bytes (default: 512)
	MaxLogLength int

	// Policy decides whether failures abort Build (default: PolicyContinue)
	Policy Policy
}

// DefaultOptions returns the tutorial defaults: a 512 byte log buffer and
// detect, report, continue.
func DefaultOptions() Options {
	return Options{
		MaxLogLength: DefaultMaxLogLength,
		Policy:       PolicyContinue,
	}
}

func (o Options) maxLen() int {
	if o.MaxLogLength <= 0 {
		return DefaultMaxLogLength
	}
	return o.MaxLogLength
}
