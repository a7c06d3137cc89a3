// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package offline implements a shadercheck.Backend in pure Go.
//
// Stage sources are WGSL. They are compiled with naga (parse, lower, and
// optionally IR validation); the resulting compile log mimics a driver info
// log. Linking checks that a program holds one vertex and one fragment
// stage and that their location-bound interfaces agree. No GPU or GL
// context is involved, so the backend runs anywhere tests run.
//
// A Backend is not safe for concurrent use, matching the single-threaded
// access a GL context allows.
package offline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"

	"github.com/gogpu/shadercheck"
)

// Options configures the offline backend.
type Options struct {
	// Validate runs naga's IR validator after lowering (default: false).
	// Parsing and lowering already reject malformed sources.
	Validate bool

	// Warnings includes lowering warnings in the compile log (default: true)
	Warnings bool
}

// DefaultOptions returns the default backend options.
func DefaultOptions() Options {
	return Options{
		Validate: false,
		Warnings: true,
	}
}

// ErrUnknownHandle is returned by lifecycle methods given a handle this
// backend never issued or already deleted.
var ErrUnknownHandle = errors.New("offline: unknown handle")

type stage struct {
	kind     shadercheck.StageKind
	source   string
	compiled bool
	log      string
	module   *ir.Module
	entry    int // index into module.EntryPoints, -1 if none
}

type program struct {
	attached []*stage
	linked   bool
	ok       bool
	log      string
}

// Backend is the pure Go shadercheck.Backend.
type Backend struct {
	opts     Options
	next     uint32
	stages   map[shadercheck.StageHandle]*stage
	programs map[shadercheck.ProgramHandle]*program
}

var _ shadercheck.Backend = (*Backend)(nil)

// New returns an empty backend.
func New(opts Options) *Backend {
	return &Backend{
		opts:     opts,
		stages:   make(map[shadercheck.StageHandle]*stage),
		programs: make(map[shadercheck.ProgramHandle]*program),
	}
}

func (b *Backend) handle() uint32 {
	b.next++
	return b.next
}

// CreateStage compiles source as a stage of the given kind.
func (b *Backend) CreateStage(kind shadercheck.StageKind, source string) (shadercheck.StageHandle, error) {
	if kind != shadercheck.StageVertex && kind != shadercheck.StageFragment {
		return 0, fmt.Errorf("offline: unsupported stage kind %v", kind)
	}
	s := &stage{kind: kind, source: source, entry: -1}
	b.compile(s)
	h := shadercheck.StageHandle(b.handle())
	b.stages[h] = s
	return h, nil
}

func (b *Backend) compile(s *stage) {
	ast, err := naga.Parse(s.source)
	if err != nil {
		s.log = formatError(err, s.source)
		return
	}

	result, err := wgsl.LowerWithWarnings(ast, s.source)
	if err != nil {
		s.log = formatError(err, s.source)
		return
	}
	module := result.Module

	var log strings.Builder
	if b.opts.Warnings {
		for _, w := range result.Warnings {
			fmt.Fprintf(&log, "warning: %d:%d: %s\n", w.Span.Start.Line, w.Span.Start.Column, w.Message)
		}
	}

	if b.opts.Validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			fmt.Fprintf(&log, "error: %v\n", err)
			s.log = log.String()
			return
		}
		if len(verrs) > 0 {
			for i := range verrs {
				fmt.Fprintf(&log, "error: %s\n", verrs[i].Error())
			}
			s.log = log.String()
			return
		}
	}

	entry := findEntryPoint(module, s.kind)
	if entry < 0 {
		fmt.Fprintf(&log, "error: no @%s entry point\n", stageAttr(s.kind))
		s.log = log.String()
		return
	}

	s.module = module
	s.entry = entry
	s.compiled = true
	s.log = log.String()
}

// formatError renders naga errors with source context when available.
func formatError(err error, source string) string {
	var list *wgsl.SourceErrors
	if errors.As(err, &list) && list.HasErrors() {
		return withNewline(list.FormatAll())
	}
	var one *wgsl.SourceError
	if errors.As(err, &one) {
		return withNewline(one.FormatWithContext())
	}
	var pe wgsl.ParseError
	if errors.As(err, &pe) && pe.Token.Line > 0 {
		span := wgsl.Span{Start: wgsl.Position{Line: pe.Token.Line, Column: pe.Token.Column}}
		return withNewline(wgsl.NewSourceError(pe.Message, span, source).FormatWithContext())
	}
	return "error: " + err.Error() + "\n"
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func findEntryPoint(m *ir.Module, kind shadercheck.StageKind) int {
	want := ir.StageVertex
	if kind == shadercheck.StageFragment {
		want = ir.StageFragment
	}
	for i, ep := range m.EntryPoints {
		if ep.Stage == want {
			return i
		}
	}
	return -1
}

func stageAttr(kind shadercheck.StageKind) string {
	if kind == shadercheck.StageFragment {
		return "fragment"
	}
	return "vertex"
}

// DeleteStage releases a stage. Programs it is attached to keep their copy.
func (b *Backend) DeleteStage(h shadercheck.StageHandle) {
	delete(b.stages, h)
}

// CompileStatus reports whether the stage compiled.
func (b *Backend) CompileStatus(h shadercheck.StageHandle) bool {
	s, ok := b.stages[h]
	return ok && s.compiled
}

// CompileLog returns up to maxLen bytes of the stage's compile log.
func (b *Backend) CompileLog(h shadercheck.StageHandle, maxLen int) string {
	s, ok := b.stages[h]
	if !ok {
		return shadercheck.TruncateLog(fmt.Sprintf("error: invalid shader handle %d\n", h), maxLen)
	}
	return shadercheck.TruncateLog(s.log, maxLen)
}

// CreateProgram returns a new, empty program.
func (b *Backend) CreateProgram() (shadercheck.ProgramHandle, error) {
	h := shadercheck.ProgramHandle(b.handle())
	b.programs[h] = &program{}
	return h, nil
}

// AttachStage attaches a stage to a program.
func (b *Backend) AttachStage(p shadercheck.ProgramHandle, h shadercheck.StageHandle) error {
	prog, ok := b.programs[p]
	if !ok {
		return fmt.Errorf("attach to program %d: %w", p, ErrUnknownHandle)
	}
	s, ok := b.stages[h]
	if !ok {
		return fmt.Errorf("attach stage %d: %w", h, ErrUnknownHandle)
	}
	for _, a := range prog.attached {
		if a == s {
			return fmt.Errorf("offline: stage %d already attached to program %d", h, p)
		}
	}
	prog.attached = append(prog.attached, s)
	return nil
}

// LinkProgram links the attached stages. A failed link is not an error;
// query it with LinkStatus and LinkLog.
func (b *Backend) LinkProgram(p shadercheck.ProgramHandle) error {
	prog, ok := b.programs[p]
	if !ok {
		return fmt.Errorf("link program %d: %w", p, ErrUnknownHandle)
	}
	prog.log = link(prog.attached)
	prog.ok = prog.log == ""
	prog.linked = true
	return nil
}

// DeleteProgram releases a program.
func (b *Backend) DeleteProgram(p shadercheck.ProgramHandle) {
	delete(b.programs, p)
}

// LinkStatus reports whether the program was linked successfully.
func (b *Backend) LinkStatus(p shadercheck.ProgramHandle) bool {
	prog, ok := b.programs[p]
	return ok && prog.linked && prog.ok
}

// LinkLog returns up to maxLen bytes of the program's link log.
func (b *Backend) LinkLog(p shadercheck.ProgramHandle, maxLen int) string {
	prog, ok := b.programs[p]
	var log string
	switch {
	case !ok:
		log = fmt.Sprintf("error: invalid program handle %d\n", p)
	case !prog.linked:
		log = "error: program has not been linked\n"
	default:
		log = prog.log
	}
	return shadercheck.TruncateLog(log, maxLen)
}
