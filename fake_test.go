package shadercheck

import (
	"errors"
	"strings"
)

// fakeBackend compiles "bad" sources as failures and links a program
// successfully unless one of its stages failed or linkLog is set.
type fakeBackend struct {
	next     uint32
	stages   map[StageHandle]*fakeStage
	programs map[ProgramHandle]*fakeProgram

	linkLog      string // forces a link failure with this log
	createErr    error
	attachErr    error
	programErr   error
	deletedStage []StageHandle
	deletedProg  []ProgramHandle
	logCalls     int
}

type fakeStage struct {
	ok  bool
	log string
}

type fakeProgram struct {
	stages []StageHandle
	linked bool
	ok     bool
	log    string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stages:   make(map[StageHandle]*fakeStage),
		programs: make(map[ProgramHandle]*fakeProgram),
	}
}

func (f *fakeBackend) CreateStage(kind StageKind, source string) (StageHandle, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.next++
	h := StageHandle(f.next)
	s := &fakeStage{ok: true}
	if strings.Contains(source, "bad") {
		s.ok = false
		s.log = "0:1(1): error: syntax error, unexpected " + source
	}
	f.stages[h] = s
	return h, nil
}

func (f *fakeBackend) DeleteStage(stage StageHandle) {
	f.deletedStage = append(f.deletedStage, stage)
}

func (f *fakeBackend) CreateProgram() (ProgramHandle, error) {
	if f.programErr != nil {
		return 0, f.programErr
	}
	f.next++
	h := ProgramHandle(f.next)
	f.programs[h] = &fakeProgram{}
	return h, nil
}

func (f *fakeBackend) AttachStage(program ProgramHandle, stage StageHandle) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	p, ok := f.programs[program]
	if !ok {
		return errors.New("unknown program")
	}
	p.stages = append(p.stages, stage)
	return nil
}

func (f *fakeBackend) LinkProgram(program ProgramHandle) error {
	p, ok := f.programs[program]
	if !ok {
		return errors.New("unknown program")
	}
	p.linked = true
	p.ok = true
	for _, h := range p.stages {
		if !f.stages[h].ok {
			p.ok = false
			p.log = "error: linking with uncompiled shader"
		}
	}
	if f.linkLog != "" {
		p.ok = false
		p.log = f.linkLog
	}
	return nil
}

func (f *fakeBackend) DeleteProgram(program ProgramHandle) {
	f.deletedProg = append(f.deletedProg, program)
	delete(f.programs, program)
}

func (f *fakeBackend) CompileStatus(stage StageHandle) bool {
	s, ok := f.stages[stage]
	return ok && s.ok
}

func (f *fakeBackend) CompileLog(stage StageHandle, maxLen int) string {
	f.logCalls++
	s, ok := f.stages[stage]
	if !ok {
		return ""
	}
	// Deliberately ignores maxLen so the validator's own bound is tested.
	return s.log
}

func (f *fakeBackend) LinkStatus(program ProgramHandle) bool {
	p, ok := f.programs[program]
	return ok && p.linked && p.ok
}

func (f *fakeBackend) LinkLog(program ProgramHandle, maxLen int) string {
	f.logCalls++
	p, ok := f.programs[program]
	if !ok {
		return ""
	}
	return TruncateLog(p.log, maxLen)
}
