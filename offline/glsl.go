// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package offline

import (
	"fmt"

	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/shadercheck"
)

// GLSL translates a compiled stage to GLSL 330 core.
func (b *Backend) GLSL(h shadercheck.StageHandle) (string, error) {
	s, ok := b.stages[h]
	if !ok {
		return "", fmt.Errorf("translate stage %d: %w", h, ErrUnknownHandle)
	}
	if !s.compiled {
		return "", fmt.Errorf("translate stage %d: %s stage did not compile", h, stageAttr(s.kind))
	}

	opts := glsl.DefaultOptions()
	opts.LangVersion = glsl.Version330
	opts.EntryPoint = s.module.EntryPoints[s.entry].Name

	code, _, err := glsl.Compile(s.module, opts)
	if err != nil {
		return "", fmt.Errorf("translate %s stage: %w", stageAttr(s.kind), err)
	}
	return code, nil
}

// TranslateGLSL compiles a WGSL stage with DefaultOptions and returns its
// GLSL 330 core form. A source that does not compile yields a
// *shadercheck.CompileFailure carrying the full compile log.
func TranslateGLSL(kind shadercheck.StageKind, source string) (string, error) {
	return New(DefaultOptions()).Translate(kind, source)
}

// Translate is TranslateGLSL with the backend's options. The stage is
// released before Translate returns.
func (b *Backend) Translate(kind shadercheck.StageKind, source string) (string, error) {
	h, err := b.CreateStage(kind, source)
	if err != nil {
		return "", err
	}
	defer b.DeleteStage(h)

	if !b.CompileStatus(h) {
		return "", &shadercheck.CompileFailure{Label: kind.String(), Log: b.stages[h].log}
	}
	return b.GLSL(h)
}
