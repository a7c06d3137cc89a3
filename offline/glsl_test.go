// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package offline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadercheck"
)

func TestTranslateGLSL(t *testing.T) {
	code, err := TranslateGLSL(shadercheck.StageVertex, triangleVertex)
	require.NoError(t, err)
	assert.Contains(t, code, "#version 330 core")
	assert.Contains(t, code, "gl_Position")

	code, err = TranslateGLSL(shadercheck.StageFragment, orangeFragment)
	require.NoError(t, err)
	assert.Contains(t, code, "#version 330 core")
	assert.Contains(t, code, "out vec4")
}

func TestTranslateGLSLCompileFailure(t *testing.T) {
	_, err := TranslateGLSL(shadercheck.StageVertex, syntaxError)
	var cf *shadercheck.CompileFailure
	require.True(t, errors.As(err, &cf))
	assert.Equal(t, "VERTEX", cf.Label)
	assert.NotEmpty(t, cf.Log)
}

func TestGLSLUnknownOrFailedStage(t *testing.T) {
	b := New(DefaultOptions())
	_, err := b.GLSL(42)
	assert.ErrorIs(t, err, ErrUnknownHandle)

	h, err := b.CreateStage(shadercheck.StageVertex, noEntryPoint)
	require.NoError(t, err)
	_, err = b.GLSL(h)
	assert.Error(t, err)
}

func TestTranslateUsesBackendOptions(t *testing.T) {
	for _, opts := range []Options{
		{Validate: false, Warnings: true},
		{Validate: true, Warnings: true},
	} {
		b := New(opts)
		h, err := b.CreateStage(shadercheck.StageVertex, triangleVertex)
		require.NoError(t, err)
		want := b.CompileStatus(h)

		tb := New(opts)
		code, err := tb.Translate(shadercheck.StageVertex, triangleVertex)
		assert.Equal(t, want, err == nil, "validate=%v: %v", opts.Validate, err)
		if want {
			assert.Contains(t, code, "#version 330 core")
		}
		assert.Empty(t, tb.stages, "the translated stage is released")
	}
}
