// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glcore implements shadercheck.Backend on OpenGL 3.3 core.
//
// Every call goes straight to the driver through go-gl, so a GL context must
// be current on the calling goroutine's OS thread, and Init must have been
// called once after making it current. Stage sources are GLSL.
package glcore

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/gogpu/shadercheck"
)

// Init loads the OpenGL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("glcore: init OpenGL: %w", err)
	}
	return nil
}

// Version returns the GL_VERSION string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Backend talks to the current OpenGL context.
type Backend struct{}

var _ shadercheck.Backend = Backend{}

// New returns a Backend. Init must already have succeeded.
func New() Backend {
	return Backend{}
}

func shaderType(kind shadercheck.StageKind) (uint32, error) {
	switch kind {
	case shadercheck.StageVertex:
		return gl.VERTEX_SHADER, nil
	case shadercheck.StageFragment:
		return gl.FRAGMENT_SHADER, nil
	}
	return 0, fmt.Errorf("glcore: unsupported stage kind %v", kind)
}

// CreateStage creates a shader object, uploads source and compiles it.
func (Backend) CreateStage(kind shadercheck.StageKind, source string) (shadercheck.StageHandle, error) {
	xtype, err := shaderType(kind)
	if err != nil {
		return 0, err
	}
	shader := gl.CreateShader(xtype)
	if shader == 0 {
		return 0, fmt.Errorf("glcore: glCreateShader failed (error 0x%x)", gl.GetError())
	}

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	return shadercheck.StageHandle(shader), nil
}

// DeleteStage flags the shader object for deletion.
func (Backend) DeleteStage(h shadercheck.StageHandle) {
	gl.DeleteShader(uint32(h))
}

// CompileStatus queries GL_COMPILE_STATUS.
func (Backend) CompileStatus(h shadercheck.StageHandle) bool {
	var status int32
	gl.GetShaderiv(uint32(h), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

// CompileLog reads the shader info log into a buffer of maxLen bytes plus
// the terminating NUL GL always writes.
func (Backend) CompileLog(h shadercheck.StageHandle, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	buf := make([]uint8, maxLen+1)
	var length int32
	gl.GetShaderInfoLog(uint32(h), int32(len(buf)), &length, &buf[0])
	return string(buf[:clampLength(length, maxLen)])
}

// CreateProgram creates an empty program object.
func (Backend) CreateProgram() (shadercheck.ProgramHandle, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("glcore: glCreateProgram failed (error 0x%x)", gl.GetError())
	}
	return shadercheck.ProgramHandle(program), nil
}

// AttachStage attaches a shader object to a program.
func (Backend) AttachStage(p shadercheck.ProgramHandle, h shadercheck.StageHandle) error {
	gl.AttachShader(uint32(p), uint32(h))
	return glError("glAttachShader")
}

// LinkProgram links the program. Link failures are reported through
// LinkStatus and LinkLog, not as an error.
func (Backend) LinkProgram(p shadercheck.ProgramHandle) error {
	gl.LinkProgram(uint32(p))
	return glError("glLinkProgram")
}

// DeleteProgram deletes the program object.
func (Backend) DeleteProgram(p shadercheck.ProgramHandle) {
	gl.DeleteProgram(uint32(p))
}

// LinkStatus queries GL_LINK_STATUS.
func (Backend) LinkStatus(p shadercheck.ProgramHandle) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

// LinkLog reads the program info log, bounded like CompileLog.
func (Backend) LinkLog(p shadercheck.ProgramHandle, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	buf := make([]uint8, maxLen+1)
	var length int32
	gl.GetProgramInfoLog(uint32(p), int32(len(buf)), &length, &buf[0])
	return string(buf[:clampLength(length, maxLen)])
}

// UseProgram installs the program for subsequent draws.
func UseProgram(p shadercheck.ProgramHandle) {
	gl.UseProgram(uint32(p))
}

// SetUniform4f sets a vec4 uniform on the program currently in use.
// Unknown or optimized-out names are ignored, as GL does for location -1.
func SetUniform4f(p shadercheck.ProgramHandle, name string, v [4]float32) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	if loc < 0 {
		return
	}
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

// ErrGL wraps any error flag raised by the driver.
var ErrGL = errors.New("glcore: OpenGL error")

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: %w 0x%x", op, ErrGL, code)
	}
	return nil
}

func clampLength(length int32, maxLen int) int {
	n := int(length)
	if n < 0 {
		return 0
	}
	if n > maxLen {
		return maxLen
	}
	return n
}
