// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glcore

import (
	"errors"

	"github.com/go-gl/gl/v3.3-core/gl"
)

const sizeofFloat32 = 4

// Attribute is one interleaved float vertex attribute.
type Attribute struct {
	Location uint32
	Size     int // components, 1..4
}

// Mesh owns a vertex array object, its vertex buffer and an optional
// element buffer.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

// NewMesh uploads interleaved vertices (and indices, if any) and records
// the attribute layout in a new vertex array object. The attributes are
// packed in the given order; the stride is the sum of their sizes.
func NewMesh(vertices []float32, indices []uint32, attrs []Attribute) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, errors.New("glcore: mesh has no vertices")
	}
	stride := 0
	for _, a := range attrs {
		stride += a.Size
	}
	if stride == 0 {
		return nil, errors.New("glcore: mesh has no attributes")
	}

	m := &Mesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*sizeofFloat32, gl.Ptr(vertices), gl.STATIC_DRAW)

	if len(indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		m.indexed = true
		m.count = int32(len(indices))
	} else {
		m.count = int32(len(vertices) / stride)
	}

	offset := 0
	for _, a := range attrs {
		gl.VertexAttribPointerWithOffset(a.Location, int32(a.Size), gl.FLOAT, false,
			int32(stride*sizeofFloat32), uintptr(offset*sizeofFloat32))
		gl.EnableVertexAttribArray(a.Location)
		offset += a.Size
	}

	// The element buffer binding is part of the VAO state, so unbind the
	// VAO first.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := glError("create mesh"); err != nil {
		m.Delete()
		return nil, err
	}
	return m, nil
}

// Draw binds the vertex array and draws it as triangles.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	}
	gl.BindVertexArray(0)
}

// Delete releases the GL objects. It is safe to call more than once.
func (m *Mesh) Delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}

// Clear fills the color buffer with the given color.
func Clear(c [4]float32) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Viewport sets the viewport to the framebuffer size.
func Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
