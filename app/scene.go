package app

import (
	"fmt"

	"github.com/gogpu/shadercheck"
	"github.com/gogpu/shadercheck/glcore"
	"github.com/gogpu/shadercheck/tutorial"
)

type drawable struct {
	mesh     *glcore.Mesh
	program  *shadercheck.Program
	uniforms map[string][]float32
}

// scene holds the GL objects of a variant.
type scene struct {
	clear     [4]float32
	programs  tutorial.Programs
	drawables []drawable
}

func newScene(v *tutorial.Variant, sink shadercheck.Sink, opts shadercheck.Options) (*scene, error) {
	programs, err := v.BuildPrograms(glcore.New(), sink, opts, tutorial.ProgramSpec.GLSLStages)
	if err != nil {
		return nil, err
	}
	s := &scene{programs: programs}
	copy(s.clear[:], v.ClearColor)

	for i, m := range v.Meshes {
		prog := programs[m.Program]
		if prog == nil {
			continue
		}
		attrs := make([]glcore.Attribute, len(m.Attributes))
		for j, a := range m.Attributes {
			attrs[j] = glcore.Attribute{Location: a.Location, Size: a.Size}
		}
		gm, err := glcore.NewMesh(m.Vertices, m.Indices, attrs)
		if err != nil {
			s.release()
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		spec, _ := v.Program(m.Program)
		s.drawables = append(s.drawables, drawable{
			mesh:     gm,
			program:  prog,
			uniforms: spec.Uniforms,
		})
	}
	return s, nil
}

func (s *scene) draw() {
	glcore.Clear(s.clear)
	for _, d := range s.drawables {
		glcore.UseProgram(d.program.Handle)
		for name, val := range d.uniforms {
			var v [4]float32
			copy(v[:], val)
			glcore.SetUniform4f(d.program.Handle, name, v)
		}
		d.mesh.Draw()
	}
}

func (s *scene) release() {
	for _, d := range s.drawables {
		d.mesh.Delete()
	}
	s.drawables = nil
	s.programs.Close()
}
