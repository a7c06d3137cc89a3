package tutorial

import (
	"errors"
	"fmt"
)

// Validate checks the variant for layout and reference errors that would
// otherwise surface as GL errors or garbage frames.
func (v *Variant) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if v.Name == "" {
		add("variant has no name")
	}
	if v.Width <= 0 || v.Height <= 0 {
		add("window size %dx%d must be positive", v.Width, v.Height)
	}
	if len(v.ClearColor) != 4 {
		add("clear_color must have 4 components, got %d", len(v.ClearColor))
	}
	if len(v.Programs) == 0 {
		add("variant has no programs")
	}
	if len(v.Meshes) == 0 {
		add("variant has no meshes")
	}

	seen := make(map[string]bool, len(v.Programs))
	for i, p := range v.Programs {
		switch {
		case p.Name == "":
			add("program %d has no name", i)
		case seen[p.Name]:
			add("duplicate program %q", p.Name)
		}
		seen[p.Name] = true
		if p.Vertex == "" || p.Fragment == "" {
			add("program %q needs both a vertex and a fragment shader", p.Name)
		}
		for name, val := range p.Uniforms {
			if len(val) != 4 {
				add("program %q: uniform %q must have 4 components, got %d", p.Name, name, len(val))
			}
		}
	}

	for i, m := range v.Meshes {
		if err := m.validate(seen); err != nil {
			add("mesh %d: %w", i, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("tutorial: invalid variant %q: %w", v.Name, errors.Join(errs...))
}

func (m Mesh) validate(programs map[string]bool) error {
	if !programs[m.Program] {
		return fmt.Errorf("unknown program %q", m.Program)
	}
	if len(m.Attributes) == 0 {
		return errors.New("no attributes")
	}
	locations := make(map[uint32]bool, len(m.Attributes))
	for _, a := range m.Attributes {
		if a.Size < 1 || a.Size > 4 {
			return fmt.Errorf("attribute at location %d has size %d, want 1..4", a.Location, a.Size)
		}
		if locations[a.Location] {
			return fmt.Errorf("duplicate attribute location %d", a.Location)
		}
		locations[a.Location] = true
	}

	stride := m.Stride()
	if len(m.Vertices) == 0 {
		return errors.New("no vertices")
	}
	if len(m.Vertices)%stride != 0 {
		return fmt.Errorf("%d floats is not a multiple of the %d float stride", len(m.Vertices), stride)
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at position %d out of range (%d vertices)", idx, i, n)
		}
	}
	if m.DrawCount()%3 != 0 {
		return fmt.Errorf("draw count %d is not a whole number of triangles", m.DrawCount())
	}
	return nil
}
