// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package offline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadercheck"
)

// varying is one location-bound value crossing a stage boundary.
type varying struct {
	name     string
	location uint32
	ty       ir.TypeInner
}

// link checks the attached stages and returns the link log, empty on success.
func link(attached []*stage) string {
	var log strings.Builder

	if len(attached) == 0 {
		return "error: no shaders attached to program\n"
	}

	var vs, fs *stage
	for _, s := range attached {
		if !s.compiled {
			fmt.Fprintf(&log, "error: %s shader was not successfully compiled\n", stageAttr(s.kind))
			continue
		}
		switch s.kind {
		case shadercheck.StageVertex:
			if vs != nil {
				fmt.Fprintf(&log, "error: more than one vertex shader attached\n")
			}
			vs = s
		case shadercheck.StageFragment:
			if fs != nil {
				fmt.Fprintf(&log, "error: more than one fragment shader attached\n")
			}
			fs = s
		}
	}
	if log.Len() > 0 {
		return log.String()
	}
	if vs == nil {
		return "error: program has no vertex shader\n"
	}
	if fs == nil {
		return "error: program has no fragment shader\n"
	}

	outputs := make(map[uint32]varying)
	for _, v := range stageOutputs(vs) {
		outputs[v.location] = v
	}
	for _, in := range stageInputs(fs) {
		out, ok := outputs[in.location]
		if !ok {
			fmt.Fprintf(&log, "error: fragment input %q at location %d is not written by the vertex shader\n",
				in.name, in.location)
			continue
		}
		if !sameType(out.ty, in.ty) {
			fmt.Fprintf(&log, "error: fragment input %q at location %d has type %s, vertex output %q has type %s\n",
				in.name, in.location, typeName(in.ty), out.name, typeName(out.ty))
		}
	}
	return log.String()
}

func entryFunction(s *stage) *ir.Function {
	ep := s.module.EntryPoints[s.entry]
	return &s.module.Functions[ep.Function]
}

// stageInputs returns the location-bound arguments of the stage's entry
// point, flattening struct arguments, sorted by location.
func stageInputs(s *stage) []varying {
	fn := entryFunction(s)
	var out []varying
	for _, arg := range fn.Arguments {
		out = appendVaryings(out, s.module, arg.Name, arg.Type, arg.Binding)
	}
	sortVaryings(out)
	return out
}

// stageOutputs returns the location-bound results of the stage's entry point.
func stageOutputs(s *stage) []varying {
	fn := entryFunction(s)
	if fn.Result == nil {
		return nil
	}
	out := appendVaryings(nil, s.module, "result", fn.Result.Type, fn.Result.Binding)
	sortVaryings(out)
	return out
}

func appendVaryings(dst []varying, m *ir.Module, name string, th ir.TypeHandle, binding *ir.Binding) []varying {
	if int(th) >= len(m.Types) {
		return dst
	}
	inner := m.Types[th].Inner
	if binding != nil {
		if loc, ok := (*binding).(ir.LocationBinding); ok {
			dst = append(dst, varying{name: name, location: loc.Location, ty: inner})
		}
		return dst
	}
	st, ok := inner.(ir.StructType)
	if !ok {
		return dst
	}
	for _, member := range st.Members {
		if member.Binding == nil {
			continue
		}
		if loc, ok := (*member.Binding).(ir.LocationBinding); ok && int(member.Type) < len(m.Types) {
			dst = append(dst, varying{name: member.Name, location: loc.Location, ty: m.Types[member.Type].Inner})
		}
	}
	return dst
}

func sortVaryings(v []varying) {
	sort.Slice(v, func(i, j int) bool { return v[i].location < v[j].location })
}

func sameType(a, b ir.TypeInner) bool {
	switch a := a.(type) {
	case ir.ScalarType:
		b, ok := b.(ir.ScalarType)
		return ok && a == b
	case ir.VectorType:
		b, ok := b.(ir.VectorType)
		return ok && a == b
	case ir.MatrixType:
		b, ok := b.(ir.MatrixType)
		return ok && a == b
	}
	return false
}

func typeName(t ir.TypeInner) string {
	switch t := t.(type) {
	case ir.ScalarType:
		return scalarName(t)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", t.Size, scalarName(t.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", t.Columns, t.Rows, scalarName(t.Scalar))
	default:
		return fmt.Sprintf("%T", t)
	}
}

func scalarName(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarFloat:
		if s.Width == 2 {
			return "f16"
		}
		return "f32"
	case ir.ScalarSint:
		return "i32"
	case ir.ScalarUint:
		return "u32"
	case ir.ScalarBool:
		return "bool"
	}
	return "?"
}
