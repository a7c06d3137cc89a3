// Package tutorial describes the Hello Triangle programs as data.
//
// Each tutorial variant is a TOML file naming its window, its shader
// programs and the meshes drawn with them. One bootstrap and render loop
// (package app) runs any variant, so the near-identical tutorial programs
// differ only in configuration.
package tutorial

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/shadercheck"
	"github.com/gogpu/shadercheck/offline"
)

// Defaults applied to fields a variant leaves unset.
const (
	DefaultTitle  = "Hello OpenGL"
	DefaultWidth  = 800
	DefaultHeight = 600
)

// DefaultClearColor is the teal background of the tutorials.
var DefaultClearColor = []float32{0.2, 0.3, 0.3, 1.0}

// Language is the shading language of a stage source.
type Language uint8

const (
	GLSL Language = iota
	WGSL
)

func (l Language) String() string {
	if l == WGSL {
		return "wgsl"
	}
	return "glsl"
}

// LanguageOf infers the language from a file name: ".wgsl" is WGSL,
// anything else is GLSL.
func LanguageOf(name string) Language {
	if strings.EqualFold(path.Ext(name), ".wgsl") {
		return WGSL
	}
	return GLSL
}

// Variant is one tutorial program.
type Variant struct {
	Name       string        `toml:"name"`
	Title      string        `toml:"title"`
	Width      int           `toml:"width"`
	Height     int           `toml:"height"`
	ClearColor []float32     `toml:"clear_color"`
	Programs   []ProgramSpec `toml:"program"`
	Meshes     []Mesh        `toml:"mesh"`
}

// ProgramSpec names the two stage files of a shader program and the
// uniforms set before drawing with it.
type ProgramSpec struct {
	Name     string               `toml:"name"`
	Vertex   string               `toml:"vertex"`
	Fragment string               `toml:"fragment"`
	Uniforms map[string][]float32 `toml:"uniforms"`

	// Filled in by Load.
	VertexSource   string `toml:"-"`
	FragmentSource string `toml:"-"`
}

// Stages returns the program's stages ready for shadercheck.Build. The
// label carries the program name so diagnostics from multi-program
// variants can be told apart.
func (p ProgramSpec) Stages() []shadercheck.StageSource {
	label := func(k shadercheck.StageKind) string {
		if p.Name == "" {
			return k.String()
		}
		return k.String() + "::" + strings.ToUpper(p.Name)
	}
	return []shadercheck.StageSource{
		{Kind: shadercheck.StageVertex, Label: label(shadercheck.StageVertex), Source: p.VertexSource},
		{Kind: shadercheck.StageFragment, Label: label(shadercheck.StageFragment), Source: p.FragmentSource},
	}
}

// Languages returns the shading languages of the vertex and fragment sources.
func (p ProgramSpec) Languages() (vertex, fragment Language) {
	return LanguageOf(p.Vertex), LanguageOf(p.Fragment)
}

// GLSLStages is Stages with every WGSL source translated to GLSL 330 core,
// ready for an OpenGL backend. A WGSL source that does not compile returns
// its *shadercheck.CompileFailure.
func (p ProgramSpec) GLSLStages() ([]shadercheck.StageSource, error) {
	stages := p.Stages()
	vl, fl := p.Languages()
	langs := []Language{vl, fl}
	for i := range stages {
		if langs[i] != WGSL {
			continue
		}
		code, err := offline.TranslateGLSL(stages[i].Kind, stages[i].Source)
		if err != nil {
			var cf *shadercheck.CompileFailure
			if errors.As(err, &cf) {
				cf.Label = stages[i].Label
			}
			return nil, fmt.Errorf("program %q: %w", p.Name, err)
		}
		stages[i].Source = code
	}
	return stages, nil
}

// Mesh is interleaved float vertex data drawn as triangles with one program.
type Mesh struct {
	Program    string      `toml:"program"`
	Vertices   []float32   `toml:"vertices"`
	Indices    []uint32    `toml:"indices"`
	Attributes []Attribute `toml:"attributes"`
}

// Attribute is one float vertex attribute, packed in declaration order.
type Attribute struct {
	Location uint32 `toml:"location"`
	Size     int    `toml:"size"`
}

// Stride returns the number of floats per vertex.
func (m Mesh) Stride() int {
	n := 0
	for _, a := range m.Attributes {
		n += a.Size
	}
	return n
}

// VertexCount returns the number of vertices in the vertex data.
func (m Mesh) VertexCount() int {
	s := m.Stride()
	if s == 0 {
		return 0
	}
	return len(m.Vertices) / s
}

// DrawCount returns how many vertices a draw call consumes: the index
// count for indexed meshes, the vertex count otherwise.
func (m Mesh) DrawCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices)
	}
	return m.VertexCount()
}

// Program returns the program spec with the given name.
func (v *Variant) Program(name string) (*ProgramSpec, bool) {
	for i := range v.Programs {
		if v.Programs[i].Name == name {
			return &v.Programs[i], true
		}
	}
	return nil, false
}

// Parse decodes a variant from TOML, applies defaults and validates it.
// Shader sources are not loaded; use Load for that.
func Parse(data []byte) (*Variant, error) {
	var v Variant
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("tutorial: unknown field:\n%s", serr.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("tutorial: %d:%d: %s", row, col, derr.Error())
		}
		return nil, fmt.Errorf("tutorial: %w", err)
	}
	v.applyDefaults()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *Variant) applyDefaults() {
	if v.Title == "" {
		v.Title = DefaultTitle
	}
	if v.Width == 0 {
		v.Width = DefaultWidth
	}
	if v.Height == 0 {
		v.Height = DefaultHeight
	}
	if len(v.ClearColor) == 0 {
		v.ClearColor = append([]float32(nil), DefaultClearColor...)
	}
}

// Load reads the variant file at name from fsys together with its shader
// sources. Shader paths are relative to the variant file.
func Load(fsys fs.FS, name string) (*Variant, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("tutorial: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	dir := path.Dir(name)
	for i := range v.Programs {
		p := &v.Programs[i]
		if p.VertexSource, err = readSource(fsys, dir, p.Vertex); err != nil {
			return nil, fmt.Errorf("%s: program %q: %w", name, p.Name, err)
		}
		if p.FragmentSource, err = readSource(fsys, dir, p.Fragment); err != nil {
			return nil, fmt.Errorf("%s: program %q: %w", name, p.Name, err)
		}
	}
	return v, nil
}

// LoadFile loads a variant from the operating system's file system.
func LoadFile(file string) (*Variant, error) {
	dir, base := filepath.Split(file)
	if dir == "" {
		dir = "."
	}
	return Load(os.DirFS(dir), base)
}

func readSource(fsys fs.FS, dir, name string) (string, error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
