package shadercheck

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageKindString(t *testing.T) {
	assert.Equal(t, "VERTEX", StageVertex.String())
	assert.Equal(t, "FRAGMENT", StageFragment.String())
	assert.Equal(t, "STAGE(7)", StageKind(7).String())
}

func TestParseStageKind(t *testing.T) {
	tests := []struct {
		in   string
		want StageKind
	}{
		{"vertex", StageVertex},
		{"VERT", StageVertex},
		{" fragment ", StageFragment},
		{"frag", StageFragment},
	}
	for _, tt := range tests {
		got, err := ParseStageKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStageKind("geometry")
	assert.Error(t, err)
}

func TestTruncateLog(t *testing.T) {
	tests := []struct {
		name string
		log  string
		max  int
		want string
	}{
		{"shorter", "abc", 8, "abc"},
		{"exact", "abcdefgh", 8, "abcdefgh"},
		{"longer", "abcdefghij", 8, "abcdefgh"},
		{"zero", "abc", 0, ""},
		{"negative", "abc", -1, ""},
		{"empty", "", 4, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateLog(tt.log, tt.max))
		})
	}
}

func TestValidateStageOK(t *testing.T) {
	b := newFakeBackend()
	h, err := b.CreateStage(StageVertex, "void main() {}")
	require.NoError(t, err)

	r := ValidateStage(b, h, "VERTEX", DefaultMaxLogLength)
	assert.True(t, r.OK)
	assert.Empty(t, r.Message)
	assert.NoError(t, r.Err())
	assert.Zero(t, b.logCalls, "log must not be read for a compiled stage")
}

func TestValidateStageFailure(t *testing.T) {
	b := newFakeBackend()
	h, err := b.CreateStage(StageFragment, "bad shader")
	require.NoError(t, err)

	r := ValidateStage(b, h, "FRAGMENT", DefaultMaxLogLength)
	require.False(t, r.OK)
	assert.True(t, strings.HasPrefix(r.Message, "ERROR::SHADER::FRAGMENT::COMPILATION_FAILED\n"))
	assert.Contains(t, r.Message, "syntax error")

	var cf *CompileFailure
	require.True(t, errors.As(r.Err(), &cf))
	assert.Equal(t, "FRAGMENT", cf.Label)
	assert.Contains(t, cf.Error(), "FRAGMENT")
}

func TestValidateStageTruncatesLog(t *testing.T) {
	b := newFakeBackend()
	h, err := b.CreateStage(StageVertex, "bad "+strings.Repeat("x", 2000))
	require.NoError(t, err)

	r := ValidateStage(b, h, "VERTEX", 512)
	require.False(t, r.OK)

	var cf *CompileFailure
	require.True(t, errors.As(r.Err(), &cf))
	assert.Len(t, cf.Log, 512)
	assert.Equal(t, b.stages[h].log[:512], cf.Log)
}

func TestValidateStageIdempotent(t *testing.T) {
	b := newFakeBackend()
	good, _ := b.CreateStage(StageVertex, "ok")
	bad, _ := b.CreateStage(StageVertex, "bad")

	assert.Equal(t, ValidateStage(b, good, "VERTEX", 64), ValidateStage(b, good, "VERTEX", 64))
	assert.Equal(t, ValidateStage(b, bad, "VERTEX", 64), ValidateStage(b, bad, "VERTEX", 64))
}

func TestValidateLink(t *testing.T) {
	b := newFakeBackend()
	vs, _ := b.CreateStage(StageVertex, "ok")
	fs, _ := b.CreateStage(StageFragment, "ok")
	p, _ := b.CreateProgram()
	require.NoError(t, b.AttachStage(p, vs))
	require.NoError(t, b.AttachStage(p, fs))
	require.NoError(t, b.LinkProgram(p))

	r := ValidateLink(b, p, DefaultMaxLogLength)
	assert.True(t, r.OK)
	assert.Empty(t, r.Message)
	assert.Equal(t, r, ValidateLink(b, p, DefaultMaxLogLength))
}

func TestValidateLinkFailure(t *testing.T) {
	b := newFakeBackend()
	b.linkLog = "error: fragment shader input `vertexColor' has no matching output"
	p, _ := b.CreateProgram()
	require.NoError(t, b.LinkProgram(p))

	r := ValidateLink(b, p, 16)
	require.False(t, r.OK)
	assert.Equal(t, "ERROR::SHADER::PROGRAM::LINKING_FAILED\n"+b.linkLog[:16], r.Message)

	var lf *LinkFailure
	require.True(t, errors.As(r.Err(), &lf))
	assert.Len(t, lf.Log, 16)
}

func TestValidatorReportsOnlyFailures(t *testing.T) {
	b := newFakeBackend()
	good, _ := b.CreateStage(StageVertex, "ok")
	bad, _ := b.CreateStage(StageFragment, "bad")

	var got []string
	v := &Validator{
		Querier: b,
		Sink:    SinkFunc(func(m string) { got = append(got, m) }),
		Options: Options{}, // zero MaxLogLength falls back to the default
	}

	assert.True(t, v.Stage(good, "VERTEX").OK)
	r := v.Stage(bad, "FRAGMENT")
	assert.False(t, r.OK)

	require.Len(t, got, 1)
	assert.Equal(t, r.Message, got[0])
}

func TestValidatorNilSink(t *testing.T) {
	b := newFakeBackend()
	bad, _ := b.CreateStage(StageFragment, "bad")
	v := &Validator{Querier: b}
	assert.False(t, v.Stage(bad, "FRAGMENT").OK)
}
