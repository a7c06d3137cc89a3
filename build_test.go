package shadercheck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ messages []string }

func (r *recorder) Report(m string) { r.messages = append(r.messages, m) }

func TestBuildOK(t *testing.T) {
	b := newFakeBackend()
	sink := &recorder{}

	p, err := Build(b, sink, DefaultOptions(),
		StageSource{Kind: StageVertex, Source: "vs"},
		StageSource{Kind: StageFragment, Source: "fs"},
	)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.True(t, p.OK())
	assert.NoError(t, p.Failures())
	assert.Empty(t, sink.messages)
	require.Len(t, p.Stages, 2)
	assert.Equal(t, "VERTEX", p.Stages[0].Label)
	assert.Equal(t, "FRAGMENT", p.Stages[1].Label)

	// Stage objects are released once linked.
	assert.Len(t, b.deletedStage, 2)
	assert.Empty(t, b.deletedProg)

	p.Close()
	p.Close()
	assert.Equal(t, []ProgramHandle{p.Handle}, b.deletedProg)
}

func TestBuildContinuesAfterFailure(t *testing.T) {
	b := newFakeBackend()
	sink := &recorder{}

	p, err := Build(b, sink, DefaultOptions(),
		StageSource{Kind: StageVertex, Source: "vs"},
		StageSource{Kind: StageFragment, Label: "FRAGMENT_ORANGE", Source: "bad"},
	)
	require.NoError(t, err)
	require.NotNil(t, p)
	defer p.Close()

	assert.False(t, p.OK())
	require.Len(t, sink.messages, 2)
	assert.Contains(t, sink.messages[0], "ERROR::SHADER::FRAGMENT_ORANGE::COMPILATION_FAILED")
	assert.Contains(t, sink.messages[1], "ERROR::SHADER::PROGRAM::LINKING_FAILED")

	var cf *CompileFailure
	require.True(t, errors.As(p.Failures(), &cf))
	assert.Equal(t, "FRAGMENT_ORANGE", cf.Label)
	var lf *LinkFailure
	assert.True(t, errors.As(p.Failures(), &lf))
}

func TestBuildAbortOnCompileFailure(t *testing.T) {
	b := newFakeBackend()
	sink := &recorder{}
	opts := DefaultOptions()
	opts.Policy = PolicyAbort

	p, err := Build(b, sink, opts,
		StageSource{Kind: StageVertex, Source: "bad"},
		StageSource{Kind: StageFragment, Source: "fs"},
	)
	assert.Nil(t, p)
	var cf *CompileFailure
	require.True(t, errors.As(err, &cf))
	assert.Equal(t, "VERTEX", cf.Label)

	assert.Len(t, sink.messages, 1, "failure is still reported")
	assert.Len(t, b.deletedStage, 2)
	assert.Empty(t, b.programs, "no program is created")
}

func TestBuildAbortOnLinkFailure(t *testing.T) {
	b := newFakeBackend()
	b.linkLog = "error: interface mismatch"
	opts := DefaultOptions()
	opts.Policy = PolicyAbort

	p, err := Build(b, nil, opts,
		StageSource{Kind: StageVertex, Source: "vs"},
		StageSource{Kind: StageFragment, Source: "fs"},
	)
	assert.Nil(t, p)
	var lf *LinkFailure
	require.True(t, errors.As(err, &lf))
	assert.Equal(t, "error: interface mismatch", lf.Log)
	assert.Len(t, b.deletedProg, 1)
}

func TestBuildReleasesOnBackendError(t *testing.T) {
	t.Run("attach", func(t *testing.T) {
		b := newFakeBackend()
		b.attachErr = errors.New("context lost")

		p, err := Build(b, nil, DefaultOptions(),
			StageSource{Kind: StageVertex, Source: "vs"},
			StageSource{Kind: StageFragment, Source: "fs"},
		)
		assert.Nil(t, p)
		assert.ErrorContains(t, err, "context lost")
		assert.Len(t, b.deletedStage, 2)
		assert.Len(t, b.deletedProg, 1)
	})

	t.Run("create stage", func(t *testing.T) {
		b := newFakeBackend()
		b.createErr = errors.New("no context")

		_, err := Build(b, nil, DefaultOptions(), StageSource{Kind: StageVertex, Source: "vs"})
		assert.ErrorContains(t, err, "create VERTEX stage")
	})

	t.Run("create program", func(t *testing.T) {
		b := newFakeBackend()
		b.programErr = errors.New("out of memory")

		_, err := Build(b, nil, DefaultOptions(), StageSource{Kind: StageVertex, Source: "vs"})
		assert.ErrorContains(t, err, "create program")
		assert.Len(t, b.deletedStage, 1)
	})
}

func TestBuildNoStages(t *testing.T) {
	_, err := Build(newFakeBackend(), nil, DefaultOptions())
	assert.Error(t, err)
}
