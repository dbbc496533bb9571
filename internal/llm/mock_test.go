package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBuildsProcessFromTags(t *testing.T) {
	m := &Mock{}
	reply, err := m.Complete(context.Background(), Request{
		Prompt: GeneratePrompt("Water from T-101 is pumped by P-101 through E-201 into C-301, P-101 again."),
		JSON:   true,
	})
	require.NoError(t, err)

	doc, err := DecodeDocument(reply)
	require.NoError(t, err)
	model, err := DecodeProcessModel(Sanitize(doc))
	require.NoError(t, err)

	require.Len(t, model.Equipment, 4)
	assert.Equal(t, "tank", model.Equipment[0].Type)
	assert.Equal(t, "pump", model.Equipment[1].Type)
	assert.Equal(t, "heat_exchanger", model.Equipment[2].Type)
	assert.Equal(t, "distillation_column", model.Equipment[3].Type)
	require.Len(t, model.Streams, 3)
	assert.Equal(t, "E-201", model.Streams[2].From)
	assert.Equal(t, "C-301", model.Streams[2].To)
}

func TestMockFallsBackToDefaultProcess(t *testing.T) {
	reply, err := (&Mock{}).Complete(context.Background(), Request{Prompt: "make a process", JSON: true})
	require.NoError(t, err)
	assert.Contains(t, reply, `"T-101"`)
	assert.Contains(t, reply, `"P-101"`)
}

func TestMockScriptedRepliesAndErrors(t *testing.T) {
	m := &Mock{Replies: []string{"first", "second"}}
	for _, want := range []string{"first", "second", "[mock] question"} {
		got, err := m.Complete(context.Background(), Request{Prompt: "question\nmore"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, m.Calls())

	got, err := m.Complete(context.Background(), Request{Prompt: "look", Images: [][]byte{{1}}})
	require.NoError(t, err)
	assert.Equal(t, "[mock vision, 1 image(s)] look", got)

	boom := errors.New("offline")
	m = &Mock{Err: boom}
	_, err = m.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Ping(context.Background()), boom)
}
