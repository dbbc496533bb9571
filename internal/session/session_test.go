package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/metrics"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

func generated() State {
	st := New()
	st.Model = &types.ProcessModel{Equipment: []types.Equipment{{ID: "P-101", Type: "pump", Attrs: types.Attributes{"duty": types.Number(5)}}}}
	st.Diagram = []byte("png")
	st.DiagramKey = "abc/pfd_1.png"
	st.Description = "Process Flow Diagram Description:"
	st.ShowForm = false
	return st.Append(
		NewMessage(llm.RoleUser, KindText, "make a pump loop"),
		NewMessage(llm.RoleAssistant, KindImage, "I've generated the PFD"),
	)
}

func TestNewState(t *testing.T) {
	st := New()
	assert.NotEmpty(t, st.ID)
	assert.True(t, st.ShowForm)
	assert.False(t, st.HasDiagram())
	assert.Empty(t, st.History)
}

func TestNewDiagramKeepsHistory(t *testing.T) {
	st := generated().NewDiagram()
	assert.False(t, st.HasDiagram())
	assert.Nil(t, st.Diagram)
	assert.Empty(t, st.DiagramKey)
	assert.Empty(t, st.Description)
	assert.True(t, st.ShowForm)
	assert.Len(t, st.History, 2)
}

func TestResetClearsEverything(t *testing.T) {
	st := generated()
	st.Verification = Conversation{HasImage: true, Description: "d"}
	st = st.Reset()
	assert.False(t, st.HasDiagram())
	assert.Empty(t, st.History)
	assert.True(t, st.ShowForm)
	assert.True(t, st.Verification.HasImage, "the verifier has its own reset")

	st = st.ResetVerification()
	assert.Equal(t, Conversation{}, st.Verification)
}

func TestAppendDoesNotAlias(t *testing.T) {
	a := generated()
	b := a.Append(NewMessage(llm.RoleUser, KindText, "q"))
	assert.Len(t, a.History, 2)
	assert.Len(t, b.History, 3)
	assert.NotEqual(t, b.History[1].ID, b.History[2].ID)
}

func TestRecent(t *testing.T) {
	var history []Message
	for i := 0; i < 20; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, NewMessage(role, KindText, fmt.Sprint(i)))
	}

	turns := Recent(history, ContextTurns)
	require.Len(t, turns, 12)
	assert.Equal(t, llm.Turn{Role: llm.RoleUser, Content: "8"}, turns[0])
	assert.Equal(t, "19", turns[11].Content)

	assert.Len(t, Recent(history[:3], ContextTurns), 3)
	assert.Empty(t, Recent(nil, ContextTurns))
}

func TestCloneIsDeep(t *testing.T) {
	a := generated()
	b := a.Clone()
	b.History[0].Content = "changed"
	b.Model.Equipment = nil
	assert.Equal(t, "make a pump loop", a.History[0].Content)
	assert.Len(t, a.Model.Equipment, 1)
}

func TestCloneCopiesModelRecords(t *testing.T) {
	a := generated()
	id := a.Model.Equipment[0].ID
	b := a.Clone()
	b.Model.Equipment[0].ID = "X-999"
	b.Model.Equipment[0].Attrs["temperature"] = types.Number(99)
	assert.Equal(t, id, a.Model.Equipment[0].ID)
	assert.NotContains(t, a.Model.Equipment[0].Attrs, "temperature")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(metrics.NewRegistry())
	st := r.Create()
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := r.Update(context.Background(), st.ID, func(_ context.Context, s State) (State, error) {
		s.ID = "ignored"
		return s.Append(NewMessage(llm.RoleUser, KindText, "hi")), nil
	})
	require.NoError(t, err)
	assert.Equal(t, st.ID, updated.ID)
	assert.Len(t, updated.History, 1)

	boom := errors.New("model offline")
	_, err = r.Update(context.Background(), st.ID, func(_ context.Context, s State) (State, error) {
		return s.Reset(), boom
	})
	assert.ErrorIs(t, err, boom)
	got, _ = r.Get(st.ID)
	assert.Len(t, got.History, 1, "failed updates are discarded")

	_, err = r.Update(context.Background(), "missing", func(_ context.Context, s State) (State, error) { return s, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Delete(st.ID))
	assert.ErrorIs(t, r.Delete(st.ID), ErrNotFound)
	assert.Zero(t, r.Len())
}

func TestRegistrySerializesUpdates(t *testing.T) {
	r := NewRegistry(nil)
	st := r.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Update(context.Background(), st.ID, func(_ context.Context, s State) (State, error) {
				return s.Append(NewMessage(llm.RoleUser, KindText, "x")), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := r.Get(st.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 50)
}
