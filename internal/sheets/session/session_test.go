package session

import (
	"sync"
	"testing"

	"frame-sketch/internal/engine/edit"
	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/scene"
	"frame-sketch/internal/sheets/solver"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGetClose(t *testing.T) {
	m := NewManager()

	s := m.Open(7, []scene.Element{&scene.Joint{ID: 3}})
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, int64(7), got.SheetID)

	st := s.State()
	require.Len(t, st.Elements, 1)
	assert.Equal(t, int64(3), st.Elements[0].ID)
	assert.Equal(t, "front", st.View)
	assert.Equal(t, "idle", st.Gesture)

	assert.True(t, m.Close(s.ID))
	assert.False(t, m.Close(s.ID))
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}

func TestLoadClearsLastSolve(t *testing.T) {
	m := NewManager()
	s := m.Open(1, nil)

	s.SetLastSolve(&solver.Result{Issues: []string{}})
	assert.NotNil(t, s.LastSolve())

	s.Load([]scene.Element{&scene.Joint{}})
	assert.Nil(t, s.LastSolve())
	assert.Equal(t, 1, len(s.State().Elements))
}

func TestCloseSheet(t *testing.T) {
	m := NewManager()
	m.Open(1, nil)
	m.Open(1, nil)
	keep := m.Open(2, nil)

	assert.Equal(t, 2, m.CloseSheet(1))
	assert.Equal(t, 1, m.Len())
	_, ok := m.Get(keep.ID)
	assert.True(t, ok)
}

func TestDoSerializesAccess(t *testing.T) {
	m := NewManager()
	s := m.Open(1, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(e *edit.Engine) error {
				_, err := e.AddElement(scene.KindJoint)
				return err
			})
		}()
	}
	wg.Wait()

	var n int
	s.Do(func(e *edit.Engine) error {
		n = e.Scene.Len()
		for _, el := range e.Scene.Elements() {
			assert.Equal(t, geom.Point{X: 1, Y: -1}, el.Points()[0])
		}
		return nil
	})
	assert.Equal(t, 50, n)
}

func TestSnapshotIsDetached(t *testing.T) {
	m := NewManager()
	s := m.Open(1, []scene.Element{&scene.Joint{ID: 1}})

	snapshot := s.Snapshot()
	require.Equal(t, 1, snapshot.Len())

	s.Do(func(e *edit.Engine) error {
		return e.MoveTo(1, 0, geom.Point{X: 5})
	})
	assert.Equal(t, geom.Point{}, snapshot.Get(1).Points()[0])
}
