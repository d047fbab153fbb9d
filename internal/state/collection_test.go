package state

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type entity struct {
	ID   string
	Name string
}

func newTestCollection() *Collection[entity] {
	return NewCollection(func(e entity) string { return e.ID })
}

func TestCreateAppendsExactlyOnceAtEnd(t *testing.T) {
	c := newTestCollection()
	seq := c.BeginLoad()
	c.CompleteLoad(seq, []entity{{ID: "a"}, {ID: "b"}}, "")

	c.ApplyCreate(entity{ID: "c"})

	items := c.Items()
	require.Len(t, items, 3)
	require.Equal(t, "c", items[2].ID)
}

func TestUpdateReplacesInPlacePreservingOrder(t *testing.T) {
	c := newTestCollection()
	seq := c.BeginLoad()
	c.CompleteLoad(seq, []entity{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}, {ID: "c", Name: "three"}}, "")

	require.True(t, c.ApplyUpdate(entity{ID: "b", Name: "updated"}))

	items := c.Items()
	require.Len(t, items, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})
	require.Equal(t, "updated", items[1].Name)
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	c := newTestCollection()
	seq := c.BeginLoad()
	c.CompleteLoad(seq, []entity{{ID: "a"}}, "")

	require.False(t, c.ApplyUpdate(entity{ID: "zzz"}))
	require.Equal(t, 1, c.Len())
}

func TestRemoveFiltersOutAndReRemoveIsNoop(t *testing.T) {
	c := newTestCollection()
	seq := c.BeginLoad()
	c.CompleteLoad(seq, []entity{{ID: "a"}, {ID: "b"}}, "")

	require.True(t, c.ApplyRemove("a"))
	require.Equal(t, 1, c.Len())
	require.False(t, c.Contains("a"))

	require.False(t, c.ApplyRemove("a"))
	require.Equal(t, 1, c.Len())
}

func TestFailedLoadLeavesCollectionUntouched(t *testing.T) {
	c := newTestCollection()
	seq := c.BeginLoad()
	c.CompleteLoad(seq, []entity{{ID: "a"}}, "")

	seq = c.BeginLoad()
	require.True(t, c.Loading())
	c.CompleteLoad(seq, nil, "could not load")

	require.False(t, c.Loading())
	require.Equal(t, "could not load", c.Err())
	require.Equal(t, 1, c.Len())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	c := newTestCollection()

	first := c.BeginLoad()
	second := c.BeginLoad()

	// Second (latest) response lands first.
	require.True(t, c.CompleteLoad(second, []entity{{ID: "fresh"}}, ""))
	// First response resolves late and must be dropped.
	require.False(t, c.CompleteLoad(first, []entity{{ID: "stale"}}, ""))

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, "fresh", items[0].ID)
}

func TestStaleFailureDoesNotClobberFreshResult(t *testing.T) {
	c := newTestCollection()

	first := c.BeginLoad()
	second := c.BeginLoad()

	require.True(t, c.CompleteLoad(second, []entity{{ID: "fresh"}}, ""))
	require.False(t, c.CompleteLoad(first, nil, "late failure"))

	require.Empty(t, c.Err())
	require.Equal(t, 1, c.Len())
}

func TestLoadHelperCollapsesErrors(t *testing.T) {
	c := newTestCollection()
	err := Load(context.Background(), c, "could not load products", func(ctx context.Context) ([]entity, error) {
		return nil, fmt.Errorf("dial tcp: refused")
	})
	require.Error(t, err)
	require.Equal(t, "could not load products", c.Err())
}

func TestBeginLoadClearsPreviousError(t *testing.T) {
	c := newTestCollection()
	seq := c.BeginLoad()
	c.CompleteLoad(seq, nil, "boom")
	require.Equal(t, "boom", c.Err())

	c.BeginLoad()
	require.Empty(t, c.Err())
	require.True(t, c.Loading())
}

func TestFocusLoadIndependentOfList(t *testing.T) {
	f := NewFocus[entity]()
	err := LoadOne(context.Background(), f, "could not load", func(ctx context.Context) (*entity, error) {
		return &entity{ID: "x", Name: "detail"}, nil
	})
	require.NoError(t, err)
	got := f.Value()
	require.NotNil(t, got)
	require.Equal(t, "detail", got.Name)

	f.Clear()
	require.Nil(t, f.Value())
}

func TestFocusStaleLoadDiscarded(t *testing.T) {
	f := NewFocus[entity]()
	first := f.BeginLoad()
	second := f.BeginLoad()

	require.True(t, f.CompleteLoad(second, &entity{ID: "fresh"}, ""))
	require.False(t, f.CompleteLoad(first, &entity{ID: "stale"}, ""))
	require.Equal(t, "fresh", f.Value().ID)
}
