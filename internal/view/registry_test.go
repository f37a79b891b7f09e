package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskmods/internal/catalog"
	"github.com/jask/jaskmods/internal/database/repository"
)

func addon(id, name string, versionIDs ...string) repository.Addon {
	a := repository.Addon{ID: id, Name: name}
	for i, vid := range versionIDs {
		a.Versions = append(a.Versions, repository.Version{ID: vid, AddonID: id, Label: vid, Channel: "stable", Position: i})
	}
	return a
}

func visible(id string) catalog.VisualState {
	return catalog.VisualState{ID: id, Visible: true}
}

func hidden(id string) catalog.VisualState {
	return catalog.VisualState{ID: id, Visible: false}
}

func orderIDs(r *Registry) []string {
	out := make([]string, 0, r.Len())
	for _, e := range r.All() {
		out = append(out, e.Addon.ID)
	}
	return out
}

func TestUpsertAppendsNewAndKeepsExisting(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := r.Upsert(addon("a", "Alpha"))
	r.Upsert(addon("b", "Beta"))
	require.Equal(t, []string{"a", "b"}, orderIDs(r))
	require.Equal(t, -1, a.Progress)

	// updating keeps position and view-local state
	a.Expanded = true
	a.Progress = 40
	a.State = visible("a")
	again := r.Upsert(addon("a", "Alpha v2"))
	require.Same(t, a, again)
	require.Equal(t, "Alpha v2", again.Addon.Name)
	require.True(t, again.Expanded)
	require.Equal(t, 40, again.Progress)
	require.True(t, again.State.Visible)
	require.Equal(t, []string{"a", "b"}, orderIDs(r))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Upsert(addon("a", "Alpha"))
	r.Upsert(addon("b", "Beta"))

	removed := r.Remove("a")
	require.NotNil(t, removed)
	require.Equal(t, "a", removed.Addon.ID)
	require.Equal(t, []string{"b"}, orderIDs(r))
	require.Nil(t, r.Get("a"))

	require.Nil(t, r.Remove("nope"))
	require.Equal(t, 1, r.Len())
}

func TestReorderToSkipsUnknownIDs(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Upsert(addon("a", "Alpha"))
	r.Upsert(addon("b", "Beta"))
	r.Upsert(addon("c", "Gamma"))

	r.ReorderTo([]string{"c", "ghost", "a"})
	// b was not named, it keeps its relative place at the tail
	require.Equal(t, []string{"c", "a", "b"}, orderIDs(r))
}

func TestClear(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Upsert(addon("a", "Alpha"))
	r.Clear()
	require.Equal(t, 0, r.Len())
	require.Nil(t, r.Get("a"))
}

func TestVisibleCount(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Upsert(addon("a", "Alpha")).State = visible("a")
	r.Upsert(addon("b", "Beta")).State = hidden("b")
	require.Equal(t, 1, r.VisibleCount())
}

func TestSelectablesIncludeExpandedVersions(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	e := r.Upsert(addon("a", "Alpha", "a-v1", "a-v2"))
	e.State = visible("a")

	require.Len(t, e.Selectables(), 1)

	e.Expanded = true
	rows := e.Selectables()
	require.Len(t, rows, 3)
	require.Equal(t, "", rows[0].VersionID)
	require.Equal(t, "a-v1", rows[1].VersionID)
	require.Equal(t, "a-v2", rows[2].VersionID)
	// sub-rows inherit entry visibility
	e.State = hidden("a")
	require.False(t, rows[1].Visible())
}
