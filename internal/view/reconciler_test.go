package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskmods/internal/catalog"
	"github.com/jask/jaskmods/internal/database/repository"
)

type fakeSource map[string]repository.Addon

func (f fakeSource) Resolve(id string) (repository.Addon, bool) {
	a, ok := f[id]
	return a, ok
}

type refreshLog struct {
	calls    []bool // scroll flag per call
	repaints int
}

func (l *refreshLog) refresh(scroll bool) { l.calls = append(l.calls, scroll) }
func (l *refreshLog) repaint()            { l.repaints++ }

func newTestReconciler(items fakeSource) (*Reconciler, *Registry, *refreshLog) {
	reg := NewRegistry()
	log := &refreshLog{}
	rec := NewReconciler(reg, items, log.refresh, log.repaint)
	return rec, reg, log
}

func pageOf(states ...catalog.VisualState) *catalog.Page {
	return catalog.NewPage(states)
}

func TestRebuildMirrorsPageOrder(t *testing.T) {
	t.Parallel()

	items := fakeSource{
		"a": addon("a", "Alpha"),
		"b": addon("b", "Beta"),
		"c": addon("c", "Gamma"),
	}
	rec, reg, log := newTestReconciler(items)

	rec.Rebuild(pageOf(visible("c"), hidden("a"), visible("b")))
	require.Equal(t, []string{"c", "a", "b"}, orderIDs(reg))
	require.False(t, reg.Get("a").Visible())
	require.Equal(t, []bool{true}, log.calls)
}

func TestRebuildIsIdempotent(t *testing.T) {
	t.Parallel()

	items := fakeSource{"a": addon("a", "Alpha"), "b": addon("b", "Beta")}
	rec, reg, _ := newTestReconciler(items)

	p := pageOf(visible("b"), visible("a"))
	rec.Rebuild(p)
	first := orderIDs(reg)
	rec.Rebuild(p)
	require.Equal(t, first, orderIDs(reg))
	require.Equal(t, 2, reg.Len())
}

func TestRebuildSkipsUnresolvableIdentities(t *testing.T) {
	t.Parallel()

	items := fakeSource{"a": addon("a", "Alpha")}
	rec, reg, _ := newTestReconciler(items)

	rec.Rebuild(pageOf(visible("ghost"), visible("a")))
	require.Equal(t, []string{"a"}, orderIDs(reg))
}

func TestUpdateAppliesDiff(t *testing.T) {
	t.Parallel()

	items := fakeSource{
		"a": addon("a", "Alpha"),
		"b": addon("b", "Beta"),
		"c": addon("c", "Gamma"),
	}
	rec, reg, _ := newTestReconciler(items)
	rec.Rebuild(pageOf(visible("a"), visible("b")))

	// b leaves, c arrives, page now reads c then a
	p := pageOf(visible("c"), visible("a"))
	rec.Update(catalog.UpdateEvent{Page: p, AddedOrUpdated: []string{"c"}, Removed: []string{"b"}, Reorder: true})

	require.Equal(t, []string{"c", "a"}, orderIDs(reg))
	require.Nil(t, reg.Get("b"))
}

func TestUpdateScrollsOnlyOnSizeChange(t *testing.T) {
	t.Parallel()

	items := fakeSource{
		"a": addon("a", "Alpha"),
		"b": addon("b", "Beta"),
		"c": addon("c", "Gamma"),
	}
	rec, _, log := newTestReconciler(items)
	rec.Rebuild(pageOf(visible("a"), visible("b")))
	log.calls = nil

	// attribute-only update, same size
	p := pageOf(visible("a"), visible("b"))
	rec.Update(catalog.UpdateEvent{Page: p, AddedOrUpdated: []string{"a"}})
	require.Equal(t, []bool{false}, log.calls)

	// same-size reorder
	p2 := pageOf(visible("b"), visible("a"))
	rec.Update(catalog.UpdateEvent{Page: p2, Reorder: true})
	require.Equal(t, []bool{false, false}, log.calls)

	// addition changes the size
	p3 := pageOf(visible("b"), visible("a"), visible("c"))
	rec.Update(catalog.UpdateEvent{Page: p3, AddedOrUpdated: []string{"c"}})
	require.Equal(t, []bool{false, false, true}, log.calls)

	// removal changes the size
	p4 := pageOf(visible("b"), visible("a"))
	rec.Update(catalog.UpdateEvent{Page: p4, Removed: []string{"c"}})
	require.Equal(t, []bool{false, false, true, true}, log.calls)
}

func TestApplyVisualStates(t *testing.T) {
	t.Parallel()

	items := fakeSource{"a": addon("a", "Alpha"), "b": addon("b", "Beta")}
	rec, reg, log := newTestReconciler(items)
	rec.Rebuild(pageOf(visible("a"), visible("b")))
	log.calls = nil

	// empty batch is a no-op
	rec.ApplyVisualStates(nil)
	require.Empty(t, log.calls)

	rec.ApplyVisualStates([]catalog.VisualState{hidden("a"), hidden("ghost")})
	require.False(t, reg.Get("a").Visible())
	require.Equal(t, []bool{true}, log.calls)
}

func TestSetProgressRepaintsWithoutRefresh(t *testing.T) {
	t.Parallel()

	items := fakeSource{"a": addon("a", "Alpha")}
	rec, reg, log := newTestReconciler(items)
	rec.Rebuild(pageOf(visible("a")))
	log.calls = nil

	rec.SetProgress(catalog.ProgressEvent{ID: "a", Percent: 60})
	require.Equal(t, 60, reg.Get("a").Progress)
	require.Empty(t, log.calls)
	require.Equal(t, 1, log.repaints)

	// unknown identity is ignored
	rec.SetProgress(catalog.ProgressEvent{ID: "ghost", Percent: 10})
	require.Equal(t, 1, log.repaints)
}
