package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeViewport struct {
	measurable bool
	calls      int
	last       Selectable
}

func (v *fakeViewport) EnsureVisible(s Selectable) bool {
	v.calls++
	v.last = s
	return v.measurable
}

type taskQueue struct {
	tasks []func()
}

func (q *taskQueue) schedule(fn func()) { q.tasks = append(q.tasks, fn) }

// runAll drains the queue once; tasks may re-queue themselves.
func (q *taskQueue) runAll() {
	tasks := q.tasks
	q.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}

func navFixture(t *testing.T) (*Navigator, *Registry, *fakeSel, *fakeViewport, *taskQueue) {
	t.Helper()
	reg := NewRegistry()
	reg.Upsert(addon("a", "Alpha")).State = visible("a")
	reg.Upsert(addon("b", "Beta")).State = hidden("b")
	reg.Upsert(addon("c", "Gamma")).State = visible("c")
	sel := &fakeSel{}
	vp := &fakeViewport{measurable: true}
	q := &taskQueue{}
	return NewNavigator(reg, sel, vp, q.schedule), reg, sel, vp, q
}

func TestSelectByZeroIsConsumed(t *testing.T) {
	t.Parallel()

	nav, _, sel, vp, _ := navFixture(t)
	sel.Select("a", "", true)
	require.True(t, nav.SelectBy(0))
	require.Equal(t, 0, vp.calls)
}

func TestSelectByWithoutSelection(t *testing.T) {
	t.Parallel()

	nav, _, sel, _, _ := navFixture(t)
	require.True(t, nav.SelectBy(1))
	require.False(t, sel.has)
}

func TestSelectBySkipsHiddenEntries(t *testing.T) {
	t.Parallel()

	nav, _, sel, vp, _ := navFixture(t)
	sel.Select("a", "", true)

	require.True(t, nav.SelectBy(1))
	require.Equal(t, "c", sel.sel.ID)
	require.True(t, sel.sel.Manual)
	require.Equal(t, 1, vp.calls)
	require.Equal(t, "c", vp.last.Entry.Addon.ID)

	require.True(t, nav.SelectBy(-1))
	require.Equal(t, "a", sel.sel.ID)
}

func TestSelectByFailsAtBounds(t *testing.T) {
	t.Parallel()

	nav, _, sel, _, _ := navFixture(t)
	sel.Select("a", "", true)

	require.False(t, nav.SelectBy(-1))
	// selection untouched on failure
	require.Equal(t, "a", sel.sel.ID)

	sel.Select("c", "", true)
	require.False(t, nav.SelectBy(1))
	require.Equal(t, "c", sel.sel.ID)
}

func TestSelectByWalksIntoExpandedVersions(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := reg.Upsert(addon("a", "Alpha", "a-v1", "a-v2"))
	a.State = visible("a")
	a.Expanded = true
	reg.Upsert(addon("b", "Beta")).State = visible("b")
	sel := &fakeSel{}
	nav := NewNavigator(reg, sel, &fakeViewport{measurable: true}, nil)

	sel.Select("a", "", true)
	require.True(t, nav.SelectBy(1))
	require.Equal(t, "a-v1", sel.sel.VersionID)
	require.True(t, nav.SelectBy(1))
	require.Equal(t, "a-v2", sel.sel.VersionID)
	require.True(t, nav.SelectBy(1))
	require.Equal(t, "b", sel.sel.ID)
	require.Equal(t, "", sel.sel.VersionID)
}

func TestSelectByMultipleSteps(t *testing.T) {
	t.Parallel()

	nav, reg, sel, _, _ := navFixture(t)
	reg.Upsert(addon("d", "Delta")).State = visible("d")
	sel.Select("a", "", true)

	require.True(t, nav.SelectBy(2))
	require.Equal(t, "d", sel.sel.ID)
	require.False(t, nav.SelectBy(2))
}

func TestScrollDeferredUntilMeasurable(t *testing.T) {
	t.Parallel()

	nav, _, sel, vp, q := navFixture(t)
	vp.measurable = false
	sel.Select("a", "", true)

	require.True(t, nav.SelectBy(1))
	require.Equal(t, "c", sel.sel.ID)
	require.Len(t, q.tasks, 1)

	// still unmeasurable, the retry re-queues itself
	q.runAll()
	require.Len(t, q.tasks, 1)

	vp.measurable = true
	q.runAll()
	require.Empty(t, q.tasks)
	require.Equal(t, "c", vp.last.Entry.Addon.ID)
}

func TestScrollRetriesAreCapped(t *testing.T) {
	t.Parallel()

	nav, _, sel, vp, q := navFixture(t)
	vp.measurable = false
	sel.Select("a", "", true)
	nav.SelectBy(1)

	rounds := 0
	for len(q.tasks) > 0 {
		rounds++
		require.LessOrEqual(t, rounds, maxScrollRetries+1)
		q.runAll()
	}
	require.Equal(t, maxScrollRetries, rounds)
}

func TestScrollRetryResolvesSelectionAtRunTime(t *testing.T) {
	t.Parallel()

	nav, _, sel, vp, q := navFixture(t)
	vp.measurable = false
	sel.Select("a", "", true)
	nav.SelectBy(1)
	require.Equal(t, "c", sel.sel.ID)

	// selection moves before the deferred scroll runs
	sel.Select("a", "", true)
	vp.measurable = true
	q.runAll()
	require.Equal(t, "a", vp.last.Entry.Addon.ID)
}

func TestOnFocusGainedScrollsToSelection(t *testing.T) {
	t.Parallel()

	nav, _, sel, vp, _ := navFixture(t)
	sel.Select("c", "", true)
	nav.OnFocusGained()
	require.Equal(t, 1, vp.calls)
	require.Equal(t, "c", vp.last.Entry.Addon.ID)

	// no selection, nothing to scroll
	sel.ClearSelection()
	nav.OnFocusGained()
	require.Equal(t, 1, vp.calls)
}

func TestSetPageSize(t *testing.T) {
	t.Parallel()

	nav, _, _, _, _ := navFixture(t)
	require.Equal(t, 1, nav.PageSize())

	nav.SetPageSize(24, 2)
	require.Equal(t, 12, nav.PageSize())

	nav.SetPageSize(25, 2)
	require.Equal(t, 12, nav.PageSize())

	nav.SetPageSize(1, 2)
	require.Equal(t, 1, nav.PageSize())

	nav.SetPageSize(10, 0)
	require.Equal(t, 10, nav.PageSize())

	// unmeasured container leaves the page size alone
	nav.SetPageSize(0, 2)
	require.Equal(t, 10, nav.PageSize())
}
