package view

import (
	"github.com/jask/jaskmods/internal/catalog"
)

// Viewport scrolls rows into view. EnsureVisible reports false when the
// surface has no measurable geometry yet, for example before the first
// window size arrives.
type Viewport interface {
	EnsureVisible(s Selectable) bool
}

// maxScrollRetries bounds how often a deferred scroll is re-queued while the
// viewport stays unmeasurable.
const maxScrollRetries = 120

// Navigator moves the selection through the flattened selectable sequence and
// keeps the selected row scrolled into view. Scrolls that cannot run yet are
// re-queued on the UI loop through schedule.
type Navigator struct {
	reg      *Registry
	sel      SelectionSink
	vp       Viewport
	schedule func(func())

	retries  int
	pageSize int
}

func NewNavigator(reg *Registry, sel SelectionSink, vp Viewport, schedule func(func())) *Navigator {
	return &Navigator{reg: reg, sel: sel, vp: vp, schedule: schedule, pageSize: 1}
}

// Selectables flattens the registry into the navigable sequence: each entry
// row followed by its expanded version sub-rows, in display order.
func (n *Navigator) Selectables() []Selectable {
	var out []Selectable
	for _, e := range n.reg.All() {
		out = append(out, e.Selectables()...)
	}
	return out
}

// SelectBy moves the selection delta visible slots forward or backward,
// skipping slots whose entry is hidden. It reports false only when the walk
// runs off either end; the selection is unchanged in that case. On success
// the new selection is committed and scrolled into view.
func (n *Navigator) SelectBy(delta int) bool {
	if delta == 0 {
		return true
	}
	items := n.Selectables()
	cur, ok := n.sel.Selection()
	if !ok {
		return true
	}
	idx := indexOf(items, cur)
	if idx < 0 {
		return true
	}

	dir, steps := 1, delta
	if delta < 0 {
		dir, steps = -1, -delta
	}
	i := idx
	for steps > 0 {
		i += dir
		if i < 0 || i >= len(items) {
			return false
		}
		if items[i].Visible() {
			steps--
		}
	}

	target := items[i]
	n.sel.Select(target.Entry.Addon.ID, target.VersionID, true)
	n.scrollIntoView(target)
	return true
}

// ScrollToSelection brings the current selection into view, deferring the
// scroll when the viewport cannot be measured yet.
func (n *Navigator) ScrollToSelection() {
	cur, ok := n.sel.Selection()
	if !ok {
		return
	}
	for _, s := range n.Selectables() {
		if matches(s, cur) {
			n.scrollIntoView(s)
			return
		}
	}
}

// OnFocusGained re-anchors the viewport on the selection when the pane
// regains focus.
func (n *Navigator) OnFocusGained() { n.ScrollToSelection() }

// SetPageSize derives how many entries fit from the container height and a
// fixed per-entry height. Non-positive heights mean layout has not happened
// yet and are ignored.
func (n *Navigator) SetPageSize(containerHeight, entryHeight int) {
	if containerHeight <= 0 {
		return
	}
	if entryHeight < 1 {
		entryHeight = 1
	}
	size := containerHeight / entryHeight
	if size < 1 {
		size = 1
	}
	n.pageSize = size
}

// PageSize returns how many entries one page holds, at least 1.
func (n *Navigator) PageSize() int { return n.pageSize }

func (n *Navigator) scrollIntoView(s Selectable) {
	if n.vp == nil {
		return
	}
	if n.vp.EnsureVisible(s) {
		n.retries = 0
		return
	}
	if n.retries >= maxScrollRetries {
		n.retries = 0
		return
	}
	n.retries++
	if n.schedule != nil {
		// re-resolve the selection on the later turn, rows may have moved
		n.schedule(n.ScrollToSelection)
	}
}

func indexOf(items []Selectable, sel catalog.Selection) int {
	for i, s := range items {
		if matches(s, sel) {
			return i
		}
	}
	return -1
}

func matches(s Selectable, sel catalog.Selection) bool {
	return s.Entry.Addon.ID == sel.ID && s.VersionID == sel.VersionID
}
