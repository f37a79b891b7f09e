package view

import (
	"github.com/jask/jaskmods/internal/catalog"
	"github.com/jask/jaskmods/internal/database/repository"
)

// ViewEntry is one addon row as the view tracks it: the backing item, the
// page-dictated visual state, install progress and whether the version
// sub-rows are expanded.
type ViewEntry struct {
	Addon    repository.Addon
	State    catalog.VisualState
	Progress int // -1 when no install is running
	Expanded bool
}

func (e *ViewEntry) Visible() bool { return e.State.Visible }

// Selectables returns the entry row followed by its version sub-rows when
// expanded. Sub-rows inherit the entry's visibility.
func (e *ViewEntry) Selectables() []Selectable {
	out := []Selectable{{Entry: e}}
	if !e.Expanded {
		return out
	}
	for _, v := range e.Addon.Versions {
		out = append(out, Selectable{Entry: e, VersionID: v.ID})
	}
	return out
}

// Selectable is one navigable slot: an entry row (VersionID empty) or a
// version sub-row.
type Selectable struct {
	Entry     *ViewEntry
	VersionID string
}

func (s Selectable) Visible() bool { return s.Entry.Visible() }

// Registry keeps one ViewEntry per identity plus the display order. The order
// mirrors the page; the map gives O(1) identity lookups.
type Registry struct {
	byID  map[string]*ViewEntry
	order []*ViewEntry
}

func NewRegistry() *Registry {
	return &Registry{byID: map[string]*ViewEntry{}}
}

func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) Get(id string) *ViewEntry { return r.byID[id] }

// All returns the entries in display order.
func (r *Registry) All() []*ViewEntry { return r.order }

func (r *Registry) VisibleCount() int {
	n := 0
	for _, e := range r.order {
		if e.Visible() {
			n++
		}
	}
	return n
}

// Upsert installs or updates the entry for item. New entries append to the
// order; existing entries keep their position and view-local state.
func (r *Registry) Upsert(item repository.Addon) *ViewEntry {
	if e, ok := r.byID[item.ID]; ok {
		e.Addon = item
		return e
	}
	e := &ViewEntry{Addon: item, Progress: -1}
	r.byID[item.ID] = e
	r.order = append(r.order, e)
	return e
}

// Remove drops the entry for id and returns it, nil when unknown.
func (r *Registry) Remove(id string) *ViewEntry {
	e, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	for i, other := range r.order {
		if other == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return e
}

func (r *Registry) Clear() {
	r.byID = map[string]*ViewEntry{}
	r.order = nil
}

// ReorderTo rearranges entries to match ids. Unknown ids are skipped; entries
// missing from ids keep their relative order at the tail.
func (r *Registry) ReorderTo(ids []string) {
	next := make([]*ViewEntry, 0, len(r.order))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if e, ok := r.byID[id]; ok {
			next = append(next, e)
			seen[id] = true
		}
	}
	for _, e := range r.order {
		if !seen[e.Addon.ID] {
			next = append(next, e)
		}
	}
	r.order = next
}
