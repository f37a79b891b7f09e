package view

import (
	"github.com/jask/jaskmods/internal/catalog"
	"github.com/jask/jaskmods/internal/database/repository"
)

// ItemSource resolves backing items by identity.
type ItemSource interface {
	Resolve(id string) (repository.Addon, bool)
}

// Reconciler keeps the registry consistent with the page across rebuilds,
// incremental updates, visual state changes and progress ticks.
//
// refresh is called after every structural or visual change; its argument
// says whether the scroll position needs recomputing. repaint is the cheap
// path for changes that only touch an icon.
type Reconciler struct {
	reg     *Registry
	items   ItemSource
	refresh func(scrollToSelection bool)
	repaint func()
}

func NewReconciler(reg *Registry, items ItemSource, refresh func(bool), repaint func()) *Reconciler {
	return &Reconciler{reg: reg, items: items, refresh: refresh, repaint: repaint}
}

// Rebuild resets the registry to exactly the page's contents, in page order.
// Identities the source cannot resolve are skipped. Running it twice with the
// same page yields the same registry.
func (r *Reconciler) Rebuild(p *catalog.Page) {
	r.reg.Clear()
	for _, st := range p.States() {
		item, ok := r.items.Resolve(st.ID)
		if !ok {
			continue
		}
		e := r.reg.Upsert(item)
		e.State = st
	}
	r.fire(true)
}

// Update applies a diff: removals first, then adds and updates, then the
// reorder. The scroll position is only recomputed when the registry's size
// changed; attribute-only updates and same-size reorders leave it alone.
func (r *Reconciler) Update(ev catalog.UpdateEvent) {
	before := r.reg.Len()
	for _, id := range ev.Removed {
		r.reg.Remove(id)
	}
	for _, id := range ev.AddedOrUpdated {
		item, ok := r.items.Resolve(id)
		if !ok {
			continue
		}
		e := r.reg.Upsert(item)
		if st, ok := ev.Page.VisualState(id); ok {
			e.State = st
		}
	}
	if ev.Reorder {
		r.reg.ReorderTo(ev.Page.IDs())
	}
	r.fire(r.reg.Len() != before)
}

// ApplyVisualStates overwrites the stored state for known identities.
// An empty batch is a no-op.
func (r *Reconciler) ApplyVisualStates(states []catalog.VisualState) {
	if len(states) == 0 {
		return
	}
	for _, st := range states {
		if e := r.reg.Get(st.ID); e != nil {
			e.State = st
		}
	}
	r.fire(true)
}

// SetProgress records install progress for one entry. Unknown identities are
// ignored. Only a repaint is requested.
func (r *Reconciler) SetProgress(ev catalog.ProgressEvent) {
	e := r.reg.Get(ev.ID)
	if e == nil {
		return
	}
	e.Progress = ev.Percent
	if r.repaint != nil {
		r.repaint()
	}
}

func (r *Reconciler) fire(scroll bool) {
	if r.refresh != nil {
		r.refresh(scroll)
	}
}
