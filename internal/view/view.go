package view

import (
	"github.com/jask/jaskmods/internal/catalog"
)

// View bundles the registry, reconciler, controller and navigator for one
// catalog pane and manages the feed subscriptions. Activate and Deactivate
// are symmetric; a deactivated view receives nothing.
type View struct {
	Registry   *Registry
	Reconciler *Reconciler
	Controller *Controller
	Navigator  *Navigator

	feed    *catalog.Feed
	handles []catalog.Handle
}

// New wires a view against a store. schedule queues work on a later UI loop
// turn; repaint requests a redraw without layout work.
func New(store *catalog.Store, vp Viewport, schedule func(func()), repaint func()) *View {
	reg := NewRegistry()
	ctrl := NewController(reg, store, store)
	nav := NewNavigator(reg, store, vp, schedule)
	rec := NewReconciler(reg, store, func(scroll bool) {
		ctrl.Evaluate()
		if scroll {
			nav.ScrollToSelection()
		}
	}, repaint)

	return &View{
		Registry:   reg,
		Reconciler: rec,
		Controller: ctrl,
		Navigator:  nav,
		feed:       store.Feed(),
	}
}

// Activate subscribes the view to its feed. Calling it on an active view is
// a no-op.
func (v *View) Activate() {
	if len(v.handles) > 0 {
		return
	}
	v.handles = []catalog.Handle{
		v.feed.OnRebuild(v.Reconciler.Rebuild),
		v.feed.OnUpdate(v.Reconciler.Update),
		v.feed.OnVisualState(v.Reconciler.ApplyVisualStates),
		v.feed.OnProgress(v.Reconciler.SetProgress),
		v.feed.OnRefreshStarted(func() { v.Controller.Evaluate() }),
		v.feed.OnRefreshFinished(func() { v.Controller.Evaluate() }),
		v.feed.OnLogin(func(bool) { v.Controller.Evaluate() }),
	}
}

// Deactivate removes every subscription Activate installed.
func (v *View) Deactivate() {
	for _, h := range v.handles {
		v.feed.Remove(h)
	}
	v.handles = nil
}

// Active reports whether the view is currently subscribed.
func (v *View) Active() bool { return len(v.handles) > 0 }
