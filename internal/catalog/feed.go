package catalog

// UpdateEvent carries an incremental page change. Identities in AddedOrUpdated
// are present on Page; identities in Removed are not.
type UpdateEvent struct {
	Page           *Page
	AddedOrUpdated []string
	Removed        []string
	Reorder        bool
}

// ProgressEvent reports install progress for one addon, 0-100.
type ProgressEvent struct {
	ID      string
	Percent int
}

// Handle identifies one subscription so it can be removed later.
type Handle struct {
	kind int
	id   int
}

const (
	kindRebuild = iota
	kindUpdate
	kindVisual
	kindProgress
	kindRefreshStarted
	kindRefreshFinished
	kindLogin
)

type rebuildSub struct {
	id int
	fn func(*Page)
}

type updateSub struct {
	id int
	fn func(UpdateEvent)
}

type visualSub struct {
	id int
	fn func([]VisualState)
}

type progressSub struct {
	id int
	fn func(ProgressEvent)
}

type signalSub struct {
	id int
	fn func()
}

type loginSub struct {
	id int
	fn func(bool)
}

// Feed delivers catalog events to subscribers. Delivery is synchronous and in
// subscription order; everything runs on the UI loop, so no locking.
type Feed struct {
	nextID          int
	rebuild         []rebuildSub
	update          []updateSub
	visual          []visualSub
	progress        []progressSub
	refreshStarted  []signalSub
	refreshFinished []signalSub
	login           []loginSub
}

func NewFeed() *Feed { return &Feed{} }

func (f *Feed) OnRebuild(fn func(*Page)) Handle {
	f.nextID++
	f.rebuild = append(f.rebuild, rebuildSub{f.nextID, fn})
	return Handle{kindRebuild, f.nextID}
}

func (f *Feed) OnUpdate(fn func(UpdateEvent)) Handle {
	f.nextID++
	f.update = append(f.update, updateSub{f.nextID, fn})
	return Handle{kindUpdate, f.nextID}
}

func (f *Feed) OnVisualState(fn func([]VisualState)) Handle {
	f.nextID++
	f.visual = append(f.visual, visualSub{f.nextID, fn})
	return Handle{kindVisual, f.nextID}
}

func (f *Feed) OnProgress(fn func(ProgressEvent)) Handle {
	f.nextID++
	f.progress = append(f.progress, progressSub{f.nextID, fn})
	return Handle{kindProgress, f.nextID}
}

func (f *Feed) OnRefreshStarted(fn func()) Handle {
	f.nextID++
	f.refreshStarted = append(f.refreshStarted, signalSub{f.nextID, fn})
	return Handle{kindRefreshStarted, f.nextID}
}

func (f *Feed) OnRefreshFinished(fn func()) Handle {
	f.nextID++
	f.refreshFinished = append(f.refreshFinished, signalSub{f.nextID, fn})
	return Handle{kindRefreshFinished, f.nextID}
}

func (f *Feed) OnLogin(fn func(authed bool)) Handle {
	f.nextID++
	f.login = append(f.login, loginSub{f.nextID, fn})
	return Handle{kindLogin, f.nextID}
}

// Remove drops the subscription behind h. Removing twice is a no-op.
func (f *Feed) Remove(h Handle) {
	switch h.kind {
	case kindRebuild:
		for i, s := range f.rebuild {
			if s.id == h.id {
				f.rebuild = append(f.rebuild[:i], f.rebuild[i+1:]...)
				return
			}
		}
	case kindUpdate:
		for i, s := range f.update {
			if s.id == h.id {
				f.update = append(f.update[:i], f.update[i+1:]...)
				return
			}
		}
	case kindVisual:
		for i, s := range f.visual {
			if s.id == h.id {
				f.visual = append(f.visual[:i], f.visual[i+1:]...)
				return
			}
		}
	case kindProgress:
		for i, s := range f.progress {
			if s.id == h.id {
				f.progress = append(f.progress[:i], f.progress[i+1:]...)
				return
			}
		}
	case kindRefreshStarted:
		for i, s := range f.refreshStarted {
			if s.id == h.id {
				f.refreshStarted = append(f.refreshStarted[:i], f.refreshStarted[i+1:]...)
				return
			}
		}
	case kindRefreshFinished:
		for i, s := range f.refreshFinished {
			if s.id == h.id {
				f.refreshFinished = append(f.refreshFinished[:i], f.refreshFinished[i+1:]...)
				return
			}
		}
	case kindLogin:
		for i, s := range f.login {
			if s.id == h.id {
				f.login = append(f.login[:i], f.login[i+1:]...)
				return
			}
		}
	}
}

func (f *Feed) publishRebuild(p *Page) {
	for _, s := range f.rebuild {
		s.fn(p)
	}
}

func (f *Feed) publishUpdate(ev UpdateEvent) {
	for _, s := range f.update {
		s.fn(ev)
	}
}

func (f *Feed) publishVisual(states []VisualState) {
	for _, s := range f.visual {
		s.fn(states)
	}
}

func (f *Feed) publishProgress(ev ProgressEvent) {
	for _, s := range f.progress {
		s.fn(ev)
	}
}

func (f *Feed) publishRefreshStarted() {
	for _, s := range f.refreshStarted {
		s.fn()
	}
}

func (f *Feed) publishRefreshFinished() {
	for _, s := range f.refreshFinished {
		s.fn()
	}
}

func (f *Feed) publishLogin(authed bool) {
	for _, s := range f.login {
		s.fn(authed)
	}
}
