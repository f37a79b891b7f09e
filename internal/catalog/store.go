package catalog

import (
	"sort"
	"strings"

	"github.com/jask/jaskmods/internal/database/repository"
)

// Selection is the externally visible selection: an addon identity plus an
// optional version sub-row. Manual marks selections the user made directly,
// as opposed to automatic fallback selection.
type Selection struct {
	ID        string
	VersionID string
	Manual    bool
}

// Store owns the page for the active scope and publishes every change on its
// Feed. All methods must run on the UI loop; the store does no locking.
type Store struct {
	feed    *Feed
	session *Session
	sources []Source
	scope   Source
	search  string

	items map[string]repository.Addon
	page  *Page

	sel    Selection
	hasSel bool

	initialFetchDone bool
	refreshing       bool
	lastErr          error

	// OnLoginRequest is invoked when something asks for the sign-in UI.
	OnLoginRequest func()
}

func NewStore(sources []Source, defaultScope string, session *Session) *Store {
	return &Store{
		feed:    NewFeed(),
		session: session,
		sources: sources,
		scope:   FindSource(sources, defaultScope),
		items:   map[string]repository.Addon{},
	}
}

func (s *Store) Feed() *Feed                      { return s.feed }
func (s *Store) Sources() []Source                { return s.sources }
func (s *Store) Scope() Source                    { return s.scope }
func (s *Store) ScopeRequiresAuth() bool          { return s.scope.RequiresAuth }
func (s *Store) Authenticated() bool              { return s.session.Authenticated() }
func (s *Store) SearchText() string               { return s.search }
func (s *Store) InitialFetchDone() bool           { return s.initialFetchDone }
func (s *Store) RefreshInProgress() bool          { return s.refreshing }
func (s *Store) Err() error                       { return s.lastErr }
func (s *Store) Page() *Page                      { return s.page }
func (s *Store) Filters() repository.AddonFilters { return scopeFilters(s.scope) }

// Resolve returns the latest known item for an identity on the page.
func (s *Store) Resolve(id string) (repository.Addon, bool) {
	a, ok := s.items[id]
	return a, ok
}

// ---- selection ----

func (s *Store) Selection() (Selection, bool) { return s.sel, s.hasSel }

func (s *Store) Select(id, versionID string, manual bool) {
	s.sel = Selection{ID: id, VersionID: versionID, Manual: manual}
	s.hasSel = true
}

func (s *Store) ClearSelection() {
	s.sel = Selection{}
	s.hasSel = false
}

// RequestLogin asks the host to present its sign-in flow.
func (s *Store) RequestLogin() {
	if s.OnLoginRequest != nil {
		s.OnLoginRequest()
	}
}

// ---- scope and refresh ----

// SetScope switches the active source. Reports whether the scope changed; the
// caller is expected to start a refresh when it did.
func (s *Store) SetScope(name string) bool {
	next := FindSource(s.sources, name)
	if next.Name == s.scope.Name {
		return false
	}
	s.scope = next
	s.initialFetchDone = false
	return true
}

// CycleScope advances to the next configured source and returns it.
func (s *Store) CycleScope() Source {
	for i, src := range s.sources {
		if src.Name == s.scope.Name {
			s.SetScope(s.sources[(i+1)%len(s.sources)].Name)
			return s.scope
		}
	}
	return s.scope
}

// BeginRefresh marks a fetch as in flight and notifies subscribers.
func (s *Store) BeginRefresh() {
	s.refreshing = true
	s.feed.publishRefreshStarted()
}

// FailRefresh records a failed fetch. The previous page stays as is.
func (s *Store) FailRefresh(err error) {
	s.refreshing = false
	s.lastErr = err
	s.feed.publishRefreshFinished()
}

// CompleteRefresh installs a freshly fetched addon list as the new page.
// The first fetch for a scope publishes a full rebuild; later fetches publish
// a diff against the previous page.
func (s *Store) CompleteRefresh(addons []repository.Addon) {
	if s.search != "" {
		addons = RankBySearch(addons, s.search)
	}

	prev := s.page
	prevItems := s.items
	states := make([]VisualState, 0, len(addons))
	items := make(map[string]repository.Addon, len(addons))
	for _, a := range addons {
		st := VisualState{ID: a.ID, SelectedVersionID: defaultVersionID(a), Visible: Matches(a, s.search)}
		if prev != nil {
			if old, ok := prev.VisualState(a.ID); ok && hasVersion(a, old.SelectedVersionID) {
				st.SelectedVersionID = old.SelectedVersionID
			}
		}
		states = append(states, st)
		items[a.ID] = a
	}

	page := NewPage(states)
	s.page = page
	s.items = items
	first := !s.initialFetchDone
	s.initialFetchDone = true
	s.refreshing = false
	s.lastErr = nil

	if first || prev == nil {
		s.feed.publishRebuild(page)
	} else if ev, any := diffPages(prev, prevItems, page, items); any {
		s.feed.publishUpdate(ev)
	}
	s.feed.publishRefreshFinished()
}

// ---- incremental changes ----

// SetSearch updates the search text and toggles row visibility in place.
// Only rows whose visibility changed are published.
func (s *Store) SetSearch(text string) {
	if text == s.search {
		return
	}
	s.search = text
	if s.page == nil {
		return
	}
	var changed []VisualState
	for _, st := range s.page.States() {
		vis := Matches(s.items[st.ID], text)
		if vis == st.Visible {
			continue
		}
		st.Visible = vis
		s.page.setState(st)
		changed = append(changed, st)
	}
	if len(changed) > 0 {
		s.feed.publishVisual(changed)
	}
}

// SelectVersion pins a version sub-row as the presented one for an addon.
func (s *Store) SelectVersion(id, versionID string) {
	if s.page == nil {
		return
	}
	st, ok := s.page.VisualState(id)
	if !ok || st.SelectedVersionID == versionID {
		return
	}
	st.SelectedVersionID = versionID
	s.page.setState(st)
	s.feed.publishVisual([]VisualState{st})
}

// SetProgress reports install progress for one addon.
func (s *Store) SetProgress(id string, percent int) {
	s.feed.publishProgress(ProgressEvent{ID: id, Percent: percent})
}

// CompleteInstall replaces the stored item after an install finished and
// publishes it as updated.
func (s *Store) CompleteInstall(a repository.Addon) {
	if s.page == nil {
		return
	}
	if _, ok := s.page.VisualState(a.ID); !ok {
		return
	}
	s.items[a.ID] = a
	s.feed.publishUpdate(UpdateEvent{Page: s.page, AddedOrUpdated: []string{a.ID}})
}

// Remove drops one addon from the page, for example after an uninstall in a
// scope that only shows installed addons.
func (s *Store) Remove(id string) {
	if s.page == nil {
		return
	}
	if _, ok := s.page.VisualState(id); !ok {
		return
	}
	states := make([]VisualState, 0, s.page.Len()-1)
	for _, st := range s.page.States() {
		if st.ID != id {
			states = append(states, st)
		}
	}
	s.page = NewPage(states)
	delete(s.items, id)
	s.feed.publishUpdate(UpdateEvent{Page: s.page, Removed: []string{id}})
}

// ---- session ----

func (s *Store) SignIn(token string) error {
	if err := s.session.SignIn(token); err != nil {
		return err
	}
	s.feed.publishLogin(true)
	return nil
}

func (s *Store) SignOut() error {
	if err := s.session.SignOut(); err != nil {
		return err
	}
	s.feed.publishLogin(false)
	return nil
}

// ---- helpers ----

// defaultVersionID picks the first stable version, falling back to the first
// version of any channel.
func defaultVersionID(a repository.Addon) string {
	for _, v := range a.Versions {
		if v.Channel == "stable" {
			return v.ID
		}
	}
	if len(a.Versions) > 0 {
		return a.Versions[0].ID
	}
	return ""
}

func hasVersion(a repository.Addon, versionID string) bool {
	for _, v := range a.Versions {
		if v.ID == versionID {
			return true
		}
	}
	return false
}

// sameAddon ignores UpdatedAt so touch-only writes do not count as changes.
func sameAddon(a, b repository.Addon) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Summary != b.Summary ||
		a.Author != b.Author || a.Category != b.Category ||
		a.Installs != b.Installs || a.Installed != b.Installed || a.Featured != b.Featured {
		return false
	}
	if len(a.Versions) != len(b.Versions) {
		return false
	}
	for i := range a.Versions {
		if a.Versions[i] != b.Versions[i] {
			return false
		}
	}
	return true
}

func diffPages(prev *Page, prevItems map[string]repository.Addon, next *Page, items map[string]repository.Addon) (UpdateEvent, bool) {
	ev := UpdateEvent{Page: next}
	for _, id := range next.IDs() {
		old, ok := prevItems[id]
		if !ok || !sameAddon(old, items[id]) {
			ev.AddedOrUpdated = append(ev.AddedOrUpdated, id)
		}
	}
	for id := range prevItems {
		if _, ok := items[id]; !ok {
			ev.Removed = append(ev.Removed, id)
		}
	}
	sort.Strings(ev.Removed)
	ev.Reorder = orderChanged(prev, next)
	return ev, len(ev.AddedOrUpdated) > 0 || len(ev.Removed) > 0 || ev.Reorder
}

// orderChanged compares the relative order of identities present on both pages.
func orderChanged(prev, next *Page) bool {
	var before, after []string
	for _, id := range prev.IDs() {
		if _, ok := next.VisualState(id); ok {
			before = append(before, id)
		}
	}
	for _, id := range next.IDs() {
		if _, ok := prev.VisualState(id); ok {
			after = append(after, id)
		}
	}
	return strings.Join(before, "\x00") != strings.Join(after, "\x00")
}
