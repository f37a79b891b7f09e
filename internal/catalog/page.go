package catalog

// VisualState describes one addon's presentation as dictated by the page:
// whether its row is visible and which version sub-row is selected.
type VisualState struct {
	ID                string
	SelectedVersionID string
	Visible           bool
}

// Page is the ordered source of truth for which identities exist and how they
// present. Slice order defines display order.
type Page struct {
	states []VisualState
	byID   map[string]int
}

func NewPage(states []VisualState) *Page {
	p := &Page{states: states, byID: make(map[string]int, len(states))}
	for i, st := range states {
		p.byID[st.ID] = i
	}
	return p
}

// States returns the visual states in display order.
func (p *Page) States() []VisualState { return p.states }

// VisualState looks up the state for one identity.
func (p *Page) VisualState(id string) (VisualState, bool) {
	i, ok := p.byID[id]
	if !ok {
		return VisualState{}, false
	}
	return p.states[i], true
}

// IDs returns the identities in display order.
func (p *Page) IDs() []string {
	out := make([]string, len(p.states))
	for i, st := range p.states {
		out[i] = st.ID
	}
	return out
}

func (p *Page) Len() int { return len(p.states) }

// setState replaces the stored state for an identity already on the page.
func (p *Page) setState(st VisualState) bool {
	i, ok := p.byID[st.ID]
	if !ok {
		return false
	}
	p.states[i] = st
	return true
}
