package view

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/jaskmods/internal/catalog"
)

// Mode is what the pane shows.
type Mode int

const (
	ModeEntries Mode = iota
	ModeLoginRequired
	ModeStatusMessage
)

func (m Mode) String() string {
	switch m {
	case ModeEntries:
		return "entries"
	case ModeLoginRequired:
		return "login-required"
	case ModeStatusMessage:
		return "status-message"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// statusSearchWidth caps how much of the search text the empty-results
// message echoes back.
const statusSearchWidth = 64

// PaneState exposes the store flags the controller derives the mode from.
type PaneState interface {
	ScopeRequiresAuth() bool
	Authenticated() bool
	InitialFetchDone() bool
	RefreshInProgress() bool
	SearchText() string
}

// SelectionSink is where the controller commits selection side effects.
type SelectionSink interface {
	Selection() (catalog.Selection, bool)
	Select(id, versionID string, manual bool)
	ClearSelection()
}

// Controller decides between the three pane modes and keeps the selection
// legal for the chosen mode. Evaluate is deterministic: same registry and
// flags, same outcome.
type Controller struct {
	reg   *Registry
	state PaneState
	sel   SelectionSink

	mode   Mode
	status string
}

func NewController(reg *Registry, state PaneState, sel SelectionSink) *Controller {
	return &Controller{reg: reg, state: state, sel: sel, mode: ModeStatusMessage}
}

func (c *Controller) Mode() Mode     { return c.mode }
func (c *Controller) Status() string { return c.status }

// Evaluate recomputes the mode and status text and applies the selection
// rules: non-entries modes never carry a selection, and the entries mode
// always has one, falling back to the first visible entry.
func (c *Controller) Evaluate() Mode {
	c.mode = c.derive()
	c.status = ""

	switch c.mode {
	case ModeEntries:
		c.ensureSelection()
	case ModeStatusMessage:
		c.status = c.statusText()
		c.sel.ClearSelection()
	default:
		c.sel.ClearSelection()
	}
	return c.mode
}

func (c *Controller) derive() Mode {
	if c.state.ScopeRequiresAuth() && !c.state.Authenticated() {
		return ModeLoginRequired
	}
	if !c.state.InitialFetchDone() || c.reg.VisibleCount() == 0 {
		return ModeStatusMessage
	}
	return ModeEntries
}

func (c *Controller) statusText() string {
	switch {
	case c.state.RefreshInProgress() && !c.state.InitialFetchDone():
		return "Fetching add-ons..."
	case c.state.RefreshInProgress():
		return "Refreshing..."
	case !c.state.InitialFetchDone():
		// first fetch not started yet, show nothing
		return ""
	case c.state.SearchText() != "":
		return fmt.Sprintf("No add-ons match %q.", truncateSearch(c.state.SearchText()))
	default:
		return "No add-ons."
	}
}

// truncateSearch keeps long search text from blowing up the status line.
func truncateSearch(s string) string {
	if ansi.StringWidth(s) <= statusSearchWidth {
		return s
	}
	return ansi.Truncate(s, statusSearchWidth, "") + "…"
}

func (c *Controller) ensureSelection() {
	if sel, ok := c.sel.Selection(); ok {
		if e := c.reg.Get(sel.ID); e != nil && e.Visible() {
			return
		}
	}
	for _, e := range c.reg.All() {
		if e.Visible() {
			c.sel.Select(e.Addon.ID, "", false)
			return
		}
	}
	c.sel.ClearSelection()
}
