package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/jaskmods/internal/catalog"
	"github.com/jask/jaskmods/internal/config"
	"github.com/jask/jaskmods/internal/database/repository"
	"github.com/jask/jaskmods/internal/view"
)

type inputMode string

const (
	inputNone   inputMode = ""
	inputSearch inputMode = "search"
	inputToken  inputMode = "token"
)

const installTickStep = 20

// App ties the catalog store and its view to the terminal.
type App struct {
	ctx   context.Context
	cfg   config.Config
	repos Repos
	store *catalog.Store
	view  *view.View
	vp    *viewport
	keys  keyMap

	width  int
	height int

	input  textinput.Model
	mode   inputMode
	status string

	pending     []func()
	flushQueued bool
}

type Repos struct {
	Addons *repository.AddonRepo
}

func New(ctx context.Context, cfg config.Config, repos Repos, store *catalog.Store) *App {
	input := textinput.New()
	input.CharLimit = 128

	a := &App{
		ctx:   ctx,
		cfg:   cfg,
		repos: repos,
		store: store,
		keys:  newKeyMap(),
		input: input,
	}
	a.vp = &viewport{}
	a.view = view.New(store, a.vp, a.deferTask, func() {})
	a.vp.reg = a.view.Registry
	store.OnLoginRequest = func() { a.openTokenPrompt() }
	return a
}

// deferTask queues fn for a later turn of the event loop.
func (a *App) deferTask(fn func()) { a.pending = append(a.pending, fn) }

func (a *App) Init() tea.Cmd {
	a.view.Activate()
	a.store.BeginRefresh()
	return a.fetchCmd()
}

func (a *App) fetchCmd() tea.Cmd {
	filters := a.store.Filters()
	return func() tea.Msg {
		list, err := a.repos.Addons.List(a.ctx, filters)
		return refreshMsg{addons: list, err: err}
	}
}

// ---- messages ----

type refreshMsg struct {
	addons []repository.Addon
	err    error
}

type deferredMsg struct{}

type installTickMsg struct {
	id      string
	percent int
}

type installDoneMsg struct {
	addon *repository.Addon
	err   error
}

type uninstallDoneMsg struct {
	addon *repository.Addon
	err   error
}

type statusMsg string

type errMsg struct{ error }

// ---- update ----

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.handle(msg)
	if len(a.pending) > 0 && !a.flushQueued {
		a.flushQueued = true
		cmd = tea.Batch(cmd, func() tea.Msg { return deferredMsg{} })
	}
	return a, cmd
}

func (a *App) handle(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.vp.rows = a.listHeight()
		a.view.Navigator.SetPageSize(a.listHeight(), a.cfg.UI.EntryHeight)

	case tea.FocusMsg:
		a.view.Navigator.OnFocusGained()

	case tea.KeyMsg:
		if a.mode != inputNone {
			return a.handleInputKey(m)
		}
		return a.handleKey(m)

	case deferredMsg:
		a.flushQueued = false
		tasks := a.pending
		a.pending = nil
		for _, fn := range tasks {
			fn()
		}

	case refreshMsg:
		if m.err != nil {
			a.store.FailRefresh(m.err)
			a.status = "error: " + m.err.Error()
			return nil
		}
		a.store.CompleteRefresh(m.addons)
		a.status = ""

	case installTickMsg:
		a.store.SetProgress(m.id, m.percent)
		if m.percent >= 100 {
			return a.finishInstallCmd(m.id)
		}
		return installTickCmd(m.id, m.percent+installTickStep)

	case installDoneMsg:
		if m.err != nil {
			a.status = "error: " + m.err.Error()
			return nil
		}
		a.store.SetProgress(m.addon.ID, -1)
		a.store.CompleteInstall(*m.addon)
		a.status = fmt.Sprintf("installed %s", m.addon.Name)

	case uninstallDoneMsg:
		if m.err != nil {
			a.status = "error: " + m.err.Error()
			return nil
		}
		if a.store.Scope().Filter == "installed" {
			a.store.Remove(m.addon.ID)
		} else {
			a.store.CompleteInstall(*m.addon)
		}
		a.status = fmt.Sprintf("removed %s", m.addon.Name)

	case statusMsg:
		a.status = string(m)

	case errMsg:
		a.status = "error: " + m.Error()
	}
	return nil
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit

	case key.Matches(m, a.keys.Up):
		a.view.Navigator.SelectBy(-1)

	case key.Matches(m, a.keys.Down):
		a.view.Navigator.SelectBy(1)

	case key.Matches(m, a.keys.PageUp):
		a.view.Navigator.SelectBy(-a.view.Navigator.PageSize())

	case key.Matches(m, a.keys.PageDown):
		a.view.Navigator.SelectBy(a.view.Navigator.PageSize())

	case key.Matches(m, a.keys.Expand):
		if e := a.selectedEntry(); e != nil && len(e.Addon.Versions) > 0 {
			e.Expanded = true
		}

	case key.Matches(m, a.keys.Collapse):
		if e := a.selectedEntry(); e != nil && e.Expanded {
			if sel, ok := a.store.Selection(); ok && sel.VersionID != "" {
				a.store.Select(sel.ID, "", true)
			}
			e.Expanded = false
			a.view.Navigator.ScrollToSelection()
		}

	case key.Matches(m, a.keys.Pick):
		if sel, ok := a.store.Selection(); ok && sel.VersionID != "" {
			a.store.SelectVersion(sel.ID, sel.VersionID)
			a.status = "version pinned"
		}

	case key.Matches(m, a.keys.Search):
		a.mode = inputSearch
		a.input.Prompt = "/ "
		a.input.Placeholder = "search add-ons"
		a.input.SetValue(a.store.SearchText())
		a.input.Focus()

	case key.Matches(m, a.keys.Refresh):
		a.store.BeginRefresh()
		return a.fetchCmd()

	case key.Matches(m, a.keys.Scope):
		a.store.CycleScope()
		a.view.Controller.Evaluate()
		if a.store.ScopeRequiresAuth() && !a.store.Authenticated() {
			a.store.RequestLogin()
			return nil
		}
		a.store.BeginRefresh()
		return a.fetchCmd()

	case key.Matches(m, a.keys.Install):
		return a.toggleInstallCmd()

	case key.Matches(m, a.keys.SignIn):
		if a.view.Controller.Mode() == view.ModeLoginRequired {
			a.store.RequestLogin()
		}

	case key.Matches(m, a.keys.SignOut):
		if err := a.store.SignOut(); err != nil {
			a.status = "error: " + err.Error()
		} else {
			a.status = "signed out"
		}
	}
	return nil
}

func (a *App) handleInputKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Close):
		mode := a.mode
		a.closeInput()
		if mode == inputSearch {
			a.store.SetSearch("")
		}
		return nil

	case m.Type == tea.KeyEnter:
		value := a.input.Value()
		mode := a.mode
		a.closeInput()
		switch mode {
		case inputToken:
			if strings.TrimSpace(value) == "" {
				a.status = "sign in cancelled"
				return nil
			}
			if err := a.store.SignIn(value); err != nil {
				a.status = "error: " + err.Error()
				return nil
			}
			a.status = "signed in"
			a.store.BeginRefresh()
			return a.fetchCmd()
		case inputSearch:
			// re-fetch so matching addons rank to the top
			a.store.BeginRefresh()
			return a.fetchCmd()
		}
		return nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	if a.mode == inputSearch {
		a.store.SetSearch(a.input.Value())
	}
	return cmd
}

func (a *App) openTokenPrompt() {
	a.mode = inputToken
	a.input.Prompt = "token: "
	a.input.Placeholder = "paste library token"
	a.input.SetValue("")
	a.input.Focus()
}

func (a *App) closeInput() {
	a.mode = inputNone
	a.input.Blur()
}

func (a *App) selectedEntry() *view.ViewEntry {
	sel, ok := a.store.Selection()
	if !ok {
		return nil
	}
	return a.view.Registry.Get(sel.ID)
}

// ---- commands ----

func (a *App) toggleInstallCmd() tea.Cmd {
	e := a.selectedEntry()
	if e == nil {
		return nil
	}
	if e.Progress >= 0 {
		return nil // install already running
	}
	if e.Addon.Installed {
		return a.uninstallCmd(e.Addon.ID)
	}
	a.status = fmt.Sprintf("installing %s...", e.Addon.Name)
	a.store.SetProgress(e.Addon.ID, 0)
	return installTickCmd(e.Addon.ID, installTickStep)
}

func installTickCmd(id string, percent int) tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return installTickMsg{id: id, percent: percent}
	})
}

func (a *App) finishInstallCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.repos.Addons.SetInstalled(a.ctx, id, true); err != nil {
			return installDoneMsg{err: err}
		}
		addon, err := a.repos.Addons.Get(a.ctx, id)
		if err == nil && addon == nil {
			err = fmt.Errorf("addon %s disappeared", id)
		}
		return installDoneMsg{addon: addon, err: err}
	}
}

func (a *App) uninstallCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.repos.Addons.SetInstalled(a.ctx, id, false); err != nil {
			return uninstallDoneMsg{err: err}
		}
		addon, err := a.repos.Addons.Get(a.ctx, id)
		if err == nil && addon == nil {
			err = fmt.Errorf("addon %s disappeared", id)
		}
		return uninstallDoneMsg{addon: addon, err: err}
	}
}

// ---- view ----

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	switch a.view.Controller.Mode() {
	case view.ModeLoginRequired:
		b.WriteString(a.renderLogin())
	case view.ModeStatusMessage:
		b.WriteString(a.renderStatusMessage())
	default:
		b.WriteString(a.renderEntries())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) listHeight() int {
	h := a.height - 3 // header, status line, footer
	if h < 0 {
		h = 0
	}
	return h
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("jaskmods")
	scope := metaStyle.Render(a.store.Scope().Title)
	parts := []string{title, scope}
	if a.mode == inputSearch {
		parts = append(parts, a.input.View())
	} else if a.store.SearchText() != "" {
		parts = append(parts, dimStyle.Render("/"+ansi.Truncate(a.store.SearchText(), 32, "…")))
	}
	return strings.Join(parts, "  ")
}

func (a *App) renderLogin() string {
	lines := []string{
		"My Library needs a signed-in account.",
		"",
		renderHelp([]key.Binding{a.keys.SignIn, a.keys.Scope, a.keys.Quit}),
	}
	if a.mode == inputToken {
		lines = append([]string{a.input.View(), ""}, lines...)
	}
	return promptStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderStatusMessage() string {
	return "\n  " + statusStyle.Render(a.view.Controller.Status())
}

func (a *App) renderEntries() string {
	rows := a.visibleRows()
	top, height := a.vp.top, a.vp.rows
	if height <= 0 {
		height = len(rows)
	}
	if top > len(rows) {
		top = 0
	}
	end := top + height
	if end > len(rows) {
		end = len(rows)
	}

	sel, hasSel := a.store.Selection()
	var lines []string
	for _, s := range rows[top:end] {
		selected := hasSel && s.Entry.Addon.ID == sel.ID && s.VersionID == sel.VersionID
		if s.VersionID == "" {
			lines = append(lines, a.renderEntryRow(s.Entry, selected))
		} else {
			lines = append(lines, a.renderVersionRow(s.Entry, s.VersionID, selected))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func (a *App) visibleRows() []view.Selectable {
	var out []view.Selectable
	for _, e := range a.view.Registry.All() {
		if !e.Visible() {
			continue
		}
		out = append(out, e.Selectables()...)
	}
	return out
}

func (a *App) renderEntryRow(e *view.ViewEntry, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	var badges []string
	switch {
	case e.Progress >= 0:
		badges = append(badges, progressStyle.Render(fmt.Sprintf("↓%3d%%", e.Progress)))
	case e.Addon.Installed:
		badges = append(badges, installedStyle.Render("✓"))
	}
	if e.Addon.Featured {
		badges = append(badges, featuredStyle.Render("★"))
	}

	line := fmt.Sprintf("%s%-28s %s %s %s",
		marker,
		ansi.Truncate(e.Addon.Name, 28, "…"),
		authorStyle.Render(fmt.Sprintf("%-12s", ansi.Truncate(e.Addon.Author, 12, ""))),
		metaStyle.Render(fmt.Sprintf("%7d", e.Addon.Installs)),
		strings.Join(badges, " "),
	)
	line += "  " + dimStyle.Render(ansi.Truncate(e.Addon.Summary, 40, "…"))
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (a *App) renderVersionRow(e *view.ViewEntry, versionID string, selected bool) string {
	var v *repository.Version
	for i := range e.Addon.Versions {
		if e.Addon.Versions[i].ID == versionID {
			v = &e.Addon.Versions[i]
			break
		}
	}
	if v == nil {
		return ""
	}
	marker := "    "
	if selected {
		marker = "  > "
	}
	pin := " "
	if e.State.SelectedVersionID == v.ID {
		pin = "*"
	}
	line := fmt.Sprintf("%s└ %s %-14s %s", marker, pin, v.Label, channelStyle.Render(v.Channel))
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (a *App) renderStatusLine() string {
	switch {
	case a.store.RefreshInProgress():
		return statusStyle.Render("refreshing...")
	case a.status != "":
		if strings.HasPrefix(a.status, "error:") {
			return errorStyle.Render(a.status)
		}
		return statusStyle.Render(a.status)
	default:
		return ""
	}
}

func (a *App) renderFooter() string {
	text := renderHelp(a.keys.ShortHelp())
	if a.width > 0 {
		return footerStyle.Width(a.width).Render(ansi.Truncate(text, a.width, ""))
	}
	return footerStyle.Render(text)
}

// ---- viewport ----

// viewport windows the flattened visible rows. top is the index of the first
// rendered row; rows stays 0 until the terminal reports its size.
type viewport struct {
	reg  *view.Registry
	top  int
	rows int
}

func (vp *viewport) EnsureVisible(target view.Selectable) bool {
	if vp.rows <= 0 {
		return false
	}
	idx, total := -1, 0
	for _, e := range vp.reg.All() {
		if !e.Visible() {
			continue
		}
		for _, s := range e.Selectables() {
			if s.Entry == target.Entry && s.VersionID == target.VersionID {
				idx = total
			}
			total++
		}
	}
	if idx < 0 {
		return true
	}
	if idx < vp.top {
		vp.top = idx
	}
	if idx >= vp.top+vp.rows {
		vp.top = idx - vp.rows + 1
	}
	if max := total - vp.rows; vp.top > max {
		vp.top = max
	}
	if vp.top < 0 {
		vp.top = 0
	}
	return true
}
