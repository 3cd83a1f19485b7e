// Package tui provides the interactive Bubble Tea stack builder.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/report"
	"github.com/theirongolddev/stackcost/internal/session"
	"github.com/theirongolddev/stackcost/internal/snapshot"
	"github.com/theirongolddev/stackcost/internal/tui/components"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Options configures the builder's save and export actions.
type Options struct {
	Generator *report.Generator // nil exports without a chart
	Style     report.HTMLStyle
	Format    report.Format
	OutDir    string // report exports
	SaveDir   string // snapshot files
	LogoPath  string

	// ReloadCatalog re-reads the catalog source; nil disables reloading.
	ReloadCatalog func(context.Context) (*catalog.Catalog, error)
}

// CatalogLoadedMsg carries the result of a background catalog reload.
type CatalogLoadedMsg struct {
	Catalog *catalog.Catalog
	Err     error
}

// ExportDoneMsg is sent when a background report export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

const (
	paneCategories = iota
	paneApps
	paneStack
)

// otherCategory lists apps whose category is not defined in the catalog.
const otherCategory = "Other"

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	exportTimeout    = 30 * time.Second
	reloadTimeout    = 15 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	sess *session.Session
	opts Options

	// UI state
	width    int
	height   int
	focus    int
	showHelp bool
	help     help.Model

	// Per-pane cursors
	catCursor   int
	appCursor   int
	stackCursor int
	templateIdx int

	// Status bar message
	status string
	warn   bool

	// Report details (huh form) shown before an export
	detailsForm *huh.Form
	detailsVals *DetailsValues

	exporting bool
	reloading bool
	spinner   spinner.Model
}

// NewApp creates the builder around an opened session.
func NewApp(sess *session.Session, opts Options) App {
	if opts.Generator == nil {
		opts.Generator = report.NewGenerator(nil, nil)
	}
	if opts.Format == "" {
		opts.Format = report.FormatHTML
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		sess:        sess,
		opts:        opts,
		help:        help.New(),
		templateIdx: -1,
		spinner:     sp,
		status:      "Pick a category, then add apps with enter",
	}
	if sess.Rates().Degraded {
		a.setWarning("Exchange rates unavailable; amounts use 1:1 parity")
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.detailsForm != nil {
			a.detailsForm = a.detailsForm.WithWidth(formWidth(msg.Width)).WithHeight(msg.Height)
		}
		return a, nil

	case ExportDoneMsg:
		a.exporting = false
		if msg.Err != nil {
			a.setWarning("Export failed: " + msg.Err.Error())
		} else {
			a.setStatus("Report written to " + msg.Path)
		}
		return a, nil

	case CatalogLoadedMsg:
		a.reloading = false
		if msg.Err != nil {
			a.setWarning("Reload failed: " + msg.Err.Error())
			return a, nil
		}
		a.applyCatalog(msg.Catalog)
		return a, nil

	case spinner.TickMsg:
		if !a.exporting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.showHelp || a.detailsForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if a.detailsForm != nil {
			return a.updateDetailsForm(msg)
		}

		// Any key dismisses help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.updateKeys(msg)
	}

	if a.detailsForm != nil {
		return a.updateDetailsForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = true
	case key.Matches(msg, keys.NextPane):
		a.focus = (a.focus + 1) % len(components.Panes)
	case key.Matches(msg, keys.PrevPane):
		a.focus = (a.focus + len(components.Panes) - 1) % len(components.Panes)
	case key.Matches(msg, keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, keys.Add):
		a.addCurrent()
	case key.Matches(msg, keys.Remove):
		a.removeCurrent()
	case key.Matches(msg, keys.Cycle):
		a.sess.SetCycle(a.sess.Cycle().Toggle())
		a.setStatus("Showing " + a.sess.Cycle().String() + " costs")
	case key.Matches(msg, keys.Currency):
		a.setStatus("Currency: " + a.sess.NextCurrency())
	case key.Matches(msg, keys.Template):
		a.nextTemplate()
	case key.Matches(msg, keys.Save):
		a.saveSnapshot()
	case key.Matches(msg, keys.Link):
		a.shareLink()
	case key.Matches(msg, keys.Export):
		return a.startExport()
	case key.Matches(msg, keys.Reload):
		return a.startReload()
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			if p := components.PaneAtX(msg.X); p >= 0 {
				a.focus = p
			}
			return a, nil
		}
		if p := a.paneAtColumn(msg.X); p >= 0 {
			a.focus = p
		}
	}
	return a, nil
}

func (a App) updateDetailsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.detailsForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.detailsForm = f
	}

	switch a.detailsForm.State {
	case huh.StateCompleted:
		a.sess.SetDetails(a.detailsVals.Details())
		a.detailsForm = nil
		a.detailsVals = nil
		a.exporting = true
		a.setStatus("Exporting report...")
		return a, tea.Batch(a.spinner.Tick, exportCmd(a.sess, a.opts))
	case huh.StateAborted:
		a.detailsForm = nil
		a.detailsVals = nil
		a.setStatus("Export cancelled")
		return a, nil
	}
	return a, cmd
}

// ─── Actions ────────────────────────────────────────────────────

func (a *App) setStatus(s string) {
	a.status = s
	a.warn = false
}

func (a *App) setWarning(s string) {
	a.status = s
	a.warn = true
}

func (a *App) moveCursor(delta int) {
	switch a.focus {
	case paneCategories:
		next := clamp(a.catCursor+delta, len(a.categoryNames()))
		if next != a.catCursor {
			a.catCursor = next
			a.appCursor = 0
		}
	case paneApps:
		a.appCursor = clamp(a.appCursor+delta, len(a.currentApps()))
	case paneStack:
		a.stackCursor = clamp(a.stackCursor+delta, a.sess.Selection().Len())
	}
}

func (a *App) addCurrent() {
	switch a.focus {
	case paneCategories:
		if len(a.currentApps()) > 0 {
			a.focus = paneApps
		}
	case paneApps:
		app, ok := a.cursorApp()
		if !ok {
			return
		}
		if a.sess.Selection().Contains(app.ID) {
			a.setStatus(app.Name + " is already in the stack")
			return
		}
		if err := a.sess.Add(app.ID); err != nil {
			a.setWarning(err.Error())
			return
		}
		a.setStatus("Added " + app.Name)
	}
}

func (a *App) removeCurrent() {
	switch a.focus {
	case paneApps:
		app, ok := a.cursorApp()
		if !ok || !a.sess.Selection().Contains(app.ID) {
			return
		}
		a.sess.Remove(app.ID)
		a.setStatus("Removed " + app.Name)
	case paneStack:
		apps := a.sess.Apps()
		if a.stackCursor >= len(apps) {
			return
		}
		app := apps[a.stackCursor]
		a.sess.Remove(app.ID)
		a.stackCursor = clamp(a.stackCursor, len(apps)-1)
		a.setStatus("Removed " + app.Name)
	}
	a.stackCursor = clamp(a.stackCursor, a.sess.Selection().Len())
}

func (a *App) nextTemplate() {
	templates := a.sess.Catalog().Templates()
	if len(templates) == 0 {
		a.setWarning("This catalog has no templates")
		return
	}
	a.templateIdx = (a.templateIdx + 1) % len(templates)
	t := templates[a.templateIdx]
	if err := a.sess.ApplyTemplate(t.Name); err != nil {
		a.setWarning(err.Error())
		return
	}
	a.stackCursor = 0
	a.setStatus(fmt.Sprintf("Template %q (%d apps)", t.Name, a.sess.Selection().Len()))
}

func (a *App) saveSnapshot() {
	snap := a.sess.Snapshot()
	data, err := snapshot.Serialize(snap)
	if err != nil {
		a.setWarning("Save failed: " + err.Error())
		return
	}
	dir := a.opts.SaveDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		a.setWarning("Save failed: " + err.Error())
		return
	}
	path := filepath.Join(dir, snapshot.Filename(snap.ClientName, "json"))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		a.setWarning("Save failed: " + err.Error())
		return
	}
	a.setStatus("Saved " + path)
}

func (a *App) shareLink() {
	link, err := a.sess.ShareLink()
	if err != nil {
		a.setWarning("Add apps before sharing")
		return
	}
	a.setStatus("Share link: " + link)
}

func (a App) startExport() (tea.Model, tea.Cmd) {
	if a.exporting {
		return a, nil
	}
	if a.sess.Selection().Len() == 0 {
		a.setWarning("Add apps before exporting")
		return a, nil
	}
	a.detailsVals = DetailsFrom(a.sess.Details())
	a.detailsForm = NewDetailsForm(a.detailsVals)
	if a.width > 0 {
		a.detailsForm = a.detailsForm.WithWidth(formWidth(a.width)).WithHeight(a.height)
	}
	return a, a.detailsForm.Init()
}

func (a App) startReload() (tea.Model, tea.Cmd) {
	if a.opts.ReloadCatalog == nil {
		a.setWarning("Catalog reload is not available")
		return a, nil
	}
	if a.reloading {
		return a, nil
	}
	a.reloading = true
	a.setStatus("Reloading catalog...")
	load := a.opts.ReloadCatalog
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		cat, err := load(ctx)
		return CatalogLoadedMsg{Catalog: cat, Err: err}
	}
}

// applyCatalog swaps in a reloaded catalog. Selected apps the new catalog
// no longer has are dropped from the stack.
func (a *App) applyCatalog(cat *catalog.Catalog) {
	before := a.sess.Selection().Len()
	a.sess.ReplaceCatalog(cat)
	a.templateIdx = -1
	a.catCursor = clamp(a.catCursor, len(a.categoryNames()))
	a.appCursor = clamp(a.appCursor, len(a.currentApps()))
	a.stackCursor = clamp(a.stackCursor, a.sess.Selection().Len())

	msg := fmt.Sprintf("Catalog reloaded (%d apps)", len(cat.Apps()))
	if dropped := before - a.sess.Selection().Len(); dropped > 0 {
		a.setWarning(fmt.Sprintf("%s; %d selected apps no longer exist", msg, dropped))
		return
	}
	a.setStatus(msg)
}

// exportCmd captures the session state now and renders the report in the background.
func exportCmd(sess *session.Session, opts Options) tea.Cmd {
	apps := sess.Apps()
	rc := sess.ReportContext()
	rc.LogoPath = opts.LogoPath
	cat := sess.Catalog()
	rt := sess.Rates()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		doc := opts.Generator.Generate(ctx, apps, rc, cat, rt)
		path, err := report.Export(opts.OutDir, doc, opts.Format, opts.Style)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// ─── Lists ──────────────────────────────────────────────────────

// categoryNames lists catalog categories, plus otherCategory when some app's
// category is undefined.
func (a App) categoryNames() []string {
	cat := a.sess.Catalog()
	cats := cat.Categories()
	names := make([]string, 0, len(cats)+1)
	for _, c := range cats {
		names = append(names, c.Name)
	}
	for _, app := range cat.Apps() {
		if _, ok := cat.Category(app.Category); !ok {
			names = append(names, otherCategory)
			break
		}
	}
	return names
}

func (a App) appsIn(name string) []catalog.App {
	cat := a.sess.Catalog()
	if _, ok := cat.Category(name); ok {
		return cat.AppsInCategory(name)
	}
	var out []catalog.App
	for _, app := range cat.Apps() {
		if _, ok := cat.Category(app.Category); !ok {
			out = append(out, app)
		}
	}
	return out
}

func (a App) currentApps() []catalog.App {
	names := a.categoryNames()
	if a.catCursor >= len(names) {
		return nil
	}
	return a.appsIn(names[a.catCursor])
}

func (a App) cursorApp() (catalog.App, bool) {
	apps := a.currentApps()
	if a.appCursor >= len(apps) {
		return catalog.App{}, false
	}
	return apps[a.appCursor], true
}

// clamp keeps i within [0, n).
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ─── Mouse Support ──────────────────────────────────────────────

// paneAtColumn returns the pane under column x, using the same widths as viewMain.
func (a App) paneAtColumn(x int) int {
	pos := 0
	for i, w := range components.LayoutRow(a.contentWidth(), len(components.Panes)) {
		if x >= pos && x < pos+w {
			return i
		}
		pos += w
	}
	return -1
}

func formWidth(w int) int {
	if w > 72 {
		return 72
	}
	return w
}
