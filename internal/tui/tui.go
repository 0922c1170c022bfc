// Package tui provides a Bubble Tea terminal front end for browsing plotted
// spectra and fitting their water peaks.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/plot/nav"
	"github.com/cwbudde/avoplot/plot/toolbar"
	"github.com/cwbudde/avoplot/plugin"
	"github.com/cwbudde/avoplot/plugins/ftir"
	"github.com/cwbudde/avoplot/render"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// State represents the current UI state.
type State int

const (
	StateBrowse State = iota
	StateRename
	StateOpen
)

// Config holds the collaborators of a Model.
type Config struct {
	Tree     *plot.Tree
	Registry *plugin.Registry
	Figures  *render.Figures
	Logger   *zap.Logger
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state   State
	input   textinput.Model
	tree    *plot.Tree
	nav     *nav.Panel
	toolbar *toolbar.Toolbar
	figures *render.Figures
	plugins *plugin.Registry
	logger  *zap.Logger

	cursor int
	status string
	err    error

	width  int
	height int
}

// NewModel creates a model over cfg.Tree. Figures may be nil, in which case
// saving is unavailable.
func NewModel(cfg Config) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = plugin.NewRegistry()
	}

	var handler toolbar.FigureHandler = noFigures{}
	if cfg.Figures != nil {
		handler = cfg.Figures
	}

	return Model{
		state:   StateBrowse,
		input:   ti,
		tree:    cfg.Tree,
		nav:     nav.New(cfg.Tree, nav.WithLogger(logger)),
		toolbar: toolbar.New(cfg.Tree, handler),
		figures: cfg.Figures,
		plugins: registry,
		logger:  logger,
	}
}

// errNoOutput is reported when saving without a render target.
var errNoOutput = errors.New("tui: no output directory configured")

type noFigures struct{}

func (noFigures) Home(plot.ID) error                  { return nil }
func (noFigures) Save(plot.ID) error                  { return errNoOutput }
func (noFigures) SetMode(plot.ID, toolbar.Mode) error { return nil }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Close detaches the views from the tree.
func (m Model) Close() {
	m.nav.Close()
	m.toolbar.Close()
}

// Items returns the rows currently listed.
func (m Model) Items() []nav.Item { return m.nav.Items() }

// Cursor returns the highlighted row.
func (m Model) Cursor() int { return m.cursor }

// State returns the current input state.
func (m Model) State() State { return m.state }

// Status returns the last status line and error.
func (m Model) Status() (string, error) { return m.status, m.err }

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state != StateBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.nav.Items()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(items) {
			m.report("", m.nav.Select(items[m.cursor].ID))
		}

	case "r":
		id, ok := m.nav.Selected()
		if !ok {
			m.report("", fmt.Errorf("nothing selected: %w", plot.ErrUnknownElement))
			break
		}
		el, _ := m.tree.Lookup(id)
		m.state = StateRename
		m.input.Placeholder = "new name"
		m.input.SetValue(el.Name())
		m.input.Focus()
		return m, textinput.Blink

	case "o":
		m.state = StateOpen
		m.input.Placeholder = "path/to/spectrum.csv"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		m.report("deleted", m.nav.DeleteSelected())
		m.clampCursor()

	case "f":
		m.fit()

	case "s":
		m.save()

	case "h":
		m.report("view reset", m.toolbar.Home())

	case "z":
		err := m.toolbar.ToggleZoom()
		m.report("mode: "+m.toolbar.Mode().String(), err)

	case "p":
		err := m.toolbar.TogglePan()
		m.report("mode: "+m.toolbar.Mode().String(), err)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		switch m.state {
		case StateRename:
			m.report("renamed", m.nav.RenameSelected(value))
		case StateOpen:
			m.open(value)
		}
		m.state = StateBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Open plots source with the FTIR plugin.
func (m *Model) open(source string) {
	if source == "" {
		return
	}
	fig, err := m.plugins.Plot(m.tree, ftir.Name, source)
	if err != nil {
		m.report("", err)
		return
	}
	m.report("opened "+fig.Name(), nil)
}

func (m *Model) fit() {
	id, ok := m.nav.Selected()
	if !ok {
		m.report("", fmt.Errorf("nothing selected: %w", plot.ErrUnknownElement))
		return
	}
	el, _ := m.tree.Lookup(id)
	series, ok := el.(*plot.XYSeries)
	if !ok {
		m.report("", fmt.Errorf("%v is a %v, not a series: %w", id, el.Kind(), plot.ErrIncompatibleSubplot))
		return
	}
	panel := ftir.PanelOf(series)
	if panel == nil {
		m.report("", fmt.Errorf("%s has no background fit: %w", series.Name(), plot.ErrIncompatibleSubplot))
		return
	}
	if _, err := panel.FitH2O(); err != nil {
		m.report("", err)
		return
	}
	m.report(strings.ReplaceAll(panel.SpecTypeText()+"  "+panel.PeakHeightText(), "\n", " "), nil)
}

func (m *Model) save() {
	if m.figures == nil {
		m.report("", errNoOutput)
		return
	}
	id, ok := m.nav.Selected()
	if !ok {
		m.report("", toolbar.ErrNoActiveFigure)
		return
	}
	fig, ok := m.tree.FigureOf(id)
	if !ok {
		m.report("", toolbar.ErrNoActiveFigure)
		return
	}
	path, err := m.figures.SaveAs(fig.ID(), "")
	m.report("saved "+path, err)
}

func (m *Model) report(status string, err error) {
	m.err = err
	if err != nil {
		m.status = ""
		m.logger.Warn("tui action failed", zap.Error(err))
		return
	}
	m.status = status
}

func (m *Model) clampCursor() {
	n := len(m.nav.Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("AvoPlot"))
	b.WriteString("\n")

	items := m.nav.Items()
	sel, _ := m.nav.Selected()
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No figures. Press o to open a spectrum."))
		b.WriteString("\n")
	}
	for i, it := range items {
		line := strings.Repeat("  ", it.Depth) + it.Name
		if it.ID == sel {
			line += " *"
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if panel := m.selectedPanel(); panel != nil {
		b.WriteString(boxStyle.Render(panel.Title() + "\n\n" + panel.SpecTypeText() + "\n\n" + panel.PeakHeightText()))
		b.WriteString("\n")
	}

	switch m.state {
	case StateRename:
		b.WriteString(subtitleStyle.Render("Rename:"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case StateOpen:
		b.WriteString(subtitleStyle.Render("Open spectrum:"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render("✓ " + m.status))
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) selectedPanel() *ftir.BackgroundFit {
	id, ok := m.nav.Selected()
	if !ok {
		return nil
	}
	el, ok := m.tree.Lookup(id)
	if !ok {
		return nil
	}
	host, ok := el.(plot.ControlPanelHost)
	if !ok {
		return nil
	}
	return ftir.PanelOf(host)
}

func (m Model) helpText() string {
	switch m.state {
	case StateRename, StateOpen:
		return "enter: confirm • esc: cancel"
	}
	if !m.toolbar.PlotToolsEnabled() {
		return "o: open • q: quit"
	}
	return "↑/↓: move • enter: select • o: open • r: rename • d: delete • f: fit H2O • s: save • h: home • z: zoom • p: pan • q: quit"
}

// Run starts the TUI application.
func Run(cfg Config) error {
	m := NewModel(cfg)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
