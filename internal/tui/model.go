// SPDX-License-Identifier: MIT
//
// Package tui is a terminal front end for the scope: a bubbletea program
// whose periodic tick drives the analyzer, with the editor's knobs and
// buttons as a strip of selectable widgets.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eqscope/internal/analysis"
	"eqscope/internal/audio"
	"eqscope/internal/filter"
	applog "eqscope/internal/log"
	"eqscope/internal/scope"
)

// Fallback terminal size until the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeRows    = 8 // title, axis, widget strip, help.
	minChartCols  = 20
	minChartRows  = 5
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Analyzer key.Binding
	Order    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Up, k.Down},
		{k.Toggle, k.Analyzer, k.Order},
		{k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Prev:     key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev")),
	Next:     key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next")),
	Up:       key.NewBinding(key.WithKeys("up", "k", "+"), key.WithHelp("↑/k", "increase")),
	Down:     key.NewBinding(key.WithKeys("down", "j", "-"), key.WithHelp("↓/j", "decrease")),
	Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
	Analyzer: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analyzer")),
	Order:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "fft size")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tickMsg is the UI timer; every tick advances the scope.
type tickMsg time.Time

// Model is the bubbletea model of the scope screen.
type Model struct {
	scope  *scope.Scope
	params *audio.ParameterStore

	widgets  []Widget
	selected int

	keys keyMap
	help help.Model

	interval time.Duration
	frame    scope.Frame
	width    int
	height   int
	err      error
}

// NewModel returns a model ticking s at its configured rate. params must
// already notify s of changes.
func NewModel(s *scope.Scope, params *audio.ParameterStore) Model {
	return Model{
		scope:    s,
		params:   params,
		widgets:  DefaultWidgets(),
		keys:     defaultKeys,
		help:     help.New(),
		interval: time.Duration(float64(time.Second) / s.Config().TickRate),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init starts the tick.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles input and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.scope.Tick()
		m.scope.Frame(&m.frame)
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Prev):
		m.selected = (m.selected - 1 + len(m.widgets)) % len(m.widgets)

	case key.Matches(msg, m.keys.Next):
		m.selected = (m.selected + 1) % len(m.widgets)

	case key.Matches(msg, m.keys.Up):
		m.activate(1)

	case key.Matches(msg, m.keys.Down):
		m.activate(-1)

	case key.Matches(msg, m.keys.Toggle):
		m.activate(0)

	case key.Matches(msg, m.keys.Analyzer):
		m.scope.SetAnalysisEnabled(!m.scope.AnalysisEnabled())

	case key.Matches(msg, m.keys.Order):
		m.err = m.cycleOrder()
	}
	return m, nil
}

// activate applies an input to the selected widget. Knobs turn by steps;
// buttons toggle on any input.
func (m *Model) activate(steps int) {
	w := m.widgets[m.selected]
	switch w.Kind {
	case Knob:
		if steps == 0 {
			return
		}
		m.params.Update(func(s *filter.ChainSettings) { Adjust(s, w.Param, steps) })
	case PowerButton:
		m.params.Update(func(s *filter.ChainSettings) {
			bypassed := BandBypassed(s, w.Band)
			*bypassed = !*bypassed
		})
	case AnalyzerButton:
		m.scope.SetAnalysisEnabled(!m.scope.AnalysisEnabled())
	}
}

func (m *Model) cycleOrder() error {
	order := m.scope.Config().Analyzer.Order + 1
	if order > analysis.Order8192 {
		order = analysis.Order2048
	}
	if err := m.scope.SetFFTOrder(order); err != nil {
		applog.Errorf("TUI: %v", err)
		return err
	}
	applog.Infof("TUI: FFT size %d", order.Size())
	return nil
}

func (m Model) chartSize() (cols, rows int) {
	return max(minChartCols, m.width), max(minChartRows, m.height-chromeRows)
}

// View renders the UI
func (m Model) View() string {
	cols, rows := m.chartSize()
	settings := m.params.ChainSettings()

	status := fmt.Sprintf("FFT %d • %.0f Hz • frame %d",
		m.scope.Config().Analyzer.Order.Size(), m.params.SampleRate(), m.frame.Sequence)
	if m.err != nil {
		status += " • " + m.err.Error()
	}
	header := titleStyle.Render("eqscope") + " " + infoStyle.Render(status)

	c := renderFrame(&m.frame, m.scope.ResponseCurve(cols), cols, rows)

	strip := make([]string, len(m.widgets))
	for i, w := range m.widgets {
		strip[i] = renderWidget(w, settings, m.scope.AnalysisEnabled(), i == m.selected)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(c.render())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(frequencyAxis(cols)))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strip...))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, s *scope.Scope, params *audio.ParameterStore) error {
	p := tea.NewProgram(NewModel(s, params), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
