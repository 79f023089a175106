// Package tui is the terminal rendition of the dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/okian/firewatch/internal/adapters/mapview"
	"github.com/okian/firewatch/internal/domain/model"
	"github.com/okian/firewatch/internal/viz"
)

const (
	defaultRefresh = 250 * time.Millisecond
	chartHeight    = 8
	maxOverlayRows = 10
)

// Controller is the part of the visualization controller the terminal
// dashboard drives.
type Controller interface {
	Snapshot() viz.Snapshot
	SelectDate(day string) error
	Toggle() (viz.State, error)
	Load(ctx context.Context) error
}

type refreshMsg time.Time

type reloadMsg struct{ err error }

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	snap    viz.Snapshot
	refresh time.Duration
	width   int
	status  string
}

// NewModel creates a model polling ctrl every refresh interval.
func NewModel(ctx context.Context, ctrl Controller, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	return Model{ctx: ctx, ctrl: ctrl, snap: ctrl.Snapshot(), refresh: refresh}
}

// Run opens the terminal dashboard and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, ctrl Controller, refresh time.Duration) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, refresh), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.shift(-1)
		case "right", "l":
			m.shift(1)
		case " ":
			if _, err := m.ctrl.Toggle(); err != nil {
				m.status = err.Error()
			}
		case "r":
			m.status = "reloading..."
			ctx, ctrl := m.ctx, m.ctrl
			return m, func() tea.Msg { return reloadMsg{err: ctrl.Load(ctx)} }
		}
		m.snap = m.ctrl.Snapshot()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case refreshMsg:
		m.snap = m.ctrl.Snapshot()
		return m, m.tick()
	case reloadMsg:
		m.status = "reloaded"
		if msg.err != nil {
			m.status = "reload failed"
		}
		m.snap = m.ctrl.Snapshot()
	}
	return m, nil
}

// shift selects the day delta days away from the current one, staying
// inside the playback range.
func (m *Model) shift(delta int) {
	day := m.snap.Date
	if day == "" {
		day = m.snap.RangeStart
	}
	t, err := model.ParseDay(day)
	if err != nil {
		m.status = err.Error()
		return
	}
	next := model.FormatDay(t.AddDate(0, 0, delta))
	if next < m.snap.RangeStart || next > m.snap.RangeEnd {
		return
	}
	if err := m.ctrl.SelectDate(next); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.snap
	var b strings.Builder

	state := idleStyle.Render("■ idle")
	if s.Playing {
		state = playingStyle.Render("▶ playing")
	}
	b.WriteString(titleStyle.Render("Wildfire and Air Quality"))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("date ") + valueStyle.Render(orNA(s.Date)))
	b.WriteString("  " + state + "  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("[%s]", s.PlayLabel)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(panel("Fire Details", s.Fires.Lines())),
		panelStyle.Render(m.aqiPanel()),
	))
	b.WriteString("\n")
	b.WriteString(overlayTable(s.Overlays))
	b.WriteString(graphStyle.Render(aqiChart(s)))
	b.WriteString("\n")

	if s.LastError != "" {
		b.WriteString(errorStyle.Render("data error: "+s.LastError) + "\n")
	}
	if m.status != "" {
		b.WriteString(labelStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("←/→ day  space play/pause  r reload  q quit"))
	return b.String()
}

func (m Model) aqiPanel() string {
	lines := m.snap.AQI.Lines()
	if c, ok := bandColors[m.snap.AQI.Status]; ok && m.snap.AQI.Available {
		lines[1] = lipgloss.NewStyle().Foreground(c).Render(lines[1])
	}
	return panel("Air Quality", lines)
}

func panel(title string, lines []string) string {
	return headerStyle.Render(title) + "\n" + strings.Join(lines, "\n")
}

func overlayTable(circles []mapview.Circle) string {
	if len(circles) == 0 {
		return labelStyle.Render("no fires on this day") + "\n"
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s %12s %10s %20s", "fire", "acres", "radius", "center")) + "\n")
	for i, c := range circles {
		if i == maxOverlayRows {
			b.WriteString(labelStyle.Render(fmt.Sprintf("… %d more", len(circles)-i)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("%-18s %12s %9.0fm %9.4f,%9.4f\n",
			c.Name, humanize.Commaf(c.SizeAcres), c.RadiusM, c.Center.Lat, c.Center.Lng))
	}
	return b.String()
}

// aqiChart plots the AQI series with the selected day in the caption.
func aqiChart(s viz.Snapshot) string {
	if len(s.Series) == 0 {
		return labelStyle.Render("no AQI data")
	}
	values := make([]float64, 0, len(s.Series))
	marker := ""
	for i, p := range s.Series {
		values = append(values, float64(p.Value))
		if p.Date == s.Date {
			marker = fmt.Sprintf("  ▲ day %d: %s = %d", i+1, p.Date, p.Value)
		}
	}
	return asciigraph.Plot(values,
		asciigraph.Height(chartHeight),
		asciigraph.Width(len(values)*3),
		asciigraph.Caption("AQI "+s.Series[0].Date+" .. "+s.Series[len(s.Series)-1].Date+marker),
	)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
