package viz

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
)

// Labels of the play/pause button.
const (
	PlayLabel  = "Play Animation"
	PauseLabel = "Pause Animation"
)

const notAvailable = "n/a"

// FireSummary is the content of the fire panel.
type FireSummary struct {
	Count      int     `json:"count"`
	TotalAcres float64 `json:"total_acres"`
	Date       string  `json:"date"`
}

// Lines renders the panel text.
func (s FireSummary) Lines() []string {
	return []string{
		fmt.Sprintf("Active Fires: %d", s.Count),
		fmt.Sprintf("Total Area: %s acres", humanize.Commaf(s.TotalAcres)),
		fmt.Sprintf("Date: %s", s.Date),
	}
}

// AQISummary is the content of the AQI panel. Available is false when no
// reading exists for Date.
type AQISummary struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Value     int    `json:"value"`
	Status    string `json:"status"`
}

// Lines renders the panel text.
func (s AQISummary) Lines() []string {
	if !s.Available {
		return []string{"AQI Level: " + notAvailable, "Status: " + notAvailable}
	}
	return []string{
		fmt.Sprintf("AQI Level: %d", s.Value),
		fmt.Sprintf("Status: %s", s.Status),
	}
}

// Panels receives every update of the dashboard widgets.
type Panels interface {
	ShowFires(FireSummary)
	ShowAQI(AQISummary)
	ShowDate(day string)
	ShowPlayLabel(label string)
	ShowError(msg string)
}

// Board is a Panels implementation holding the latest text of each widget.
type Board struct {
	mu        sync.RWMutex
	fires     FireSummary
	aqi       AQISummary
	date      string
	playLabel string
	lastError string
}

// NewBoard creates a board in its initial state.
func NewBoard() *Board {
	return &Board{playLabel: PlayLabel}
}

// ShowFires implements Panels.
func (b *Board) ShowFires(s FireSummary) {
	b.mu.Lock()
	b.fires = s
	b.mu.Unlock()
}

// ShowAQI implements Panels.
func (b *Board) ShowAQI(s AQISummary) {
	b.mu.Lock()
	b.aqi = s
	b.mu.Unlock()
}

// ShowDate implements Panels.
func (b *Board) ShowDate(day string) {
	b.mu.Lock()
	b.date = day
	b.mu.Unlock()
}

// ShowPlayLabel implements Panels.
func (b *Board) ShowPlayLabel(label string) {
	b.mu.Lock()
	b.playLabel = label
	b.mu.Unlock()
}

// ShowError implements Panels. An empty message clears the error.
func (b *Board) ShowError(msg string) {
	b.mu.Lock()
	b.lastError = msg
	b.mu.Unlock()
}

// Date returns the date selector value.
func (b *Board) Date() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.date
}

// PlayLabel returns the button label.
func (b *Board) PlayLabel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.playLabel
}

// LastError returns the surfaced fetch error, if any.
func (b *Board) LastError() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError
}

// String renders both panels as plain text.
func (b *Board) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	sb.WriteString("Fire Details\n")
	for _, l := range b.fires.Lines() {
		sb.WriteString("  " + l + "\n")
	}
	sb.WriteString("Air Quality\n")
	for _, l := range b.aqi.Lines() {
		sb.WriteString("  " + l + "\n")
	}
	if b.lastError != "" {
		sb.WriteString("Error: " + b.lastError + "\n")
	}
	return sb.String()
}
