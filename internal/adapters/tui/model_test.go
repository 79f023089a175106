package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/firewatch/internal/adapters/fixture"
	"github.com/okian/firewatch/internal/domain/model"
	"github.com/okian/firewatch/internal/viz"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSource struct{ err error }

func (s *stubSource) Fetch(context.Context) (model.Dataset, error) {
	if s.err != nil {
		return model.Dataset{}, s.err
	}
	return fixture.Payload().Dataset(), nil
}

type quietTicker struct{ ch chan time.Time }

func (t quietTicker) C() <-chan time.Time { return t.ch }
func (t quietTicker) Stop()               {}

func newController(src *stubSource) *viz.Controller {
	ctrl := viz.New(
		viz.WithSource(src),
		viz.WithTickerFactory(func(time.Duration) viz.Ticker { return quietTicker{ch: make(chan time.Time)} }),
	)
	So(ctrl.Load(context.Background()), ShouldBeNil)
	return ctrl
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(key(k))
	return next.(Model), cmd
}

func TestUpdate(t *testing.T) {
	Convey("Given a terminal model over a loaded controller", t, func() {
		src := &stubSource{}
		ctrl := newController(src)
		defer ctrl.Close()
		m := NewModel(context.Background(), ctrl, time.Millisecond)

		Convey("When right is pressed", func() {
			m, _ = press(m, "right")

			Convey("Then the next day is selected", func() {
				So(m.snap.Date, ShouldEqual, "2025-01-08")
				So(ctrl.Snapshot().Date, ShouldEqual, "2025-01-08")
			})
		})

		Convey("When left is pressed on the first day", func() {
			m, _ = press(m, "left")

			Convey("Then the selection stays inside the range", func() {
				So(m.snap.Date, ShouldEqual, "2025-01-07")
			})
		})

		Convey("When space is pressed", func() {
			m, _ = press(m, " ")

			Convey("Then playback starts", func() {
				So(m.snap.Playing, ShouldBeTrue)
				So(m.View(), ShouldContainSubstring, "Pause Animation")
			})

			Convey("Then a second press pauses", func() {
				m, _ = press(m, " ")
				So(m.snap.Playing, ShouldBeFalse)
			})
		})

		Convey("When r is pressed and the fetch fails", func() {
			src.err = errors.New("offline")
			var cmd tea.Cmd
			m, cmd = press(m, "r")
			So(cmd, ShouldNotBeNil)
			next, _ := m.Update(cmd())
			m = next.(Model)

			Convey("Then the failure is shown", func() {
				So(m.status, ShouldEqual, "reload failed")
				So(m.View(), ShouldContainSubstring, "offline")
			})
		})

		Convey("When q is pressed", func() {
			_, cmd := press(m, "q")

			Convey("Then the program quits", func() {
				So(cmd, ShouldNotBeNil)
				So(cmd(), ShouldResemble, tea.Quit())
			})
		})

		Convey("When a refresh arrives", func() {
			So(ctrl.SelectDate("2025-01-11"), ShouldBeNil)
			next, cmd := m.Update(refreshMsg(time.Now()))
			m = next.(Model)

			Convey("Then the snapshot is re-read and polling continues", func() {
				So(m.snap.Date, ShouldEqual, "2025-01-11")
				So(cmd, ShouldNotBeNil)
			})
		})
	})
}

func TestView(t *testing.T) {
	Convey("Given a terminal model on a busy day", t, func() {
		ctrl := newController(&stubSource{})
		defer ctrl.Close()
		So(ctrl.SelectDate("2025-01-10"), ShouldBeNil)
		m := NewModel(context.Background(), ctrl, 0)

		out := m.View()

		Convey("Then both panels, the table and the chart are drawn", func() {
			So(out, ShouldContainSubstring, "Active Fires: 3")
			So(out, ShouldContainSubstring, "Total Area: 10,800 acres")
			So(out, ShouldContainSubstring, "AQI Level: 500")
			So(out, ShouldContainSubstring, "Hazardous")
			So(out, ShouldContainSubstring, "Eaton Fire")
			So(out, ShouldContainSubstring, "day 4: 2025-01-10 = 500")
		})
	})

	Convey("Given a terminal model without data", t, func() {
		ctrl := viz.New()
		defer ctrl.Close()
		m := NewModel(context.Background(), ctrl, 0)

		Convey("Then placeholders are drawn", func() {
			out := m.View()
			So(out, ShouldContainSubstring, "no fires on this day")
			So(out, ShouldContainSubstring, "no AQI data")
			So(out, ShouldContainSubstring, "AQI Level: n/a")
		})
	})
}
