// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	splitsound "github.com/symboxtra/SplitSound"
	"github.com/symboxtra/SplitSound/hostloop"
)

// meterRange is the span of the level bars below full scale.
const meterRange = 60.0

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(3)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// drainMsg asks the model to run the callbacks queued on the host loop.
type drainMsg struct{}

type engineDoneMsg struct {
	err error
}

// uiModel runs the bridge callbacks inside Update, which makes the
// bubbletea program loop the host context.
type uiModel struct {
	bridge *splitsound.Bridge
	loop   *hostloop.Loop
	tap    *tap
	src    source

	bars     []progress.Model
	ran      int
	paused   bool
	finished bool
	err      error
}

func newUIModel(b *splitsound.Bridge, loop *hostloop.Loop, t *tap, src source) *uiModel {
	bars := make([]progress.Model, t.meter.Channels())
	for i := range bars {
		bars[i] = progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		)
	}
	return &uiModel{bridge: b, loop: loop, tap: t, src: src, bars: bars}
}

func (m *uiModel) Init() tea.Cmd {
	return nil
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.tap.meter.Reset()
		case "u":
			m.toggle()
		}

	case drainMsg:
		m.ran += m.loop.Drain()

	case engineDoneMsg:
		m.finished = true
		m.err = msg.err
	}

	return m, nil
}

// toggle unregisters the callback or registers it again. Releasing the
// callback ends the recording, so a resumed tap only meters.
func (m *uiModel) toggle() {
	if !m.paused {
		m.bridge.Unregister()
		m.paused = true
		return
	}

	next := &tap{meter: m.tap.meter, logger: m.tap.logger}
	if err := m.bridge.SetCallback(next); err != nil {
		m.err = err
		return
	}
	m.tap = next
	m.paused = false
}

func (m *uiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SplitSound"))
	b.WriteString(" ")
	b.WriteString(m.src.String())
	b.WriteString("\n\n")

	levels := m.tap.meter.Levels()
	for i, l := range levels {
		b.WriteString(labelStyle.Render(barLabel(i, len(levels))))
		b.WriteString(m.bars[i].ViewAs(barPercent(l.RMSdBFS)))
		fmt.Fprintf(&b, " %6.1f dBFS  peak %6.1f\n", l.RMSdBFS, m.tap.meter.Peak(i))
	}
	b.WriteString("\n")

	state := "capturing"
	switch {
	case m.paused:
		state = "callback unregistered"
	case m.finished:
		state = "engine finished"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s, gen %d, %v", state, m.bridge.Generation(), m.bridge.Stats())))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r reset peaks • u unregister/register • q quit"))
	return b.String()
}

func barLabel(i, n int) string {
	switch {
	case n == 1:
		return "M"
	case n == 2:
		return [...]string{"L", "R"}[i]
	default:
		return fmt.Sprint(i + 1)
	}
}

func barPercent(dbfs float64) float64 {
	return min(max((dbfs+meterRange)/meterRange, 0), 1)
}

func runUI(src source, t *tap, logger *zap.Logger) error {
	wake := make(chan struct{}, 1)
	loop := hostloop.New(hostloop.WithLogger(logger), hostloop.WithWake(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}))
	b := splitsound.New(loop, splitsound.WithLogger(logger))
	if err := b.SetCallback(t); err != nil {
		return err
	}

	p := tea.NewProgram(newUIModel(b, loop, t, src), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			select {
			case <-wake:
				p.Send(drainMsg{})
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := b.Attach(ctx, src.engine); err != nil {
		return errors.Join(err, b.Close())
	}
	go func() {
		waitEngine(ctx, src.engine)
		if ctx.Err() == nil {
			p.Send(engineDoneMsg{err: engineErr(src.engine)})
		}
	}()

	_, err := p.Run()
	cancel()

	logger.Info("capture finished", zap.Stringer("stats", b.Stats()))
	return errors.Join(err, b.Close())
}
