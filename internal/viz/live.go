// Package viz renders a live terminal view of a running loop.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/geodyn/convect/internal/diag"
	"github.com/geodyn/convect/internal/field"
	"github.com/geodyn/convect/internal/sim"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("209")).Padding(1, 2)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a loop a batch of iterations per frame and renders the
// temperature field alongside the control state. The loop is stepped
// inside Update, so quitting between frames leaves it at an iteration
// boundary.
type Model struct {
	loop *sim.Loop
	temp *field.Scalar
	vel  *field.Vector
	name string

	stepsPerTick int
	paused       bool
	err          error

	history []float64
}

func NewModel(loop *sim.Loop, temp *field.Scalar, vel *field.Vector, name string) Model {
	return Model{
		loop:         loop,
		temp:         temp,
		vel:          vel,
		name:         name,
		stepsPerTick: 20,
		history:      make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "up", "k":
			if m.stepsPerTick < 640 {
				m.stepsPerTick *= 2
			}
		case "down", "j":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}

	case TickMsg:
		if !m.paused && m.err == nil && !m.loop.Status().Terminal() {
			for i := 0; i < m.stepsPerTick; i++ {
				st, err := m.loop.Step()
				if err != nil {
					m.err = err
					break
				}
				if metric := m.loop.Metric(); metric > 0 {
					m.history = append(m.history, math.Log10(metric))
					if len(m.history) > historyCapacity {
						m.history = m.history[1:]
					}
				}
				if st.Terminal() {
					break
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("convect live: %s", m.name)))
	b.WriteString("\n")

	b.WriteString(fieldStyle.Render(Heatmap(m.temp, 64, 20)))
	b.WriteString("\n")

	rows := [][2]string{
		{"status", m.loop.Status().String()},
		{"iteration", fmt.Sprintf("%d", m.loop.Iteration())},
		{"time", fmt.Sprintf("%.6g", m.loop.Time())},
		{"dt", fmt.Sprintf("%.3e", m.loop.Dt())},
		{"metric", fmt.Sprintf("%.3e", m.loop.Metric())},
		{"nu_top", fmt.Sprintf("%.4f", diag.NusseltTop(m.temp))},
		{"u_rms", fmt.Sprintf("%.4f", diag.RMSVelocity(m.vel))},
		{"speed", fmt.Sprintf("%d steps/frame", m.stepsPerTick)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("log10 metric"))
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("run failed: %v", m.err)))
		b.WriteString("\n")
	case m.loop.Status().Terminal():
		b.WriteString(doneStyle.Render(fmt.Sprintf("run finished: %s", m.loop.Status())))
		b.WriteString("\n")
	case m.paused:
		b.WriteString(doneStyle.Render("paused"))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause | up/down speed | q quit"))
	b.WriteString("\n")
	return b.String()
}
