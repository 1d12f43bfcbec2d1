package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/rmalhotra/chargelab/internal/engine"
)

const (
	canvasW = 80
	canvasH = 24

	historyCapacity = 600
)

type TickMsg time.Time

// Model drives the engine from the bubbletea frame loop: one Engine.Tick per
// TickMsg, then a redraw. The engine never schedules itself.
type Model struct {
	eng       *engine.Engine
	sceneName string
	count     int

	start   time.Time
	canvas  *Canvas
	energy  []float64
	running bool
}

func NewModel(eng *engine.Engine, sceneName string, count int) Model {
	return Model{
		eng:       eng,
		sceneName: sceneName,
		count:     count,
		start:     time.Now(),
		canvas:    NewCanvas(canvasW, canvasH),
		energy:    make([]float64, 0, historyCapacity),
		running:   true,
	}
}

func (m Model) Init() tea.Cmd {
	m.eng.Start(0)
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) now() float64 { return time.Since(m.start).Seconds() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.running {
				m.eng.Pause()
			} else {
				m.eng.Start(m.now())
			}
			m.running = !m.running
		case "r":
			if m.sceneName == "atom" {
				m.eng.InitializeAtom(m.count)
			} else {
				m.eng.Reset(m.count)
			}
			m.energy = m.energy[:0]
		case "up", "k":
			m.eng.SetForceScale(m.eng.ForceScale() * 1.1)
		case "down", "j":
			m.eng.SetForceScale(m.eng.ForceScale() * 0.9)
		case "]":
			m.eng.SetTimeScale(m.eng.TimeScale() * 1.25)
		case "[":
			m.eng.SetTimeScale(m.eng.TimeScale() * 0.8)
		}

	case TickMsg:
		if m.running {
			m.eng.Tick(m.now())
			m.energy = append(m.energy, m.eng.Stats().TotalEnergy)
			if len(m.energy) > historyCapacity {
				m.energy = m.energy[1:]
			}
		}
		return m, frameTick()
	}
	return m, nil
}

func (m Model) draw() {
	m.canvas.Clear()

	w, h := m.eng.Bounds()
	sx := float64(canvasW*2-2) / w
	sy := float64(canvasH*4-2) / h

	m.canvas.DrawRect(0, 0, canvasW*2-1, canvasH*4-1)

	for _, p := range m.eng.Particles() {
		px := int(p.Pos.X * sx)
		py := int(p.Pos.Y * sy)
		r := 1
		if p.Radius >= 5 {
			r = 2
		}
		m.canvas.FillCircle(px, py, r)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	s := m.eng.Stats()
	var pos, neg, neu int
	for _, p := range m.eng.Particles() {
		switch {
		case p.Charge > 0:
			pos++
		case p.Charge < 0:
			neg++
		default:
			neu++
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(m.sceneName)) + "\n")
	if m.running {
		b.WriteString("RUNNING\n\n")
	} else {
		b.WriteString("PAUSED\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("total energy"),
		)
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", s.ParticleCount)) + "\n")
	b.WriteString(labelStyle.Render("Charges") +
		positiveStyle.Render(fmt.Sprintf("+%d ", pos)) +
		negativeStyle.Render(fmt.Sprintf("-%d ", neg)) +
		neutralStyle.Render(fmt.Sprintf("n%d", neu)) + "\n")
	b.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.2f", s.KineticEnergy)) + "\n")
	b.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.2f", s.PotentialEnergy)) + "\n")
	b.WriteString(labelStyle.Render("Total") + valueStyle.Render(fmt.Sprintf("%.2f", s.TotalEnergy)) + "\n")
	b.WriteString(labelStyle.Render("Avg speed") + valueStyle.Render(fmt.Sprintf("%.2f", s.AverageSpeed)) + "\n")
	b.WriteString(labelStyle.Render("FPS") + valueStyle.Render(fmt.Sprintf("%d", s.FPS)) + "\n")
	b.WriteString(labelStyle.Render("Force k") + valueStyle.Render(fmt.Sprintf("%.0f", m.eng.ForceScale())) + "\n")
	b.WriteString(labelStyle.Render("Time x") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.TimeScale())) + "\n")

	b.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n↑↓:Force  [ ]:Time scale"))

	statsView := statsStyle.Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
