// Package tui is an interactive terminal browser for solved fields:
// step through slice planes, switch axes and components.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
	"github.com/vuthalab/biot-savart/internal/storage"
	"github.com/vuthalab/biot-savart/internal/viz"
)

type Model struct {
	field *grid.Field
	meta  *storage.RunMetadata
	axis  geometry.Axis
	idx   int
	comp  grid.Component
}

func New(field *grid.Field, meta *storage.RunMetadata) Model {
	return Model{
		field: field,
		meta:  meta,
		axis:  geometry.AxisZ,
		idx:   field.Grid.Nz / 2,
		comp:  grid.Magnitude,
	}
}

func (m Model) axisLen() int {
	switch m.axis {
	case geometry.AxisX:
		return m.field.Grid.Nx
	case geometry.AxisY:
		return m.field.Grid.Ny
	default:
		return m.field.Grid.Nz
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.idx > 0 {
			m.idx--
		}
	case "right", "l":
		if m.idx < m.axisLen()-1 {
			m.idx++
		}
	case "a":
		m.axis = (m.axis + 1) % 3
		m.idx = m.axisLen() / 2
	case "c":
		m.comp = (m.comp + 1) % 4
	}
	return m, nil
}

func (m Model) View() string {
	slice, err := viz.RenderSlice(m.field, m.axis, m.idx, m.comp)
	if err != nil {
		slice = err.Error()
	}

	var side strings.Builder
	side.WriteString(viz.HeaderStyle.Render(m.meta.Name))
	side.WriteByte('\n')
	side.WriteString(viz.LabelStyle.Render("axis"))
	side.WriteString(viz.ValueStyle.Render(m.axis.String()))
	side.WriteByte('\n')
	side.WriteString(viz.LabelStyle.Render("slice"))
	side.WriteString(viz.ValueStyle.Render(fmt.Sprintf("%d / %d", m.idx, m.axisLen()-1)))
	side.WriteByte('\n')
	side.WriteString(viz.LabelStyle.Render("component"))
	side.WriteString(viz.ValueStyle.Render(m.comp.String()))
	side.WriteByte('\n')
	side.WriteString(viz.LabelStyle.Render("grid"))
	side.WriteString(viz.ValueStyle.Render(fmt.Sprintf("%dx%dx%d",
		m.field.Grid.Nx, m.field.Grid.Ny, m.field.Grid.Nz)))
	side.WriteByte('\n')
	side.WriteString(viz.LabelStyle.Render("peak"))
	side.WriteString(viz.ValueStyle.Render(fmt.Sprintf("%.4g T", m.field.MaxNorm())))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		viz.PanelStyle.Render(slice),
		viz.PanelStyle.Render(side.String()),
	)
	help := viz.HelpStyle.Render("←/→ slice · a axis · c component · q quit")
	return body + "\n" + help + "\n"
}

// Run blocks inside the browser until the user quits.
func Run(field *grid.Field, meta *storage.RunMetadata) error {
	p := tea.NewProgram(New(field, meta), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
