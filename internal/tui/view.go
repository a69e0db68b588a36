package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/sqcrop/internal/core/styles"
)

// View implements tea.Model.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

func (m Model) render() string {
	if !m.hasFrame {
		return styles.PlaceholderText.Render("loading…")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	if m.canvas == nil {
		b.WriteString(styles.PlaceholderText.Render("window too small"))
	} else {
		pad := strings.Repeat(" ", m.offsetX)
		for i, line := range strings.Split(m.canvas.Render(m.frame.Committed, m.frame.Preview), "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(pad)
			b.WriteString(line)
		}
	}

	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	b.WriteString(m.help.ShortHelpView(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	counter := styles.CounterStyle.Render(fmt.Sprintf("[%d/%d]", m.frame.Index+1, m.frame.Total))
	return styles.HeaderStyle.Render(counter + " " + styles.PathStyle.Render(m.frame.Path))
}

func (m Model) renderStatus() string {
	if m.frame.Status == "" {
		return styles.StatusStyle.Render(fmt.Sprintf("crop %s", m.frame.Committed))
	}
	if m.frame.IsError {
		return styles.StatusErrStyle.Render(m.frame.Status)
	}
	return styles.StatusStyle.Render(m.frame.Status)
}
