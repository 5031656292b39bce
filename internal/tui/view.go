package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iliyamo/tv-show-library/internal/catalog"
	"github.com/iliyamo/tv-show-library/internal/model"
)

func statusLabel(s string) string {
	switch s {
	case model.StatusEnded:
		return "Ended"
	case model.StatusInProgress:
		return "In Progress"
	}
	return "All"
}

// View renders the screen.  Line rowSearch holds the search input and the
// suggestion panel starts at rowPanelTop; handleMouse relies on both.
func (m *Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeConfirmDelete:
		return m.viewConfirm()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("TV Show Library"))
	b.WriteString("  ")
	b.WriteString(m.styles.Filter.Render("Status: " + statusLabel(m.status)))
	if m.loading {
		b.WriteString(m.styles.Dim.Render("  loading…"))
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	used := 2
	if lines := m.renderPanel(m.ac.Panel()); len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
		used += len(lines)
	}

	b.WriteString("\n")
	used++
	switch {
	case m.err != "":
		b.WriteString(m.styles.Error.Render(m.err))
	case m.notice != "":
		b.WriteString(m.styles.Success.Render(m.notice))
	}
	b.WriteString("\n")
	used++

	// Leave room for the help line.
	b.WriteString(m.renderGallery(max(m.height-used-2, 3)))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ move • enter pick • esc close • tab status • ctrl+n add • ctrl+e edit • ctrl+d delete • ctrl+c quit"))
	return b.String()
}

func (m *Model) renderPanel(p catalog.Panel) []string {
	if !p.Visible {
		return nil
	}
	if p.Placeholder != "" {
		return []string{m.styles.Placeholder.Render(p.Placeholder)}
	}
	lines := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		text := e.Before + m.styles.MatchText.Render(e.Match) + e.After
		if e.Index == p.Active {
			lines = append(lines, m.styles.Active.Render("› "+text))
		} else {
			lines = append(lines, m.styles.Suggestion.Render("  "+text))
		}
	}
	return lines
}

func (m *Model) renderGallery(rows int) string {
	if len(m.shows) == 0 {
		if m.loading {
			return ""
		}
		return m.styles.Dim.Render("No TV shows found.")
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.shows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := m.shows[i]
		badge := m.styles.InProgress.Render("● In Progress")
		if s.IsEnded {
			badge = m.styles.Ended.Render("■ Ended")
		}
		line := fmt.Sprintf("%-40s %-14s %s", truncate(s.Title, 40), truncate(s.Genre, 14), badge)
		if i == m.cursor {
			line = m.styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewForm() string {
	f := m.form
	heading := "Add TV Show"
	if f.editing() {
		heading = "Edit TV Show"
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(heading))
	b.WriteString("\n\n")
	labels := []string{"Title", "Cover URL", "Genre"}
	for i, in := range f.inputs {
		b.WriteString(m.styles.Label.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	box := "[ ]"
	if f.ended {
		box = "[x]"
	}
	ended := box + " Ended"
	if f.focus == fieldEnded {
		ended = m.styles.Selected.Render(ended)
	}
	b.WriteString(m.styles.Label.Render("Status"))
	b.WriteString(ended)
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("tab next • space toggle status • enter save • esc cancel"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Box.Render(b.String()))
}

func (m *Model) viewConfirm() string {
	msg := fmt.Sprintf("Delete %q?\n\n%s", m.pending.Title, m.styles.Help.Render("y confirm • n cancel"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.Box.Render(msg))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
