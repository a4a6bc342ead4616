package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
)

// jumpItem is one slide offered by the jump search.
type jumpItem struct {
	Index int
	Title string
}

// JumpModel is the "/" overlay: fuzzy search over slide titles.
type JumpModel struct {
	allItems      []jumpItem
	filteredItems []jumpItem

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed bool
	done      bool
	chosen    int
}

// NewJumpModel creates a jump search over titles.
func NewJumpModel(titles []string, theme Theme) JumpModel {
	ti := textinput.New()
	ti.Placeholder = "Search slides..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	items := make([]jumpItem, len(titles))
	for i, t := range titles {
		items[i] = jumpItem{Index: i, Title: t}
	}
	return JumpModel{
		allItems:      items,
		filteredItems: items,
		searchInput:   ti,
		theme:         theme,
		width:         60,
		height:        20,
		chosen:        -1,
	}
}

// SetSize updates the overlay dimensions
func (m *JumpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > 50 {
		inputWidth = 50
	}
	m.searchInput.Width = inputWidth
}

// Update handles one key and reports whether it was consumed.
func (m *JumpModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+p":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "ctrl+n":
		if m.selectedIndex < len(m.filteredItems)-1 {
			m.selectedIndex++
		}
		return true
	case "enter":
		if m.selectedIndex < len(m.filteredItems) {
			m.chosen = m.filteredItems[m.selectedIndex].Index
			m.confirmed = true
		}
		m.done = true
		return true
	case "esc":
		m.confirmed = false
		m.chosen = -1
		m.done = true
		return true
	case "backspace":
		if v := []rune(m.searchInput.Value()); len(v) > 0 {
			m.searchInput.SetValue(string(v[:len(v)-1]))
			m.filter()
		}
		return true
	default:
		if r := []rune(key); len(r) == 1 {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filter()
			return true
		}
	}
	return false
}

func (m *JumpModel) filter() {
	query := strings.TrimSpace(m.searchInput.Value())
	m.selectedIndex = 0
	if query == "" {
		m.filteredItems = m.allItems
		return
	}

	titles := make([]string, len(m.allItems))
	for i, item := range m.allItems {
		titles[i] = item.Title
	}
	matches := fuzzy.Find(query, titles)
	m.filteredItems = make([]jumpItem, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
}

// Done reports whether the overlay should close.
func (m JumpModel) Done() bool { return m.done }

// Choice returns the chosen slide index, or -1 when cancelled.
func (m JumpModel) Choice() (int, bool) {
	return m.chosen, m.confirmed
}

// Query returns the current search text.
func (m JumpModel) Query() string { return m.searchInput.Value() }

// View renders the overlay box.
func (m JumpModel) View() string {
	t := m.theme

	boxWidth := 50
	if m.width < 60 {
		boxWidth = m.width - 10
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	contentWidth := boxWidth - 4

	var lines []string
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render("Jump to Slide"))
	lines = append(lines, "")

	query := m.searchInput.Value()
	if query == "" {
		query = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth-2).
		Render(query))
	lines = append(lines, "")

	maxVisible := m.height - 12
	if maxVisible < 5 {
		maxVisible = 5
	}
	start := 0
	if m.selectedIndex >= maxVisible {
		start = m.selectedIndex - maxVisible + 1
	}

	if len(m.filteredItems) == 0 {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).Render("No matching slides"))
	}
	for i := start; i < len(m.filteredItems) && i < start+maxVisible; i++ {
		item := m.filteredItems[i]
		label := truncate.StringWithTail(fmt.Sprintf("%2d  %s", item.Index+1, item.Title), uint(contentWidth-2), "…")
		style := t.Base
		prefix := "  "
		if i == m.selectedIndex {
			style = t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
			prefix = "▸ "
		}
		lines = append(lines, prefix+style.Render(label))
	}

	lines = append(lines, "")
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Render("enter jump • esc cancel"))

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))
}
