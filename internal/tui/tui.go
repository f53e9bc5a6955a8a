// Package tui is the terminal viewer: a scrollable document pane with
// placeholder-based section rendering, an outline sidebar and incremental
// search. Only sections near the visible region are run through the
// markdown renderer; the rest reserve their estimated height.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/pipeline"
	"github.com/dgallion1/mdview/internal/search"
	"github.com/dgallion1/mdview/internal/viewport"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Faint(true)
	outlineStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("240")).
			PaddingRight(1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// Model is the bubbletea model for one open document.
type Model struct {
	res *pipeline.Result
	cfg config.Config

	pane    bviewport.Model
	render  *glamour.TermRenderer
	live    *viewport.Renderer
	input   textinput.Model
	matches []viewport.Highlight
	current int

	width, height int
	showOutline   bool
	searching     bool
	ready         bool
	err           error
}

// New builds a viewer for a loaded document.
func New(res *pipeline.Result, cfg config.Config) Model {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search"

	return Model{
		res:     res,
		cfg:     cfg,
		input:   in,
		current: -1,
		live: viewport.New(viewport.Config{
			Buffer:              cfg.ViewportBuffer,
			FastScrollThreshold: cfg.FastScrollThreshold,
		}),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		bodyHeight := m.height - 2 // title and status bars
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.pane = bviewport.New(m.contentWidth(), bodyHeight)
			m.ready = true
		} else {
			m.pane.Width = m.contentWidth()
			m.pane.Height = bodyHeight
		}
		m.render, m.err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.contentWidth()),
		)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case "n":
			m.stepMatch(1)
			return m, nil
		case "N":
			m.stepMatch(-1)
			return m, nil
		case "o":
			m.showOutline = !m.showOutline
			if m.ready {
				m.pane.Width = m.contentWidth()
				m.refresh()
			}
			return m, nil
		case "g":
			m.pane.GotoTop()
			m.refresh()
			return m, nil
		case "G":
			m.pane.GotoBottom()
			m.refresh()
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}
	before := m.pane.YOffset
	var cmd tea.Cmd
	m.pane, cmd = m.pane.Update(msg)
	if m.pane.YOffset != before {
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		m.runSearch(m.input.Value())
		return m, nil
	case "esc":
		m.searching = false
		m.input.Blur()
		m.matches = nil
		m.current = -1
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runSearch(query string) {
	m.matches = search.Find(m.res.Model.Styled.Text, query, 0)
	if len(m.matches) == 0 {
		m.current = -1
		return
	}
	m.current = 0
	m.jumpToMatch()
}

func (m *Model) stepMatch(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.matches)) % len(m.matches)
	for i := range m.matches {
		m.matches[i].IsCurrent = i == m.current
	}
	m.jumpToMatch()
}

// jumpToMatch scrolls the pane so the current match's source line is
// visible. Rendered lines do not map 1:1 onto source lines, so this is a
// best-effort jump by line proportion.
func (m *Model) jumpToMatch() {
	if m.current < 0 || !m.ready {
		return
	}
	line := lineOfOffset(m.res.Model.Styled.Text, m.matches[m.current].Span.Offset)
	total := m.res.Model.Metadata.LineCount
	if total <= 0 {
		return
	}
	rendered := m.pane.TotalLineCount()
	target := line * rendered / total
	m.pane.SetYOffset(target)
	m.refresh()
}

// refresh recomputes the live section set for the current scroll position
// and rebuilds the pane content.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	bounds := viewport.Bounds{
		Top:    float64(m.pane.YOffset) * m.cfg.LineHeight,
		Width:  float64(m.pane.Width),
		Height: float64(m.pane.Height) * m.cfg.LineHeight,
	}
	live := m.live.Visible(m.res.Sections, bounds, true)

	var b strings.Builder
	for i, sec := range m.res.Sections {
		if _, ok := live[i]; ok {
			b.WriteString(m.renderSection(sec.Content.Text))
		} else {
			b.WriteString(m.placeholder(sec.Lines.Len()))
		}
	}
	m.pane.SetContent(b.String())
}

func (m *Model) renderSection(src string) string {
	if m.render == nil {
		return src
	}
	out, err := m.render.Render(src)
	if err != nil {
		return src
	}
	return out
}

// placeholder reserves roughly the section's height without rendering it.
func (m *Model) placeholder(lines int) string {
	if lines < 1 {
		lines = 1
	}
	marker := placeholderStyle.Render(fmt.Sprintf("· · · %d lines · · ·", lines))
	return marker + strings.Repeat("\n", lines)
}

func (m Model) contentWidth() int {
	if m.showOutline {
		w := m.width - m.outlineWidth()
		if w < 20 {
			w = 20
		}
		return w
	}
	return m.width
}

func (m Model) outlineWidth() int {
	if m.width/4 < 24 {
		return 24
	}
	return m.width / 4
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	body := m.pane.View()
	if m.showOutline {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			outlineStyle.Render(m.outlineView()),
			body,
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleBar(),
		body,
		m.statusBar(),
	)
}

func (m Model) titleBar() string {
	title := m.res.Model.Metadata.Title
	if title == "" {
		title = m.res.Model.Ref.Path
	}
	if title == "" {
		title = "untitled"
	}
	return titleStyle.Render(runewidth.Truncate(title, m.width-2, "…"))
}

func (m Model) statusBar() string {
	if m.searching {
		return m.input.View()
	}

	meta := m.res.Model.Metadata
	parts := []string{
		fmt.Sprintf("%d words", meta.WordCount),
		fmt.Sprintf("%d min read", meta.ReadingTimeMinutes),
		fmt.Sprintf("%3.f%%", m.pane.ScrollPercent()*100),
	}
	if n := len(m.res.Model.SyntaxErrors); n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d issues", n)))
	}
	if len(m.matches) > 0 {
		parts = append(parts, fmt.Sprintf("match %d/%d", m.current+1, len(m.matches)))
	}
	parts = append(parts, "/ search · o outline · q quit")
	return statusStyle.Render(runewidth.Truncate(strings.Join(parts, "  |  "), m.width, "…"))
}

func (m Model) outlineView() string {
	var b strings.Builder
	w := m.outlineWidth() - 2
	for _, h := range m.res.Model.FlatOutline {
		indent := strings.Repeat("  ", h.Level-1)
		line := runewidth.Truncate(indent+h.Title, w, "…")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return placeholderStyle.Render("(no headings)")
	}
	return strings.TrimRight(b.String(), "\n")
}

// lineOfOffset returns the 0-based line containing a byte offset.
func lineOfOffset(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n")
}
