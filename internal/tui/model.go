package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"slidegen/internal/domain"
	"slidegen/internal/theme"
)

// Model is the Bubble Tea model for the deck preview: one slide at a time,
// left/right to flip through topics, q to quit.
type Model struct {
	deck     *domain.SlideDeck
	th       *theme.Theme
	viewport viewport.Model
	cursor   int
	ready    bool
}

// New creates a preview model for a finished deck.
func New(d *domain.SlideDeck, th *theme.Theme) Model {
	if th == nil {
		th = theme.Clean()
	}
	vp := viewport.New(0, 0)
	return Model{deck: d, th: th, viewport: vp}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := slideBoxStyle.GetFrameSize()
		reserved := 2 + 1 + fh // header, footer, frame
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-slideBoxStyle.GetHorizontalFrameSize())
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderSlide())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "right", "l", "down":
			if m.cursor < m.slideCount()-1 {
				m.cursor++
				m.viewport.SetContent(m.renderSlide())
			}
			return m, nil
		case "left", "h", "up":
			if m.cursor > 0 {
				m.cursor--
				m.viewport.SetContent(m.renderSlide())
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview layout and the current slide.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("slidegen preview") + "  " +
		metaStyle.Render(fmt.Sprintf("deck %s · %d topics · %d sentences",
			m.deck.Meta.ID, len(m.deck.Topics), m.deck.Meta.SourceSentences))
	slide := slideBoxStyle.Render(m.viewport.View())
	footer := metaStyle.Render(fmt.Sprintf("slide %d/%d  ←/→ navigate  q quit", m.cursor+1, m.slideCount()))
	return header + "\n" + slide + "\n" + footer
}

// slideCount includes the title and summary slides around the topics.
func (m Model) slideCount() int { return len(m.deck.Topics) + 2 }

func (m Model) renderSlide() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.th.Colors.Accent))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.th.Colors.Text))

	switch {
	case m.cursor == 0:
		return titleStyle.Render("AI-Generated Slide Deck") + "\n\n" +
			textStyle.Render("Generated on "+m.deck.Meta.GeneratedAt.Format("January 2, 2006"))
	case m.cursor == m.slideCount()-1:
		return titleStyle.Render("Summary") + "\n\n" +
			textStyle.Render(fmt.Sprintf("Generated %d topics from %d sentences",
				len(m.deck.Topics), m.deck.Meta.SourceSentences))
	default:
		t := m.deck.Topics[m.cursor-1]
		var b strings.Builder
		b.WriteString(titleStyle.Render(t.Title))
		b.WriteString("\n\n")
		for _, bullet := range t.Bullets {
			b.WriteString(textStyle.Render("• " + bullet))
			b.WriteString("\n")
		}
		return b.String()
	}
}

var (
	slideBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
