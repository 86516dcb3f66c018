package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/domain"
)

func previewDeck() *domain.SlideDeck {
	return &domain.SlideDeck{
		Topics: []domain.Topic{
			{Title: "Revenue", Bullets: []string{"Revenue grew ten percent."}},
			{Title: "Hiring", Bullets: []string{"Four engineers joined."}},
		},
		Meta: domain.DeckMeta{
			ID:              "deck-preview",
			GeneratedAt:     time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			SourceSentences: 6,
		},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_NavigationBounds(t *testing.T) {
	var m tea.Model = New(previewDeck(), nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	// title + 2 topics + summary
	require.Equal(t, 4, m.(Model).slideCount())
	assert.Equal(t, 0, m.(Model).cursor)

	m, _ = m.Update(key("h")) // already at the first slide
	assert.Equal(t, 0, m.(Model).cursor)

	for i := 0; i < 10; i++ {
		m, _ = m.Update(key("l"))
	}
	assert.Equal(t, 3, m.(Model).cursor)

	m, _ = m.Update(key("h"))
	assert.Equal(t, 2, m.(Model).cursor)
}

func TestModel_ViewShowsCurrentSlide(t *testing.T) {
	var m tea.Model = New(previewDeck(), nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.(Model).View(), "AI-Generated Slide Deck")

	m, _ = m.Update(key("l"))
	view := m.(Model).View()
	assert.Contains(t, view, "Revenue")
	assert.Contains(t, view, "slide 2/4")
}

func TestModel_QuitKeys(t *testing.T) {
	var m tea.Model = New(previewDeck(), nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
