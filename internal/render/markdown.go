package render

import (
	"fmt"
	"strings"

	"slidegen/internal/domain"
	"slidegen/internal/layout"
)

// Markdown renders the deck as a slide-per-section markdown document with
// `---` separators, matching the topic order and bullet order of the model.
type Markdown struct{}

func NewMarkdown() *Markdown { return &Markdown{} }

func (m *Markdown) Format() string { return "md" }

func (m *Markdown) Render(d *domain.SlideDeck, engine *layout.Engine) ([]byte, error) {
	if err := checkEngine(engine); err != nil {
		return nil, err
	}
	var b strings.Builder

	b.WriteString("# " + DeckTitle + "\n\n")
	fmt.Fprintf(&b, "*Generated on %s*\n\n---\n\n", d.Meta.GeneratedAt.Format("January 2, 2006"))

	for _, t := range d.Topics {
		b.WriteString("## " + t.Title + "\n\n")
		for _, bullet := range t.Bullets {
			b.WriteString("- " + bullet + "\n")
		}
		b.WriteString("\n---\n\n")
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "Generated %d topics from %d sentences\n",
		len(d.Topics), d.Meta.SourceSentences)

	return []byte(b.String()), nil
}

func checkEngine(engine *layout.Engine) error {
	if engine == nil {
		return fmt.Errorf("nil layout engine: %w", domain.ErrInvalidTheme)
	}
	return nil
}
