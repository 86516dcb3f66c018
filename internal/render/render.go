package render

import (
	"slidegen/internal/domain"
	"slidegen/internal/layout"
)

// Renderer produces one self-contained output artifact from a deck. Implementations
// must not alter topic order, bullet order, or text content; rendering is
// presentation-only and content-lossless relative to the deck model.
type Renderer interface {
	// Format returns the file extension this renderer produces, without dot.
	Format() string
	Render(d *domain.SlideDeck, engine *layout.Engine) ([]byte, error)
}

// DeckTitle is the fixed heading of the opening slide in every format.
const DeckTitle = "AI-Generated Slide Deck"

// plansFor precomputes the layout plan of every topic. All renderers share
// the same plans so wrapping decisions agree across formats.
func plansFor(d *domain.SlideDeck, engine *layout.Engine) []layout.Plan {
	plans := make([]layout.Plan, len(d.Topics))
	for i, t := range d.Topics {
		plans[i] = engine.Plan(t)
	}
	return plans
}
