package layout

import (
	"fmt"
	"strings"

	"slidegen/internal/domain"
	"slidegen/internal/theme"
)

// Shared slide geometry in points, used identically by every renderer so
// visual density stays consistent across formats. 720x540 is a 10x7.5 inch
// surface, the classic 4:3 slide.
const (
	SurfaceWidth  = 720.0
	SurfaceHeight = 540.0
	MarginX       = 56.0
	MarginTop     = 48.0
	MarginBottom  = 48.0

	// LineSpacing multiplies the font size to get a line's vertical advance.
	LineSpacing = 1.45

	// HeadingGap separates the heading block from the first bullet.
	HeadingGap = 20.0

	// glyphWidthFactor approximates the average advance width of a glyph
	// relative to the font size, tuned for Helvetica-class faces.
	glyphWidthFactor = 0.52
)

// Plan is the wrapped-line breakdown of one slide. Overflow reports that
// the bullets do not fit the surface vertically; the text is still fully
// present, the caller decides whether to split into a continuation slide.
type Plan struct {
	TitleLines  []string
	BulletLines [][]string
	Overflow    bool
}

// Engine computes layout plans against the shared geometry for one theme.
type Engine struct {
	th *theme.Theme
}

// NewEngine validates the theme up front; a descriptor missing a role is
// rejected here, never mid-render.
func NewEngine(th *theme.Theme) (*Engine, error) {
	if th == nil {
		return nil, fmt.Errorf("nil theme: %w", domain.ErrInvalidTheme)
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Engine{th: th}, nil
}

// Theme returns the validated theme the engine plans against.
func (e *Engine) Theme() *theme.Theme { return e.th }

// Plan wraps the topic's title and bullets for one slide. It is a pure
// function of the topic and the engine's theme.
func (e *Engine) Plan(topic domain.Topic) Plan {
	usable := SurfaceWidth - 2*MarginX

	titleLines := Wrap(topic.Title, MaxChars(usable, e.th.Sizes.Heading))
	bulletWidth := usable - bulletIndent
	var bulletLines [][]string
	for _, b := range topic.Bullets {
		bulletLines = append(bulletLines, Wrap(b, MaxChars(bulletWidth, e.th.Sizes.Body)))
	}

	used := float64(len(titleLines))*e.th.Sizes.Heading*LineSpacing + HeadingGap
	for _, lines := range bulletLines {
		used += float64(len(lines))*e.th.Sizes.Body*LineSpacing + bulletGap
	}
	available := SurfaceHeight - MarginTop - MarginBottom

	return Plan{
		TitleLines:  titleLines,
		BulletLines: bulletLines,
		Overflow:    used > available,
	}
}

const (
	bulletIndent = 18.0
	bulletGap    = 6.0
)

// MaxChars converts a width in points and a font size into a character
// budget per line.
func MaxChars(width, fontSize float64) int {
	if fontSize <= 0 {
		return 1
	}
	n := int(width / (fontSize * glyphWidthFactor))
	if n < 1 {
		n = 1
	}
	return n
}

// Wrap greedily breaks text into lines of at most maxChars runes, splitting
// on spaces. A single word longer than the budget is hard-broken so no line
// ever exceeds the computable width.
func Wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur []rune
	for _, w := range words {
		runes := []rune(w)
		for len(runes) > maxChars {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(runes[:maxChars]))
			runes = runes[maxChars:]
		}
		switch {
		case len(cur) == 0:
			cur = runes
		case len(cur)+1+len(runes) <= maxChars:
			cur = append(cur, ' ')
			cur = append(cur, runes...)
		default:
			lines = append(lines, string(cur))
			cur = runes
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
