package segmenter

import (
	"regexp"
	"strings"

	"slidegen/internal/domain"
)

// Segmenter splits raw OCR text blocks into clean sentence units and
// discards noise fragments (headers, page numbers, stray symbol runs).
type Segmenter struct {
	minWords int
	minChars int
}

func New(minWords, minChars int) *Segmenter {
	if minWords <= 0 {
		minWords = 3
	}
	if minChars <= 0 {
		minChars = 12
	}
	return &Segmenter{minWords: minWords, minChars: minChars}
}

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	junkRe     = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?%'’()-]`)
	decimalRe  = regexp.MustCompile(`(\p{N})\.(\p{N})`)
	splitRe    = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)
	leadTrimRe = regexp.MustCompile(`^[^\p{L}\p{N}]+`)
	tailTrimRe = regexp.MustCompile(`[^\p{L}\p{N}.!?)%]+$`)
)

// Common abbreviations whose trailing period must not terminate a sentence.
var abbreviations = []string{
	"mr.", "mrs.", "ms.", "dr.", "prof.", "st.", "no.", "fig.", "vs.",
	"e.g.", "i.e.", "etc.", "approx.", "dept.", "inc.", "ltd.", "jr.", "sr.",
}

const dotMark = "\x01"

// Segment splits one raw text block into retained sentences, preserving
// order and tagging each with the block's source index. Empty or
// entirely-noise input yields an empty slice, never an error.
func (s *Segmenter) Segment(block domain.TextBlock) []domain.Sentence {
	text := s.clean(block.Text)
	if text == "" {
		return nil
	}
	text = protectDots(text)

	parts := splitRe.FindAllString(text, -1)
	if rest := strings.TrimSpace(splitRe.ReplaceAllString(text, "")); rest != "" {
		parts = append(parts, rest)
	}

	var out []domain.Sentence
	for _, p := range parts {
		raw := restoreDots(strings.TrimSpace(p))
		raw = leadTrimRe.ReplaceAllString(raw, "")
		raw = tailTrimRe.ReplaceAllString(raw, "")
		norm := normalize(raw)
		if !s.retain(norm) {
			continue
		}
		out = append(out, domain.Sentence{
			Raw:        raw,
			Normalized: norm,
			Source:     block.Source,
		})
	}
	return out
}

// clean collapses whitespace and strips OCR artifact characters while
// keeping word characters and basic punctuation.
func (s *Segmenter) clean(text string) string {
	text = junkRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func (s *Segmenter) retain(norm string) bool {
	if len([]rune(norm)) < s.minChars {
		return false
	}
	return len(strings.Fields(norm)) >= s.minWords
}

func normalize(raw string) string {
	norm := strings.ToLower(strings.TrimSpace(raw))
	return strings.TrimSpace(strings.TrimRight(norm, ".!?"))
}

// protectDots masks periods inside decimals and known abbreviations so the
// sentence splitter does not break on them.
func protectDots(text string) string {
	for {
		masked := decimalRe.ReplaceAllString(text, "${1}"+dotMark+"${2}")
		if masked == text {
			break
		}
		text = masked
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		matched := false
		atBoundary := i == 0 || !isLetterByte(text[i-1])
		for _, abbr := range abbreviations {
			// abbreviations are ASCII, so a byte-length slice of text is
			// safe to fold-compare; multibyte letters simply never match
			if atBoundary && len(abbr) <= len(text)-i && strings.EqualFold(text[i:i+len(abbr)], abbr) {
				b.WriteString(strings.ReplaceAll(text[i:i+len(abbr)], ".", dotMark))
				i += len(abbr)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String()
}

func restoreDots(text string) string {
	return strings.ReplaceAll(text, dotMark, ".")
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
