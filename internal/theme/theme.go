package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"slidegen/internal/domain"
)

// Colors maps the closed set of color roles to hex values.
type Colors struct {
	Background string `json:"background"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

// Fonts maps font roles to family names.
type Fonts struct {
	Title   string `json:"title"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Sizes maps size roles to point sizes.
type Sizes struct {
	Title   float64 `json:"title"`
	Heading float64 `json:"heading"`
	Body    float64 `json:"body"`
}

// Theme is a fixed-schema descriptor with an enumerated set of roles.
// Unknown keys in a theme file are ignored; missing required roles are a
// fatal configuration error caught by Validate.
type Theme struct {
	Name   string `json:"name"`
	Colors Colors `json:"colors"`
	Fonts  Fonts  `json:"fonts"`
	Sizes  Sizes  `json:"sizes"`
}

// Clean returns the built-in default theme.
func Clean() *Theme {
	return &Theme{
		Name: "clean",
		Colors: Colors{
			Background: "#FFFFFF",
			Title:      "#1a1a1a",
			Text:       "#333333",
			Accent:     "#0066cc",
		},
		Fonts: Fonts{
			Title:   "Helvetica-Bold",
			Heading: "Helvetica-Bold",
			Body:    "Helvetica",
		},
		Sizes: Sizes{
			Title:   28,
			Heading: 24,
			Body:    14,
		},
	}
}

// Load reads and validates a theme JSON file.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every required role is present and well-formed.
func (t *Theme) Validate() error {
	colors := map[string]string{
		"background": t.Colors.Background,
		"title":      t.Colors.Title,
		"text":       t.Colors.Text,
		"accent":     t.Colors.Accent,
	}
	for role, v := range colors {
		if v == "" {
			return fmt.Errorf("missing color role %q: %w", role, domain.ErrInvalidTheme)
		}
		if _, _, _, err := ParseHexColor(v); err != nil {
			return fmt.Errorf("color role %q: %v: %w", role, err, domain.ErrInvalidTheme)
		}
	}
	fonts := map[string]string{"title": t.Fonts.Title, "heading": t.Fonts.Heading, "body": t.Fonts.Body}
	for role, v := range fonts {
		if v == "" {
			return fmt.Errorf("missing font role %q: %w", role, domain.ErrInvalidTheme)
		}
	}
	sizes := map[string]float64{"title": t.Sizes.Title, "heading": t.Sizes.Heading, "body": t.Sizes.Body}
	for role, v := range sizes {
		if v <= 0 {
			return fmt.Errorf("size role %q must be positive: %w", role, domain.ErrInvalidTheme)
		}
	}
	return nil
}

// ParseHexColor parses "#RRGGBB" (or "#RGB") into its components.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	default:
		return 0, 0, 0, fmt.Errorf("malformed hex color %q", s)
	}
	v, perr := strconv.ParseUint(hex, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("malformed hex color %q", s)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
