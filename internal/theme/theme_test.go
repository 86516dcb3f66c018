package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/domain"
)

func TestClean_IsValid(t *testing.T) {
	th := Clean()
	assert.NoError(t, th.Validate())
	assert.Equal(t, "clean", th.Name)
	assert.Equal(t, "#FFFFFF", th.Colors.Background)
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dark.json")
	content := `{
		"name": "dark",
		"colors": {"background": "#101010", "title": "#fafafa", "text": "#cccccc", "accent": "#3399ff"},
		"fonts": {"title": "Times-Bold", "heading": "Times-Bold", "body": "Times"},
		"sizes": {"title": 30, "heading": 22, "body": 13},
		"future_key": "ignored"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	th, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", th.Name)
	assert.Equal(t, "#3399ff", th.Colors.Accent)
	assert.Equal(t, 22.0, th.Sizes.Heading)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_MissingRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	content := `{
		"name": "broken",
		"colors": {"background": "#101010", "title": "#fafafa", "text": "#cccccc"},
		"fonts": {"title": "Times-Bold", "heading": "Times-Bold", "body": "Times"},
		"sizes": {"title": 30, "heading": 22, "body": 13}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	bad := Clean()
	bad.Colors.Accent = "not-a-color"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidTheme)

	bad = Clean()
	bad.Fonts.Body = ""
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidTheme)

	bad = Clean()
	bad.Sizes.Title = 0
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidTheme)

	bad = Clean()
	bad.Sizes.Body = -4
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidTheme)
}

func TestParseHexColor(t *testing.T) {
	r, g, b, err := ParseHexColor("#0066cc")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), r)
	assert.Equal(t, uint8(0x66), g)
	assert.Equal(t, uint8(0xcc), b)

	r, g, b, err = ParseHexColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), r)
	assert.Equal(t, uint8(0xff), g)
	assert.Equal(t, uint8(0xff), b)

	_, _, _, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, _, _, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)
}
