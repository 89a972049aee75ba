package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/signup/pkg/sanitizer"
)

func TestSingleLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims ends", "  Ann Lee  ", "Ann Lee"},
		{"collapses inner runs", "Ann \t  Lee", "Ann Lee"},
		{"joins lines", "Ann\r\nLee\n", "Ann Lee"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.SingleLine(tt.input))
		})
	}
}

func TestRemoveControlChars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AnnLee", sanitizer.RemoveControlChars("Ann\x00Lee\x1b"))
	assert.Equal(t, "Ann\tLee\n", sanitizer.RemoveControlChars("Ann\tLee\n"))
}

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"  Ann@Example.COM ", "ann@example.com"},
		{"first..last@example.com", "first..last@example.com"},
		{"ann\x00@example.com", "ann@example.com"},
		{"not-an-email", "not-an-email"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizer.Email(tt.input), tt.input)
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a**@example.com", sanitizer.MaskEmail("ann@example.com"))
	assert.Equal(t, "a@example.com", sanitizer.MaskEmail("a@example.com"))
	assert.Equal(t, "@example.com", sanitizer.MaskEmail("@example.com"))
	assert.Equal(t, "plain", sanitizer.MaskEmail("plain"))
}

func TestCompose(t *testing.T) {
	t.Parallel()

	name := sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.SingleLine)
	assert.Equal(t, "Ann Lee", name("  Ann\x07 \n Lee "))
	assert.Equal(t, "x", sanitizer.Apply("  x  ", sanitizer.Trim))
	assert.Equal(t, "same", sanitizer.Apply("same"))
}
