package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab   ", Fit("ab", 5, lipgloss.Left))
	assert.Equal(t, "   ab", Fit("ab", 5, lipgloss.Right))
	assert.Equal(t, " ab  ", Fit("ab", 5, lipgloss.Center))
	assert.Equal(t, "abcd…", Fit("abcdefgh", 5, lipgloss.Right))
	assert.Equal(t, 6, lipgloss.Width(Fit("日本", 6, lipgloss.Left)))
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, LightTheme(), ThemeByName("light"))
	assert.Equal(t, DarkTheme(), ThemeByName("dark"))
	assert.Equal(t, DarkTheme(), ThemeByName("solarized"))
}
