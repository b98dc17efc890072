package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"empty string", "", 10, ""},
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 5, "hello..."},
		{"negative maxLen", "hello", -1, ""},
		{"zero maxLen", "hello", 0, ""},
		{"accented runes", "café au lait", 4, "café..."},
		{"emoji", "hi 💪 there", 4, "hi 💪..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "how do I become a dev?", CollapseSpace("  how do\tI\n\nbecome   a dev? "))
	assert.Equal(t, "", CollapseSpace(" \n\t "))
}
