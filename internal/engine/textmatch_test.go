package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café", "cafe"},
		{"CRÈME BRÛLÉE", "creme brulee"},
		{"Łódź", "łodz"},
		{"hello", "hello"},
		{"", ""},
		{"Ñandú 42", "nandu 42"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, foldText(tt.in))
		})
	}
}

func TestContainsWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		want     bool
	}{
		{"exact word", "hello world", "hello", true},
		{"second word", "hello world", "world", true},
		{"substring is not a word", "hello world", "hell", false},
		{"diacritics fold", "Café Latte", "cafe", true},
		{"case folds", "HELLO there", "hello", true},
		{"two consecutive words", "the quick brown fox", "quick brown", true},
		{"words out of order", "the quick brown fox", "brown quick", false},
		{"words not adjacent", "the quick brown fox", "quick fox", false},
		{"multiple spaces in expected", "a b c", "a  b", true},
		{"empty expected never matches", "anything", "", false},
		{"whitespace-only expected never matches", "anything", "   ", false},
		{"dot matches itself", "see a.b here", "a.b", true},
		{"dot is quoted, not a wildcard", "axb", "a.b", false},
		{"missing word", "hello world", "goodbye", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, containsWords(tt.text, tt.expected))
		})
	}
}
