package engine

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// foldText lowercases s and strips combining marks so comparisons are case-
// and diacritic-insensitive: "Café" folds to "cafe". NFD decomposition
// separates base characters from their marks before the marks are dropped.
func foldText(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// containsWords reports whether text contains the words of expected as
// consecutive whole words, in order, after folding both sides. The expected
// string is tokenized on whitespace; each token must match at word
// boundaries, so "hell" never matches inside "hello". An empty expected
// string never matches.
func containsWords(text, expected string) bool {
	words := strings.Fields(foldText(expected))
	if len(words) == 0 {
		return false
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	pattern := `\b` + strings.Join(quoted, `\s+`) + `\b`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(foldText(text))
}
