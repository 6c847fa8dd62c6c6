package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName decomposes value, strips combining marks, and lowercases the
// result. Surrounding whitespace is trimmed.
func FoldName(value string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(value))
	if err != nil {
		folded = strings.TrimSpace(value)
	}
	return cases.Lower(language.Und).String(folded)
}

// EntityKey derives an entity identifier from a file stem such as
// "BetSpark 1" or "Roto Grinders 2". Punctuation is removed, a trailing token
// containing digits is dropped, and the remaining words are joined without
// separators. An empty result means no name could be derived.
func EntityKey(stem string) string {
	folded := FoldName(stem)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	parts := strings.Fields(b.String())
	if len(parts) > 1 && strings.IndexFunc(parts[len(parts)-1], unicode.IsDigit) >= 0 {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "")
}

// LeadingIndex returns the first run of ASCII digits in value, or fallback
// when there is none.
func LeadingIndex(value, fallback string) string {
	start := strings.IndexFunc(value, isASCIIDigit)
	if start < 0 {
		return fallback
	}
	end := start
	for end < len(value) && isASCIIDigit(rune(value[end])) {
		end++
	}
	return value[start:end]
}

// DisplayName title-cases a folded key for report output.
func DisplayName(key string) string {
	key = strings.ReplaceAll(strings.TrimSpace(key), "_", " ")
	if key == "" {
		return ""
	}
	return cases.Title(language.English).String(key)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
