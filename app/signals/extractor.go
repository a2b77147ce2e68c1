package signals

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Recognized money formats: $11, $11.10, $111,111.11, "11 dollars",
// "11 USD". Substring match anywhere in the text, case-insensitive.
var moneyPattern = regexp.MustCompile(`(?i)\$\d+(\.\d+)?|\$\d{1,3}(,\d{3})*\.\d+|\d+\s*dollars?|\d+\s*USD`)

// Extractor derives text signals for a configured search phrase.
type Extractor struct {
	phrase string
	folded string
}

func NewExtractor(phrase string) *Extractor {
	return &Extractor{
		phrase: phrase,
		folded: cases.Fold().String(phrase),
	}
}

// CountOccurrences counts case-insensitive whole-word occurrences of the
// phrase in text. The phrase is matched as literal text, never as a
// pattern, and word boundaries follow Unicode letter/digit semantics
// rather than ASCII \b.
func (e *Extractor) CountOccurrences(text string) int {
	if text == "" || e.folded == "" {
		return 0
	}

	folded := cases.Fold().String(text)
	count := 0
	idx := 0
	for {
		rel := strings.Index(folded[idx:], e.folded)
		if rel < 0 {
			break
		}
		at := idx + rel
		end := at + len(e.folded)
		if boundaryBefore(folded, at) && boundaryAfter(folded, end) {
			count++
			idx = end
		} else {
			idx = at + 1
		}
	}
	return count
}

// ContainsMoney reports whether the text mentions an amount of money in
// any of the recognized formats.
func (e *Extractor) ContainsMoney(text string) bool {
	if text == "" {
		return false
	}
	return moneyPattern.MatchString(text)
}

func boundaryBefore(s string, at int) bool {
	if at == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:at])
	return !isWordRune(r)
}

func boundaryAfter(s string, at int) bool {
	if at >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[at:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
