// Package normalizer turns free-form license text into a canonical token run.
//
// Normalization is whitespace, case, dash-variant and comment-wrapper insensitive,
// but keeps punctuation: every punctuation character becomes its own token.
// Multi-word legal synonyms (for example "copyright owner" and "copyright holder")
// collapse into a single canonical token.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize tokenizes text. It never fails and keeps no state between calls.
func Normalize(text string) Run {
	return normalize(text, true, true)
}

// NormalizeFragment tokenizes a piece of a larger text. lineStart tells whether
// the fragment begins at the start of a line and lineEnd whether it runs to the
// end of one: comment wrappers are only recognised at those line edges.
func NormalizeFragment(text string, lineStart, lineEnd bool) Run {
	return normalize(text, lineStart, lineEnd)
}

// Tokenize splits text into folded tokens, without comment handling or phrase equivalences
func Tokenize(text string) Run {
	folder := cases.Fold()
	var tokens Run
	for lineIndex, line := range strings.Split(text, "\n") {
		tokens = tokenizeLine([]rune(line), lineIndex+1, folder, tokens)
	}
	return tokens
}

func normalize(text string, lineStart, lineEnd bool) Run {
	folder := cases.Fold()
	state := &commentState{}
	lines := strings.Split(text, "\n")
	var tokens Run
	for lineIndex, line := range lines {
		runes := []rune(line)
		if lineIndex > 0 || lineStart {
			state.blankLeading(runes)
		}
		if lineIndex < len(lines)-1 || lineEnd {
			state.blankTrailing(runes)
		}
		tokens = tokenizeLine(runes, lineIndex+1, folder, tokens)
	}
	return applyEquivalences(tokens)
}

// Render returns the run as normalized text
func Render(run Run) string {
	return run.String()
}

// Equivalent returns true when both texts normalize to the same token run
func Equivalent(text, other string) bool {
	return Normalize(text).Equal(Normalize(other))
}

func tokenizeLine(line []rune, lineNumber int, folder cases.Caser, tokens Run) Run {
	for i := 0; i < len(line); {
		r := canonicalRune(line[i])
		if r == ' ' {
			i++
			continue
		}
		start := i
		if !isWordRune(r) {
			tokens = append(tokens, Token{Text: string(r), Position: Position{Line: lineNumber, Column: start}})
			i++
			continue
		}
		builder := strings.Builder{}
		for i < len(line) {
			r = canonicalRune(line[i])
			if isWordRune(r) {
				builder.WriteRune(r)
				i++
				continue
			}
			if r == '-' && i+1 < len(line) && isWordRune(canonicalRune(line[i+1])) {
				builder.WriteRune(r)
				i++
				continue
			}
			break
		}
		tokens = append(tokens, Token{Text: folder.String(builder.String()), Position: Position{Line: lineNumber, Column: start}})
	}
	return tokens
}

// canonicalRune maps whitespace, dash, comma and quote variants to one form
func canonicalRune(r rune) rune {
	switch {
	case isSpace(r):
		return ' '
	case isDash(r):
		return '-'
	}
	switch r {
	case '\uff0c', '\u3001', '\ufe50', '\ufe51', '\uff64', '\u060c':
		return ','
	case '\u201c', '\u201d', '\u201e', '\u201f', '\u00ab', '\u00bb', '\u2033', '\uff02':
		return '"'
	case '\u2018', '\u2019', '\u201a', '\u201b', '\u2032', '\uff07':
		return '\''
	}
	return r
}

func isSpace(r rune) bool {
	if unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) {
		return true
	}
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u180e':
		return true
	}
	return false
}

func isDash(r rune) bool {
	switch r {
	case '\u2010', '\u2011', '\u2012', '\u2013', '\u2014', '\u2015', '\u2212', '\ufe58', '\ufe63', '\uff0d':
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_'
}
