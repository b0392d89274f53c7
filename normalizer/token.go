package normalizer

import (
	"fmt"
	"strings"
)

// Position identifies a character in the source text.
// Line is 1-based, Column is a 0-based rune offset within the line.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token is a canonical (lowercase, equivalence-mapped) fragment of a text
type Token struct {
	Text     string
	Position Position // position of the first source character
}

// IsWord returns true for letter/digit tokens, false for punctuation
func (t Token) IsWord() bool {
	for _, r := range t.Text {
		return isWordRune(r)
	}
	return false
}

// Run is an ordered sequence of tokens produced by Normalize
type Run []Token

// Texts returns token texts
func (r Run) Texts() []string {
	result := make([]string, len(r))
	for i, token := range r {
		result[i] = token.Text
	}
	return result
}

// String renders the run as token texts separated by a single space
func (r Run) String() string {
	return strings.Join(r.Texts(), " ")
}

// Equal compares token texts, positions are ignored
func (r Run) Equal(other Run) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Text != other[i].Text {
			return false
		}
	}
	return true
}

// Subject renders the run in matching form: every token is prefixed by a single space.
// offsets[i] holds the byte offset of the space preceding token i.
func (r Run) Subject() (subject string, offsets []int) {
	builder := strings.Builder{}
	offsets = make([]int, len(r))
	for i, token := range r {
		offsets[i] = builder.Len()
		builder.WriteByte(' ')
		builder.WriteString(token.Text)
	}
	return builder.String(), offsets
}
