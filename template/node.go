package template

import (
	"github.com/viant/spdxmatch/normalizer"
)

// Node is a template tree element: *Text, *Optional or *Variable
type Node interface {
	node()
}

// Text is literal license text. LineStart is set when the text begins a line,
// LineEnd when no other template content follows it on its last line.
type Text struct {
	Value     string
	LineStart bool
	LineEnd   bool
}

// Tokens normalizes the text, comment wrappers count only at real line edges
func (t *Text) Tokens() normalizer.Run {
	return normalizer.NormalizeFragment(t.Value, t.LineStart, t.LineEnd)
}

// Optional is a region a conforming license text may omit
type Optional struct {
	Name     string
	Children []Node
	Position normalizer.Position
}

// Variable is a region a conforming license text may replace with any of its alternatives
type Variable struct {
	Name         string
	Original     string // default text
	Match        string // raw match attribute
	Example      string
	Alternatives []Alternative
	Position     normalizer.Position
}

// Alternative is one "|" separated branch of a variable match attribute.
// Literal alternatives are compared token by token, the others are
// regular expressions evaluated over normalized text.
type Alternative struct {
	Value   string
	Literal bool
}

func (*Text) node()     {}
func (*Optional) node() {}
func (*Variable) node() {}

// Template is a parsed license template
type Template struct {
	Source string
	Nodes  []Node
}

// FromText returns a template without optional or variable regions
func FromText(text string) *Template {
	return &Template{Source: text, Nodes: []Node{&Text{Value: text, LineStart: true, LineEnd: true}}}
}

// Variables returns all variables in document order
func (t *Template) Variables() []*Variable {
	var result []*Variable
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch actual := n.(type) {
			case *Variable:
				result = append(result, actual)
			case *Optional:
				walk(actual.Children)
			}
		}
	}
	walk(t.Nodes)
	return result
}
