package matcher

import (
	"fmt"

	"github.com/viant/spdxmatch/normalizer"
	"github.com/viant/spdxmatch/template"
)

type elementKind int

const (
	elementToken elementKind = iota
	elementOptional
	elementVariable
)

// element is a template node flattened to token granularity, used to locate differences
type element struct {
	kind     elementKind
	token    string
	children []element
}

func buildElements(nodes []template.Node) []element {
	var result []element
	for _, n := range nodes {
		switch actual := n.(type) {
		case *template.Text:
			for _, token := range actual.Tokens() {
				result = append(result, element{kind: elementToken, token: token.Text})
			}
		case *template.Optional:
			result = append(result, element{kind: elementOptional, children: buildElements(actual.Children)})
		case *template.Variable:
			result = append(result, element{kind: elementVariable})
		}
	}
	return result
}

// firstToken returns the first literal token of elements when it is not preceded by a variable
func firstToken(elements []element) string {
	for _, e := range elements {
		switch e.kind {
		case elementToken:
			return e.token
		case elementVariable:
			return ""
		}
	}
	return ""
}

// nextRequired returns the next token that must follow a variable
func nextRequired(elements []element) string {
	for _, e := range elements {
		if e.kind == elementToken {
			return e.token
		}
	}
	return ""
}

type walker struct {
	run    normalizer.Run
	pos    int
	result *MatchResult
}

// diagnose walks the run greedily against the template to report the first difference
func (c *Compiled) diagnose(run normalizer.Run) *MatchResult {
	w := &walker{run: run}
	if w.walk(c.elements, true) && w.pos < len(run) {
		return additionalText(run[w.pos])
	}
	if w.result != nil {
		return w.result
	}
	result := &MatchResult{DifferenceFound: true, Message: "text does not match the license template"}
	if len(run) > 0 {
		position := run[0].Position
		result.Location = &position
	}
	return result
}

func (w *walker) walk(elements []element, top bool) bool {
	for i, e := range elements {
		switch e.kind {
		case elementToken:
			if w.pos >= len(w.run) {
				if top {
					w.result = missingText(e.token, w.run)
				}
				return false
			}
			if w.run[w.pos].Text != e.token {
				if top {
					w.result = differentText(e.token, w.run[w.pos])
				}
				return false
			}
			w.pos++
		case elementOptional:
			first := firstToken(e.children)
			if first == "" || w.pos >= len(w.run) || w.run[w.pos].Text != first {
				continue
			}
			saved := w.pos
			if !w.walk(e.children, false) {
				w.pos = saved
			}
		case elementVariable:
			next := nextRequired(elements[i+1:])
			if next == "" {
				if top {
					w.pos = len(w.run)
				}
				continue
			}
			for w.pos < len(w.run) && w.run[w.pos].Text != next {
				w.pos++
			}
		}
	}
	return true
}

func additionalText(token normalizer.Token) *MatchResult {
	position := token.Position
	return &MatchResult{
		DifferenceFound: true,
		Message:         fmt.Sprintf("additional text found at %v starting with %q", position, token.Text),
		Location:        &position,
	}
}

func missingText(expected string, run normalizer.Run) *MatchResult {
	result := &MatchResult{DifferenceFound: true, Message: fmt.Sprintf("missing text %q at the end of the text", expected)}
	if len(run) > 0 {
		position := run[len(run)-1].Position
		result.Location = &position
	}
	return result
}

func differentText(expected string, actual normalizer.Token) *MatchResult {
	position := actual.Position
	return &MatchResult{
		DifferenceFound: true,
		Message:         fmt.Sprintf("missing text %q at %v, found %q", expected, position, actual.Text),
		Location:        &position,
	}
}
