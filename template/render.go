package template

import (
	"strings"

	"github.com/viant/spdxmatch/normalizer"
)

// OptionalHandling selects how optional regions render
type OptionalHandling int

const (
	// OptionalOriginal renders region content unconditionally
	OptionalOriginal OptionalHandling = iota
	// OptionalOmit drops regions entirely
	OptionalOmit
	// OptionalRegexUsingTokens renders a token pattern matching nothing or the region content
	OptionalRegexUsingTokens
)

// VariableHandling selects how variables render
type VariableHandling int

const (
	// VariableOriginal renders the variable original text
	VariableOriginal VariableHandling = iota
	// VariableOmit drops variables
	VariableOmit
	// VariableRegex renders a pattern of the variable alternatives
	VariableRegex
)

// Policy combines the two independent render selectors
type Policy struct {
	Optional OptionalHandling
	Variable VariableHandling
}

var (
	// OriginalPolicy reconstructs the default license text
	OriginalPolicy = Policy{Optional: OptionalOriginal, Variable: VariableOriginal}
	// RequiredPolicy keeps only text every conforming license statement contains
	RequiredPolicy = Policy{Optional: OptionalOmit, Variable: VariableOmit}
	// MatchPolicy renders token patterns used by compiled matchers
	MatchPolicy = Policy{Optional: OptionalRegexUsingTokens, Variable: VariableRegex}
)

// FragmentKind tells apart literal text from pattern fragments
type FragmentKind int

const (
	FragmentText FragmentKind = iota
	FragmentPattern
)

// Fragment is a render output unit, Node is the template node that produced it
type Fragment struct {
	Kind  FragmentKind
	Value string
	Node  Node
}

// Tokens normalizes a text fragment. Text node fragments honor the node line
// edges, variable originals are treated as sitting inside a line.
func (f Fragment) Tokens() normalizer.Run {
	if text, ok := f.Node.(*Text); ok {
		return normalizer.NormalizeFragment(f.Value, text.LineStart, text.LineEnd)
	}
	return normalizer.NormalizeFragment(f.Value, false, false)
}

type renderer struct {
	policy    Policy
	fragments []Fragment
	pending   strings.Builder
	origin    Node
}

// Render walks the template once; output is split at every optional and variable boundary
func (t *Template) Render(policy Policy) []Fragment {
	return render(t.Nodes, policy)
}

// MatchPattern returns the template token pattern, see Pattern
func (t *Template) MatchPattern() string {
	return Pattern(t.Render(MatchPolicy))
}

// Join concatenates fragment values
func Join(fragments []Fragment) string {
	builder := strings.Builder{}
	for _, fragment := range fragments {
		builder.WriteString(fragment.Value)
	}
	return builder.String()
}

func render(nodes []Node, policy Policy) []Fragment {
	r := &renderer{policy: policy}
	r.render(nodes)
	r.flush()
	return r.fragments
}

func (r *renderer) render(nodes []Node) {
	for _, n := range nodes {
		switch actual := n.(type) {
		case *Text:
			if r.origin == nil {
				r.origin = actual
			}
			r.pending.WriteString(actual.Value)
		case *Optional:
			r.flush()
			switch r.policy.Optional {
			case OptionalOriginal:
				r.render(actual.Children)
				r.flush()
			case OptionalRegexUsingTokens:
				inner := Pattern(render(actual.Children, r.policy))
				r.emit(Fragment{Kind: FragmentPattern, Value: "(?:" + inner + ")?", Node: actual})
			}
		case *Variable:
			r.flush()
			switch r.policy.Variable {
			case VariableOriginal:
				if actual.Original != "" {
					r.emit(Fragment{Kind: FragmentText, Value: actual.Original, Node: actual})
				}
			case VariableRegex:
				r.emit(Fragment{Kind: FragmentPattern, Value: variablePattern(actual), Node: actual})
			}
		}
	}
}

func (r *renderer) flush() {
	if r.pending.Len() == 0 {
		return
	}
	r.emit(Fragment{Kind: FragmentText, Value: r.pending.String(), Node: r.origin})
	r.pending.Reset()
	r.origin = nil
}

func (r *renderer) emit(fragment Fragment) {
	r.fragments = append(r.fragments, fragment)
}
