package template

import (
	"regexp"
	"strings"

	"github.com/viant/spdxmatch/normalizer"
)

// Pattern assembles fragments into one regular expression over a normalized run
// subject (see normalizer.Run.Subject): each token is preceded by a single space,
// so the pattern is whitespace and case insensitive by construction.
func Pattern(fragments []Fragment) string {
	builder := strings.Builder{}
	for _, fragment := range fragments {
		switch fragment.Kind {
		case FragmentText:
			builder.WriteString(TokenPattern(fragment.Tokens()))
		default:
			builder.WriteString(fragment.Value)
		}
	}
	return builder.String()
}

// TokenPattern returns a pattern matching exactly the run tokens
func TokenPattern(run normalizer.Run) string {
	builder := strings.Builder{}
	for _, token := range run {
		builder.WriteByte(' ')
		builder.WriteString(regexp.QuoteMeta(token.Text))
	}
	return builder.String()
}

func variablePattern(variable *Variable) string {
	alternatives := make([]string, 0, len(variable.Alternatives))
	for _, alternative := range variable.Alternatives {
		if alternative.Literal {
			alternatives = append(alternatives, TokenPattern(normalizer.NormalizeFragment(alternative.Value, false, false)))
			continue
		}
		expr := " (?i:" + subjectExpression(alternative.Value) + ")"
		if matchesEmpty(alternative.Value) {
			expr = "(?:" + expr + ")?"
		}
		alternatives = append(alternatives, expr)
	}
	return "(?:" + strings.Join(alternatives, "|") + ")"
}

func matchesEmpty(expr string) bool {
	compiled, err := regexp.Compile("^(?:" + expr + ")$")
	return err == nil && compiled.MatchString("")
}
