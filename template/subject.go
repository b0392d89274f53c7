package template

import (
	"regexp"
	"regexp/syntax"
	"strconv"
	"strings"
	"unicode"

	"github.com/viant/spdxmatch/normalizer"
)

// maxClassScan bounds the runes inspected when classifying a character class
const maxClassScan = 256

// subjectExpression rewrites a match expression written against license text so
// that it matches the normalized subject instead: literal runs are tokenized and
// joined with single spaces, punctuation gets its own token slot and equivalent
// phrases accept their canonical token. The expression is returned unchanged when
// it cannot be rewritten.
func subjectExpression(expr string) string {
	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return expr
	}
	builder := &strings.Builder{}
	writeSubject(builder, parsed)
	result := builder.String()
	if _, err = regexp.Compile(result); err != nil {
		return expr
	}
	return result
}

func writeSubject(builder *strings.Builder, re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpLiteral:
		builder.WriteString(literalSubject(string(re.Rune)))
	case syntax.OpCharClass:
		if punctuationClass(re.Rune) {
			builder.WriteString(" ?")
		}
		builder.WriteString(re.String())
	case syntax.OpCapture:
		builder.WriteString("(?:")
		writeSubject(builder, re.Sub[0])
		builder.WriteString(")")
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		builder.WriteString("(?:")
		writeSubject(builder, re.Sub[0])
		builder.WriteString(")")
		builder.WriteString(repeatSuffix(re))
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			writeSubject(builder, sub)
		}
	case syntax.OpAlternate:
		builder.WriteString("(?:")
		for i, sub := range re.Sub {
			if i > 0 {
				builder.WriteByte('|')
			}
			writeSubject(builder, sub)
		}
		builder.WriteString(")")
	default:
		builder.WriteString(re.String())
	}
}

// literalSubject renders literal text as subject tokens. A run starting with a word
// may continue a token of the preceding expression, so it gets no leading space.
func literalSubject(text string) string {
	tokens := normalizer.Tokenize(text)
	texts := tokens.Texts()
	builder := strings.Builder{}
	leadingSpace := strings.IndexFunc(text, unicode.IsSpace) == 0
	for i := 0; i < len(texts); {
		switch {
		case i > 0 || leadingSpace:
			builder.WriteByte(' ')
		case !tokens[i].IsWord():
			builder.WriteString(" ?")
		}
		if canonical, size, ok := normalizer.Equivalence(texts[i:]); ok {
			builder.WriteString("(?:" + regexp.QuoteMeta(canonical) + "|" + quoteTokens(texts[i:i+size]) + ")")
			i += size
			continue
		}
		builder.WriteString(regexp.QuoteMeta(texts[i]))
		i++
	}
	if len(texts) == 0 && leadingSpace {
		builder.WriteByte(' ')
	}
	if len(texts) > 0 && strings.TrimRightFunc(text, unicode.IsSpace) != text {
		builder.WriteByte(' ')
	}
	return builder.String()
}

func quoteTokens(texts []string) string {
	quoted := make([]string, len(texts))
	for i, text := range texts {
		quoted[i] = regexp.QuoteMeta(text)
	}
	return strings.Join(quoted, " ")
}

// punctuationClass reports a small character class holding only punctuation
func punctuationClass(ranges []rune) bool {
	if len(ranges) == 0 {
		return false
	}
	count := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1]; r++ {
			if count++; count > maxClassScan {
				return false
			}
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
				return false
			}
		}
	}
	return true
}

func repeatSuffix(re *syntax.Regexp) string {
	var suffix string
	switch re.Op {
	case syntax.OpStar:
		suffix = "*"
	case syntax.OpPlus:
		suffix = "+"
	case syntax.OpQuest:
		suffix = "?"
	default:
		switch {
		case re.Max == -1:
			suffix = "{" + strconv.Itoa(re.Min) + ",}"
		case re.Max == re.Min:
			suffix = "{" + strconv.Itoa(re.Min) + "}"
		default:
			suffix = "{" + strconv.Itoa(re.Min) + "," + strconv.Itoa(re.Max) + "}"
		}
	}
	if re.Flags&syntax.NonGreedy != 0 {
		suffix += "?"
	}
	return suffix
}
