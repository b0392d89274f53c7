package template

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/viant/spdxmatch/normalizer"
)

const (
	directiveStart = "<<"
	directiveEnd   = ">>"

	directiveBeginOptional = "beginOptional"
	directiveEndOptional   = "endOptional"
	directiveVariable      = "var"

	// MaxDepth bounds optional region nesting
	MaxDepth = 32

	// maxRepeat is the largest repeat count RE2 accepts
	maxRepeat = 1000

	// regexOperators mark a match alternative as a regular expression
	regexOperators = `*+?[]{}|\^$`
)

var repeatExpr = regexp.MustCompile(`\{(\d+)(,(\d*))?\}`)

type frame struct {
	optional *Optional
	children []Node
}

type parser struct {
	source    string
	stack     []*frame
	last      *Text
	lineStart bool
}

// Parse builds a template tree from source. Malformed directives are reported as *SyntaxError.
func Parse(source string) (*Template, error) {
	p := &parser{source: source, stack: []*frame{{}}, lineStart: true}
	offset := 0
	for offset < len(source) {
		start := strings.Index(source[offset:], directiveStart)
		if start == -1 {
			p.appendText(source[offset:])
			break
		}
		start += offset
		p.appendText(source[offset:start])
		end := strings.Index(source[start+len(directiveStart):], directiveEnd)
		if end == -1 {
			return nil, p.syntaxError(start, source[start:], "unterminated directive")
		}
		end += start + len(directiveStart)
		if err := p.directive(start, source[start+len(directiveStart):end]); err != nil {
			return nil, err
		}
		offset = end + len(directiveEnd)
	}
	if len(p.stack) > 1 {
		open := p.stack[len(p.stack)-1].optional
		return nil, &SyntaxError{Directive: directiveBeginOptional, Position: open.Position, Reason: "missing endOptional"}
	}
	return &Template{Source: source, Nodes: p.stack[0].children}, nil
}

func (p *parser) appendText(text string) {
	if text == "" {
		return
	}
	top := p.stack[len(p.stack)-1]
	if count := len(top.children); count > 0 {
		if prev, ok := top.children[count-1].(*Text); ok {
			prev.Value += text
			p.lineStart = strings.HasSuffix(prev.Value, "\n")
			return
		}
	}
	p.continueLine(text)
	node := &Text{Value: text, LineStart: p.lineStart, LineEnd: true}
	top.children = append(top.children, node)
	p.last = node
	p.lineStart = strings.HasSuffix(text, "\n")
}

// continueLine marks the previous text as not ending its line when next content follows on it
func (p *parser) continueLine(next string) {
	if p.last != nil && !p.lineStart && !strings.HasPrefix(next, "\n") {
		p.last.LineEnd = false
	}
}

func (p *parser) append(n Node) {
	top := p.stack[len(p.stack)-1]
	top.children = append(top.children, n)
}

func (p *parser) directive(offset int, body string) error {
	raw := directiveStart + body + directiveEnd
	parts := splitOutsideQuotes(body, ';')
	kind := strings.TrimSpace(parts[0])
	attributes, reason := parseAttributes(parts[1:])
	if reason != "" {
		return p.syntaxError(offset, raw, reason)
	}
	switch kind {
	case directiveBeginOptional:
		if len(p.stack) > MaxDepth {
			return p.syntaxError(offset, raw, "optional regions nested deeper than "+strconv.Itoa(MaxDepth))
		}
		optional := &Optional{Name: attributes["name"], Position: p.position(offset)}
		p.stack = append(p.stack, &frame{optional: optional})
	case directiveEndOptional:
		if len(p.stack) == 1 {
			return p.syntaxError(offset, raw, "endOptional without beginOptional")
		}
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		top.optional.Children = top.children
		p.append(top.optional)
	case directiveVariable:
		variable, reason := newVariable(attributes)
		if reason != "" {
			return p.syntaxError(offset, raw, reason)
		}
		variable.Position = p.position(offset)
		p.continueLine("")
		p.append(variable)
		p.lineStart = false
	default:
		return p.syntaxError(offset, raw, "unknown directive "+strconv.Quote(kind))
	}
	return nil
}

func newVariable(attributes map[string]string) (*Variable, string) {
	name, ok := attributes["name"]
	if !ok || name == "" {
		return nil, "var is missing name attribute"
	}
	match, ok := attributes["match"]
	if !ok {
		return nil, "var is missing match attribute"
	}
	variable := &Variable{
		Name:     name,
		Original: attributes["original"],
		Match:    match,
		Example:  attributes["example"],
	}
	for _, value := range splitAlternatives(match) {
		alternative := Alternative{Value: value, Literal: !strings.ContainsAny(value, regexOperators)}
		if !alternative.Literal {
			value = clampRepeats(value)
			if _, err := regexp.Compile(value); err != nil {
				return nil, "invalid match expression: " + err.Error()
			}
			alternative.Value = value
		}
		variable.Alternatives = append(variable.Alternatives, alternative)
	}
	return variable, ""
}

// parseAttributes parses key="value" pairs, returns a reason when malformed
func parseAttributes(parts []string) (map[string]string, string) {
	result := map[string]string{}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		index := strings.Index(part, "=")
		if index == -1 {
			return nil, "malformed attribute " + strconv.Quote(part)
		}
		key := strings.TrimSpace(part[:index])
		value := strings.TrimSpace(part[index+1:])
		if strings.HasPrefix(value, `"`) {
			if len(value) < 2 || !strings.HasSuffix(value, `"`) {
				return nil, "unterminated attribute value for " + key
			}
			value = strings.ReplaceAll(value[1:len(value)-1], `\"`, `"`)
		}
		result[key] = value
	}
	return result, ""
}

// splitOutsideQuotes splits text on separator ignoring separators inside double quotes
func splitOutsideQuotes(text string, separator byte) []string {
	var result []string
	quoted, escaped := false, false
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == separator && !quoted:
			result = append(result, text[start:i])
			start = i + 1
		}
	}
	return append(result, text[start:])
}

// splitAlternatives splits a match expression on top level "|"
func splitAlternatives(expr string) []string {
	var result []string
	depth, start := 0, 0
	inClass, escaped := false, false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == '|' && depth == 0:
			result = append(result, expr[start:i])
			start = i + 1
		}
	}
	return append(result, expr[start:])
}

// clampRepeats rewrites repeat counts RE2 rejects into open bounds
func clampRepeats(expr string) string {
	return repeatExpr.ReplaceAllStringFunc(expr, func(repeat string) string {
		groups := repeatExpr.FindStringSubmatch(repeat)
		lower, _ := strconv.Atoi(groups[1])
		upper := lower
		if groups[2] != "" {
			upper = maxRepeat + 1
			if groups[3] != "" {
				upper, _ = strconv.Atoi(groups[3])
			}
		}
		if lower <= maxRepeat && upper <= maxRepeat {
			return repeat
		}
		if lower > maxRepeat {
			lower = maxRepeat
		}
		return "{" + strconv.Itoa(lower) + ",}"
	})
}

func (p *parser) position(offset int) normalizer.Position {
	prefix := p.source[:offset]
	line := strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndex(prefix, "\n") + 1
	return normalizer.Position{Line: line, Column: utf8.RuneCountInString(prefix[lineStart:])}
}

func (p *parser) syntaxError(offset int, directive, reason string) error {
	return &SyntaxError{Directive: directive, Position: p.position(offset), Reason: reason}
}
