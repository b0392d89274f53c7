package expression

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	and               = "AND"
	or                = "OR"
	with              = "WITH"
	none              = "NONE"
	noAssertion       = "NOASSERTION"
	licenseRefPrefix  = "LicenseRef-"
	documentRefPrefix = "DocumentRef-"
)

// ErrSyntax reports a malformed license expression
var ErrSyntax = errors.New("invalid license expression")

type token struct {
	value  string
	offset int
}

type parser struct {
	tokens []token
	index  int
	depth  int
}

// Parse parses license expression syntax: ids, AND, OR, parentheses, NONE and NOASSERTION.
// AND binds tighter than OR.
func Parse(text string) (Expression, error) {
	p := &parser{tokens: tokenize(text)}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	result, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.index < len(p.tokens) {
		return nil, p.error(p.tokens[p.index], "unexpected token")
	}
	return result, nil
}

func tokenize(text string) []token {
	var result []token
	start := -1
	flush := func(end int) {
		if start != -1 {
			result = append(result, token{value: text[start:end], offset: start})
			start = -1
		}
	}
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case r == '(' || r == ')':
			flush(i)
			result = append(result, token{value: string(r), offset: i})
		case start == -1:
			start = i
		}
	}
	flush(len(text))
	return result
}

func (p *parser) parseOr() (Expression, error) {
	members, err := p.parseSequence(or, p.parseAnd)
	if err != nil || len(members) == 1 {
		return first(members), err
	}
	return NewDisjunctive(members...), nil
}

func (p *parser) parseAnd() (Expression, error) {
	members, err := p.parseSequence(and, p.parsePrimary)
	if err != nil || len(members) == 1 {
		return first(members), err
	}
	return NewConjunctive(members...), nil
}

func (p *parser) parseSequence(operator string, parseOperand func() (Expression, error)) ([]Expression, error) {
	var result []Expression
	for {
		operand, err := parseOperand()
		if err != nil {
			return nil, err
		}
		result = append(result, operand)
		if p.index >= len(p.tokens) || keyword(p.tokens[p.index].value) != operator {
			return result, nil
		}
		p.index++
	}
}

func (p *parser) parsePrimary() (Expression, error) {
	if p.index >= len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	current := p.tokens[p.index]
	p.index++
	switch current.value {
	case "(":
		if p.depth++; p.depth > MaxDepth {
			return nil, fmt.Errorf("%w: %v", ErrDepthExceeded, MaxDepth)
		}
		result, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.index >= len(p.tokens) || p.tokens[p.index].value != ")" {
			return nil, fmt.Errorf("%w: missing closing parenthesis for offset %d", ErrSyntax, current.offset)
		}
		p.index++
		p.depth--
		return result, nil
	case ")":
		return nil, p.error(current, "unexpected closing parenthesis")
	case none, noAssertion:
		if len(p.tokens) != 1 {
			return nil, p.error(current, current.value+" cannot be combined with other licenses")
		}
		if current.value == none {
			return None{}, nil
		}
		return NoAssertion{}, nil
	}
	switch keyword(current.value) {
	case with:
		return nil, p.error(current, "license exceptions are not supported")
	case and, or:
		return nil, p.error(current, "unexpected operator")
	}
	if !isID(current.value) {
		return nil, p.error(current, "invalid license id")
	}
	if p.index < len(p.tokens) && keyword(p.tokens[p.index].value) == with {
		return nil, p.error(p.tokens[p.index], "license exceptions are not supported")
	}
	if IsExtractedID(current.value) {
		return &Extracted{ID: current.value}, nil
	}
	return &Listed{ID: current.value}, nil
}

func (p *parser) error(t token, reason string) error {
	return fmt.Errorf("%w: %v %q at offset %d", ErrSyntax, reason, t.value, t.offset)
}

func keyword(value string) string {
	switch value {
	case and, "and":
		return and
	case or, "or":
		return or
	case with, "with":
		return with
	}
	return ""
}

func isID(value string) bool {
	for _, r := range value {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(".-+:", r)) {
			return false
		}
	}
	return !strings.HasPrefix(value, documentRefPrefix) || IsExtractedID(value)
}

func first(members []Expression) Expression {
	if len(members) == 0 {
		return nil
	}
	return members[0]
}
