// Package expression models parsed license expressions and compares them
// across documents.
package expression

import (
	"strings"
)

// Expression is one of Listed, Extracted, Conjunctive, Disjunctive, None or NoAssertion
type Expression interface {
	String() string
	expression()
}

// Listed is a license from the standard license list
type Listed struct {
	ID string
}

// Extracted is a document specific license, identified by LicenseRef- id
type Extracted struct {
	ID string
}

// Conjunctive requires all members, member order is not significant
type Conjunctive struct {
	Members []Expression
}

// Disjunctive requires any member, member order is not significant
type Disjunctive struct {
	Members []Expression
}

// None states that no license applies
type None struct{}

// NoAssertion states that no license information is asserted
type NoAssertion struct{}

func (*Listed) expression()      {}
func (*Extracted) expression()   {}
func (*Conjunctive) expression() {}
func (*Disjunctive) expression() {}
func (None) expression()         {}
func (NoAssertion) expression()  {}

func (l *Listed) String() string    { return l.ID }
func (e *Extracted) String() string { return e.ID }
func (None) String() string         { return none }
func (NoAssertion) String() string  { return noAssertion }

func (c *Conjunctive) String() string {
	return join(c.Members, and)
}

func (d *Disjunctive) String() string {
	return join(d.Members, or)
}

func join(members []Expression, operator string) string {
	parts := make([]string, 0, len(members))
	for _, member := range members {
		text := member.String()
		if _, ok := member.(*Disjunctive); ok && operator == and {
			text = "(" + text + ")"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " "+operator+" ")
}

// NewConjunctive creates a conjunctive expression, nested conjunctive members are flattened
func NewConjunctive(members ...Expression) *Conjunctive {
	result := &Conjunctive{}
	for _, member := range members {
		if nested, ok := member.(*Conjunctive); ok {
			result.Members = append(result.Members, nested.Members...)
			continue
		}
		result.Members = append(result.Members, member)
	}
	return result
}

// NewDisjunctive creates a disjunctive expression, nested disjunctive members are flattened
func NewDisjunctive(members ...Expression) *Disjunctive {
	result := &Disjunctive{}
	for _, member := range members {
		if nested, ok := member.(*Disjunctive); ok {
			result.Members = append(result.Members, nested.Members...)
			continue
		}
		result.Members = append(result.Members, member)
	}
	return result
}

// IsExtractedID returns true for LicenseRef- ids, optionally qualified by a DocumentRef- prefix
func IsExtractedID(id string) bool {
	if strings.HasPrefix(id, documentRefPrefix) {
		index := strings.Index(id, ":")
		if index == -1 {
			return false
		}
		id = id[index+1:]
	}
	return strings.HasPrefix(id, licenseRefPrefix) && len(id) > len(licenseRefPrefix)
}
