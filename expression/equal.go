package expression

import (
	"errors"
	"fmt"
	"strings"
)

// MaxDepth bounds expression nesting for comparison and parsing
const MaxDepth = 64

var (
	// ErrSameExpression reports a comparison of an expression with itself
	ErrSameExpression = errors.New("expressions are the same object")
	// ErrDepthExceeded reports nesting deeper than MaxDepth
	ErrDepthExceeded = errors.New("expression nesting exceeds limit")
)

// Translation maps Extracted ids of one document to Extracted ids of another document
// for the same license text. It is only read.
type Translation map[string]string

type comparer struct {
	translation Translation
}

// Equal returns true when a and b describe the same licensing.
// Extracted ids are compared through translation, an id with no entry is not equal to anything.
// Passing the same expression object twice is an error, shared sub-expressions are not.
func Equal(a, b Expression, translation Translation) (bool, error) {
	if sameObject(a, b) {
		return false, fmt.Errorf("%w: %v", ErrSameExpression, a)
	}
	c := &comparer{translation: translation}
	return c.equal(a, b, 0)
}

func (c *comparer) equal(a, b Expression, depth int) (bool, error) {
	if depth > MaxDepth {
		return false, fmt.Errorf("%w: %v", ErrDepthExceeded, MaxDepth)
	}
	switch actual := a.(type) {
	case *Listed:
		other, ok := b.(*Listed)
		return ok && strings.EqualFold(actual.ID, other.ID), nil
	case *Extracted:
		other, ok := b.(*Extracted)
		if !ok {
			return false, nil
		}
		translated, ok := c.translation[actual.ID]
		return ok && translated == other.ID, nil
	case *Conjunctive:
		other, ok := b.(*Conjunctive)
		if !ok {
			return false, nil
		}
		return c.members(actual.Members, other.Members, depth)
	case *Disjunctive:
		other, ok := b.(*Disjunctive)
		if !ok {
			return false, nil
		}
		return c.members(actual.Members, other.Members, depth)
	case None:
		_, ok := b.(None)
		return ok, nil
	case NoAssertion:
		_, ok := b.(NoAssertion)
		return ok, nil
	}
	return false, nil
}

// members returns true when a perfect matching of pairwise equal members exists
func (c *comparer) members(a, b []Expression, depth int) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	equal := make([][]bool, len(a))
	for i := range a {
		equal[i] = make([]bool, len(b))
		candidates := 0
		for j := range b {
			ok, err := c.equal(a[i], b[j], depth+1)
			if err != nil {
				return false, err
			}
			if ok {
				equal[i][j] = true
				candidates++
			}
		}
		if candidates == 0 {
			return false, nil
		}
	}
	owner := make([]int, len(b))
	for j := range owner {
		owner[j] = -1
	}
	for i := range a {
		if !augment(i, equal, owner, make([]bool, len(b))) {
			return false, nil
		}
	}
	return true, nil
}

// augment finds an augmenting path for member i, owner maps b members to matched a members
func augment(i int, equal [][]bool, owner []int, visited []bool) bool {
	for j, ok := range equal[i] {
		if !ok || visited[j] {
			continue
		}
		visited[j] = true
		if owner[j] == -1 || augment(owner[j], equal, owner, visited) {
			owner[j] = i
			return true
		}
	}
	return false
}

func sameObject(a, b Expression) bool {
	switch actual := a.(type) {
	case *Listed:
		other, ok := b.(*Listed)
		return ok && actual == other
	case *Extracted:
		other, ok := b.(*Extracted)
		return ok && actual == other
	case *Conjunctive:
		other, ok := b.(*Conjunctive)
		return ok && actual == other
	case *Disjunctive:
		other, ok := b.(*Disjunctive)
		return ok && actual == other
	}
	return false
}
