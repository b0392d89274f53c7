package expression_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/spdxmatch/expression"
)

var listedIDs = []string{"MIT", "Apache-2.0", "BSD-2-Clause", "BSD-3-Clause", "GPL-2.0-only", "GPL-3.0-only",
	"LGPL-2.1-only", "MPL-2.0", "ISC", "EPL-2.0", "Zlib"}

// members returns 21 members: listed ids followed by ten document specific ids
func members(document string) []expression.Expression {
	var result []expression.Expression
	for _, id := range listedIDs {
		result = append(result, &expression.Listed{ID: id})
	}
	for i := 0; i < 10; i++ {
		result = append(result, &expression.Extracted{ID: fmt.Sprintf("LicenseRef-%v-%d", document, i)})
	}
	return result
}

func translation() expression.Translation {
	result := expression.Translation{}
	for i := 0; i < 10; i++ {
		result[fmt.Sprintf("LicenseRef-a-%d", i)] = fmt.Sprintf("LicenseRef-b-%d", i)
	}
	return result
}

func TestEqual_PermutationInvariance(t *testing.T) {
	a := &expression.Conjunctive{Members: members("a")}
	require.Len(t, a.Members, 21)
	random := rand.New(rand.NewSource(7))

	for round := 0; round < 5; round++ {
		shuffled := members("b")
		random.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		b := &expression.Conjunctive{Members: shuffled}

		equal, err := expression.Equal(a, b, translation())
		require.NoError(t, err)
		assert.True(t, equal, "round %d", round)

		for k := range shuffled {
			changed := append([]expression.Expression(nil), shuffled...)
			switch actual := changed[k].(type) {
			case *expression.Listed:
				changed[k] = &expression.Listed{ID: actual.ID + "-changed"}
			case *expression.Extracted:
				changed[k] = &expression.Extracted{ID: actual.ID + "-changed"}
			}
			equal, err := expression.Equal(a, &expression.Conjunctive{Members: changed}, translation())
			require.NoError(t, err)
			assert.False(t, equal, "member %v changed", shuffled[k])
		}
	}
}

func TestEqual(t *testing.T) {
	mit := func() expression.Expression { return &expression.Listed{ID: "MIT"} }
	isc := func() expression.Expression { return &expression.Listed{ID: "ISC"} }
	tests := []struct {
		description string
		a           expression.Expression
		b           expression.Expression
		translation expression.Translation
		expect      bool
	}{
		{description: "listed same id", a: mit(), b: &expression.Listed{ID: "mit"}, expect: true},
		{description: "listed different id", a: mit(), b: isc(), expect: false},
		{description: "extracted translated", a: &expression.Extracted{ID: "LicenseRef-1"}, b: &expression.Extracted{ID: "LicenseRef-9"},
			translation: expression.Translation{"LicenseRef-1": "LicenseRef-9"}, expect: true},
		{description: "extracted wrong translation", a: &expression.Extracted{ID: "LicenseRef-1"}, b: &expression.Extracted{ID: "LicenseRef-2"},
			translation: expression.Translation{"LicenseRef-1": "LicenseRef-9"}, expect: false},
		{description: "extracted missing translation", a: &expression.Extracted{ID: "LicenseRef-1"}, b: &expression.Extracted{ID: "LicenseRef-1"},
			translation: expression.Translation{}, expect: false},
		{description: "extracted nil translation", a: &expression.Extracted{ID: "LicenseRef-1"}, b: &expression.Extracted{ID: "LicenseRef-1"}, expect: false},
		{description: "translation is directional", a: &expression.Extracted{ID: "LicenseRef-9"}, b: &expression.Extracted{ID: "LicenseRef-1"},
			translation: expression.Translation{"LicenseRef-1": "LicenseRef-9"}, expect: false},
		{description: "listed vs extracted", a: mit(), b: &expression.Extracted{ID: "MIT"}, translation: expression.Translation{"MIT": "MIT"}, expect: false},
		{description: "conjunctive order", a: expression.NewConjunctive(mit(), isc()), b: expression.NewConjunctive(isc(), mit()), expect: true},
		{description: "disjunctive order", a: expression.NewDisjunctive(mit(), isc()), b: expression.NewDisjunctive(isc(), mit()), expect: true},
		{description: "conjunctive vs disjunctive", a: expression.NewConjunctive(mit(), isc()), b: expression.NewDisjunctive(mit(), isc()), expect: false},
		{description: "multiset counts", a: expression.NewConjunctive(mit(), mit(), isc()), b: expression.NewConjunctive(mit(), isc(), isc()), expect: false},
		{description: "size mismatch", a: expression.NewConjunctive(mit(), isc()), b: expression.NewConjunctive(mit(), isc(), mit()), expect: false},
		{description: "nested", a: expression.NewConjunctive(mit(), expression.NewDisjunctive(isc(), &expression.Listed{ID: "Zlib"})),
			b: expression.NewConjunctive(expression.NewDisjunctive(&expression.Listed{ID: "Zlib"}, isc()), mit()), expect: true},
		{description: "no assertion", a: expression.NoAssertion{}, b: expression.NoAssertion{}, expect: true},
		{description: "none", a: expression.None{}, b: expression.None{}, expect: true},
		{description: "none vs no assertion", a: expression.NoAssertion{}, b: expression.None{}, expect: false},
		{description: "no assertion vs listed", a: expression.NoAssertion{}, b: mit(), expect: false},
		{description: "listed vs none", a: mit(), b: expression.None{}, expect: false},
		{description: "none vs compound", a: expression.None{}, b: expression.NewConjunctive(mit()), expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			actual, err := expression.Equal(tt.a, tt.b, tt.translation)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, actual)
		})
	}
}

func TestEqual_SameObject(t *testing.T) {
	mit := &expression.Listed{ID: "MIT"}
	_, err := expression.Equal(mit, mit, nil)
	assert.True(t, errors.Is(err, expression.ErrSameExpression))

	conjunctive := expression.NewConjunctive(mit, &expression.Listed{ID: "ISC"})
	_, err = expression.Equal(conjunctive, conjunctive, nil)
	assert.True(t, errors.Is(err, expression.ErrSameExpression))

	equal, err := expression.Equal(conjunctive, expression.NewConjunctive(&expression.Listed{ID: "ISC"}, mit), nil)
	require.NoError(t, err)
	assert.True(t, equal)

	shared := expression.NewDisjunctive(conjunctive, &expression.Listed{ID: "Apache-2.0"})
	equal, err = expression.Equal(shared, expression.NewDisjunctive(&expression.Listed{ID: "Apache-2.0"}, conjunctive), nil)
	require.NoError(t, err)
	assert.True(t, equal)
}

func nested(depth int) expression.Expression {
	var result expression.Expression = &expression.Listed{ID: "MIT"}
	for i := 0; i < depth; i++ {
		if i%2 == 0 {
			result = &expression.Conjunctive{Members: []expression.Expression{result}}
		} else {
			result = &expression.Disjunctive{Members: []expression.Expression{result}}
		}
	}
	return result
}

func TestEqual_Depth(t *testing.T) {
	equal, err := expression.Equal(nested(expression.MaxDepth), nested(expression.MaxDepth), nil)
	require.NoError(t, err)
	assert.True(t, equal)

	_, err = expression.Equal(nested(expression.MaxDepth+2), nested(expression.MaxDepth+2), nil)
	assert.True(t, errors.Is(err, expression.ErrDepthExceeded))
}

func TestParse(t *testing.T) {
	tests := []struct {
		text       string
		expect     string
		expectType expression.Expression
	}{
		{text: "MIT", expect: "MIT", expectType: &expression.Listed{}},
		{text: "GPL-2.0+", expect: "GPL-2.0+", expectType: &expression.Listed{}},
		{text: "LicenseRef-foo", expect: "LicenseRef-foo", expectType: &expression.Extracted{}},
		{text: "DocumentRef-spdx-tool-1.2:LicenseRef-MIT-Style-2", expect: "DocumentRef-spdx-tool-1.2:LicenseRef-MIT-Style-2", expectType: &expression.Extracted{}},
		{text: "NONE", expect: "NONE", expectType: expression.None{}},
		{text: "NOASSERTION", expect: "NOASSERTION", expectType: expression.NoAssertion{}},
		{text: "MIT AND Apache-2.0 OR ISC", expect: "MIT AND Apache-2.0 OR ISC", expectType: &expression.Disjunctive{}},
		{text: "MIT OR Apache-2.0 AND ISC", expect: "MIT OR Apache-2.0 AND ISC", expectType: &expression.Disjunctive{}},
		{text: "MIT and (Apache-2.0 AND ISC)", expect: "MIT AND Apache-2.0 AND ISC", expectType: &expression.Conjunctive{}},
		{text: "(MIT or ISC) AND Zlib", expect: "(MIT OR ISC) AND Zlib", expectType: &expression.Conjunctive{}},
		{text: " ( ( MIT ) ) ", expect: "MIT", expectType: &expression.Listed{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			actual, err := expression.Parse(tt.text)
			require.NoError(t, err)
			assert.IsType(t, tt.expectType, actual)
			assert.Equal(t, tt.expect, actual.String())

			reparsed, err := expression.Parse(actual.String())
			require.NoError(t, err)
			equal, err := expression.Equal(actual, reparsed, nil)
			require.NoError(t, err)
			if _, ok := actual.(*expression.Extracted); !ok {
				assert.True(t, equal)
			}
		})
	}
}

func TestParse_Flatten(t *testing.T) {
	actual, err := expression.Parse("MIT AND (ISC AND (Zlib AND BSD-2-Clause))")
	require.NoError(t, err)
	conjunctive, ok := actual.(*expression.Conjunctive)
	require.True(t, ok)
	assert.Len(t, conjunctive.Members, 4)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		description string
		text        string
		expect      error
	}{
		{description: "empty", text: "  ", expect: expression.ErrSyntax},
		{description: "dangling operator", text: "MIT AND", expect: expression.ErrSyntax},
		{description: "double operator", text: "MIT OR OR ISC", expect: expression.ErrSyntax},
		{description: "unclosed parenthesis", text: "(MIT", expect: expression.ErrSyntax},
		{description: "unopened parenthesis", text: "MIT)", expect: expression.ErrSyntax},
		{description: "exception", text: "GPL-2.0-only WITH Classpath-exception-2.0", expect: expression.ErrSyntax},
		{description: "combined sentinel", text: "NONE OR MIT", expect: expression.ErrSyntax},
		{description: "invalid id", text: "MIT/ISC", expect: expression.ErrSyntax},
		{description: "document ref without license ref", text: "DocumentRef-x", expect: expression.ErrSyntax},
		{description: "too deep", text: strings.Repeat("(", expression.MaxDepth+1) + "MIT" + strings.Repeat(")", expression.MaxDepth+1), expect: expression.ErrDepthExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := expression.Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expect), err.Error())
		})
	}
}

func TestEqual_Parsed(t *testing.T) {
	a, err := expression.Parse("MIT AND (LicenseRef-a OR Apache-2.0)")
	require.NoError(t, err)
	b, err := expression.Parse("(Apache-2.0 OR LicenseRef-b) AND mit")
	require.NoError(t, err)

	equal, err := expression.Equal(a, b, expression.Translation{"LicenseRef-a": "LicenseRef-b"})
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = expression.Equal(a, b, nil)
	require.NoError(t, err)
	assert.False(t, equal)
}
