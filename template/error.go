package template

import (
	"errors"
	"fmt"

	"github.com/viant/spdxmatch/normalizer"
)

// ErrSyntax is matched by every *SyntaxError
var ErrSyntax = errors.New("template syntax error")

// SyntaxError reports a malformed template directive
type SyntaxError struct {
	Directive string
	Position  normalizer.Position
	Reason    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at %v: %s in %q", ErrSyntax, e.Position, e.Reason, e.Directive)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
