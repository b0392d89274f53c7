package matcher

import (
	"github.com/viant/spdxmatch/normalizer"
)

// MatchResult describes the outcome of comparing text with a standard license
type MatchResult struct {
	DifferenceFound bool                 `json:"differenceFound" yaml:"differenceFound"`
	Message         string               `json:"message,omitempty" yaml:"message,omitempty"`
	Location        *normalizer.Position `json:"location,omitempty" yaml:"location,omitempty"`
}

// Matched returns true when no difference was found
func (r *MatchResult) Matched() bool {
	return !r.DifferenceFound
}
