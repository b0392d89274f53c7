package scanner

import (
	"sort"

	"github.com/viant/spdxmatch/expression"
)

// Finding lists standard licenses found within one comment block or text file
type Finding struct {
	Line     int      `json:"line" yaml:"line"`
	Licenses []string `json:"licenses" yaml:"licenses"`
}

// Declaration is an SPDX-License-Identifier tag
type Declaration struct {
	Line       int                   `json:"line" yaml:"line"`
	Expression string                `json:"expression" yaml:"expression"`
	Parsed     expression.Expression `json:"-" yaml:"-"`
	Error      string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report describes licensing information found in one file
type Report struct {
	Path        string         `json:"path" yaml:"path"`
	Language    string         `json:"language" yaml:"language"`
	LicenseFile bool           `json:"licenseFile,omitempty" yaml:"licenseFile,omitempty"`
	Findings    []*Finding     `json:"findings,omitempty" yaml:"findings,omitempty"`
	Declared    []*Declaration `json:"declared,omitempty" yaml:"declared,omitempty"`
}

// Licenses returns sorted distinct ids of all findings
func (r *Report) Licenses() []string {
	unique := map[string]bool{}
	var result []string
	for _, finding := range r.Findings {
		for _, id := range finding.Licenses {
			if !unique[id] {
				unique[id] = true
				result = append(result, id)
			}
		}
	}
	sort.Strings(result)
	return result
}

// Empty returns true when neither matched nor declared licenses were found
func (r *Report) Empty() bool {
	return len(r.Findings) == 0 && len(r.Declared) == 0
}
