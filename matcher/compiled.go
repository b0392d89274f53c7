package matcher

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/viant/spdxmatch/corpus"
	"github.com/viant/spdxmatch/normalizer"
	"github.com/viant/spdxmatch/template"
)

// Compiled is a license matcher over normalized token runs
type Compiled struct {
	ID       string
	full     *regexp.Regexp
	prefix   *regexp.Regexp
	within   *regexp.Regexp
	required []string
	elements []element
}

// Compile builds a matcher from the license template, or from the license text when no template is defined
func Compile(license *corpus.License) (*Compiled, error) {
	tmpl := template.FromText(license.Text)
	if license.Template != "" {
		var err error
		if tmpl, err = template.Parse(license.Template); err != nil {
			return nil, fmt.Errorf("failed to parse %v template: %w", license.ID, err)
		}
	}
	return CompileTemplate(license.ID, tmpl)
}

// CompileTemplate builds a matcher from a parsed template
func CompileTemplate(id string, tmpl *template.Template) (*Compiled, error) {
	pattern := tmpl.MatchPattern()
	result := &Compiled{ID: id, elements: buildElements(tmpl.Nodes)}
	var err error
	if result.full, err = regexp.Compile("^(?:" + pattern + ")$"); err != nil {
		return nil, fmt.Errorf("failed to compile %v matcher: %w", id, err)
	}
	if result.prefix, err = regexp.Compile("^(?:" + pattern + ")"); err != nil {
		return nil, fmt.Errorf("failed to compile %v matcher: %w", id, err)
	}
	if result.within, err = regexp.Compile("(?:" + pattern + ")(?: |$)"); err != nil {
		return nil, fmt.Errorf("failed to compile %v matcher: %w", id, err)
	}
	for _, fragment := range tmpl.Render(template.RequiredPolicy) {
		result.required = append(result.required, fragment.Tokens().Texts()...)
	}
	return result, nil
}

// Required returns tokens every matching text contains, in order
func (c *Compiled) Required() []string {
	return c.required
}

// Match compares the whole run with the license
func (c *Compiled) Match(run normalizer.Run) *MatchResult {
	subject, offsets := run.Subject()
	if c.hasRequired(run) && c.full.MatchString(subject) {
		return &MatchResult{}
	}
	if loc := c.prefix.FindStringIndex(subject); loc != nil && loc[1] < len(subject) {
		index := sort.SearchInts(offsets, loc[1])
		if index < len(run) {
			return additionalText(run[index])
		}
	}
	return c.diagnose(run)
}

// Within returns true when a contiguous part of the run matches the license
func (c *Compiled) Within(run normalizer.Run) bool {
	if !c.hasRequired(run) {
		return false
	}
	subject, _ := run.Subject()
	return c.within.MatchString(subject)
}

// hasRequired rejects runs missing any required token in order
func (c *Compiled) hasRequired(run normalizer.Run) bool {
	index := 0
	for _, token := range c.required {
		for index < len(run) && run[index].Text != token {
			index++
		}
		if index == len(run) {
			return false
		}
		index++
	}
	return true
}
