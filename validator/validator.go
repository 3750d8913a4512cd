// Package validator checks resolved state diagrams for structural problems.
package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"facette.io/natsort"
	"github.com/amp-labs/diagram-common/statediagram"
)

// ValidationResult contains the results of validating a diagram.
type ValidationResult struct {
	Valid       bool
	Errors      []ValidationError
	Warnings    []ValidationWarning
	Suggestions []Suggestion
}

// ValidationError represents a structural defect.
type ValidationError struct {
	Code     string   // Error code like "PARENT_CYCLE", "DANGLING_NOTE"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string
	Message  string
	Location Location
}

// Suggestion provides improvement recommendations.
type Suggestion struct {
	Message string
	Example string
}

// Location identifies the state an issue is about.
type Location struct {
	State  string
	Parent string
}

// Validate runs the default rules.
func Validate(d *statediagram.Diagram) ValidationResult {
	return ValidateWithRules(d, DefaultRules())
}

// ValidateWithRules validates using custom rules. Issues are reported in
// natural order of the state they concern.
func ValidateWithRules(d *statediagram.Diagram, rules []Rule) ValidationResult {
	var result ValidationResult

	for _, rule := range rules {
		ruleResult := rule.Check(d)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	slices.SortStableFunc(result.Errors, func(a, b ValidationError) int {
		return compareStates(a.Location.State, b.Location.State)
	})

	slices.SortStableFunc(result.Warnings, func(a, b ValidationWarning) int {
		return compareStates(a.Location.State, b.Location.State)
	})

	result.Valid = len(result.Errors) == 0
	result.Suggestions = generateSuggestions(d)

	return result
}

// ValidateWithRulesStrict treats warnings as errors.
func ValidateWithRulesStrict(d *statediagram.Diagram, rules []Rule) ValidationResult {
	result := ValidateWithRules(d, rules)

	for _, warning := range result.Warnings {
		result.Errors = append(result.Errors, ValidationError(warning))
	}

	result.Warnings = nil
	result.Valid = len(result.Errors) == 0

	return result
}

func compareStates(a, b string) int {
	switch {
	case a == b:
		return 0
	case natsort.Compare(a, b):
		return -1
	default:
		return 1
	}
}

// generateSuggestions points out composites that have no initial transition.
func generateSuggestions(d *statediagram.Diagram) []Suggestion {
	var missing []string

	for _, s := range d.States {
		if !s.IsComposite() || len(s.Regions) > 0 {
			continue
		}

		if _, ok := d.Initials[s.ID]; !ok {
			missing = append(missing, s.ID)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	natsort.Sort(missing)

	return []Suggestion{{
		Message: "Composite states without an initial transition: " + strings.Join(missing, ", "),
		Example: `state ` + missing[0] + ` {
    [*] --> FirstChild
}`,
	}}
}

// HasErrors returns true if the result has any errors.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins the errors of the result, or returns nil when there are none.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}

	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}

	return errors.Join(errs...)
}

// HasWarnings returns true if the result has any warnings.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results.
func (r ValidationResult) String() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("Diagram is valid\n")
	} else {
		fmt.Fprintf(&sb, "Diagram has %d error(s)\n", len(r.Errors))

		for _, err := range r.Errors {
			fmt.Fprintf(&sb, "  [%s] %s\n", err.Code, err.Message)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "%d warning(s):\n", len(r.Warnings))

		for _, warn := range r.Warnings {
			fmt.Fprintf(&sb, "  [%s] %s\n", warn.Code, warn.Message)
		}
	}

	for _, s := range r.Suggestions {
		fmt.Fprintf(&sb, "suggestion: %s\n", s.Message)
	}

	return sb.String()
}
