package validator

import (
	"fmt"

	"github.com/amp-labs/diagram-common/statediagram"
)

// Severity defines the severity level of a validation issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule checks a diagram for one kind of issue.
type Rule interface {
	Name() string
	Severity() Severity
	Check(d *statediagram.Diagram) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&duplicateStateRule{},
		&parentChainRule{},
		&membershipRule{},
		&unreachableStateRule{},
	}
}

// duplicateStateRule reports states that share an id. Two states with the same
// id under the same parent are an error; under different parents they are
// legal but ambiguous for renderers that address states by id.
type duplicateStateRule struct{}

func (r *duplicateStateRule) Name() string {
	return "DuplicateState"
}

func (r *duplicateStateRule) Severity() Severity {
	return SeverityError
}

func (r *duplicateStateRule) Check(d *statediagram.Diagram) RuleResult {
	var result RuleResult

	byID := make(map[string][]*statediagram.State)

	var order []string

	for _, s := range d.States {
		if s.IsMarker() {
			continue
		}

		if _, seen := byID[s.ID]; !seen {
			order = append(order, s.ID)
		}

		byID[s.ID] = append(byID[s.ID], s)
	}

	for _, id := range order {
		states := byID[id]
		if len(states) < 2 {
			continue
		}

		parents := make(map[string]bool)

		for _, s := range states {
			if parents[s.ParentID] {
				result.Errors = append(result.Errors, ValidationError{
					Code:     "DUPLICATE_STATE",
					Message:  fmt.Sprintf("State '%s' is declared more than once under '%s'", id, displayParent(s.ParentID)),
					Location: Location{State: id, Parent: s.ParentID},
				})

				continue
			}

			parents[s.ParentID] = true
		}

		if len(parents) > 1 {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:     "AMBIGUOUS_STATE_ID",
				Message:  fmt.Sprintf("State id '%s' is used by %d different composites", id, len(parents)),
				Location: Location{State: id},
			})
		}
	}

	return result
}

// parentChainRule checks that every parent exists and that parent chains end at the root.
type parentChainRule struct{}

func (r *parentChainRule) Name() string {
	return "ParentChain"
}

func (r *parentChainRule) Severity() Severity {
	return SeverityError
}

func (r *parentChainRule) Check(d *statediagram.Diagram) RuleResult {
	var result RuleResult

	for _, s := range d.States {
		seen := map[string]bool{s.ID: true}
		parent := s.ParentID

		for parent != "" {
			if seen[parent] {
				result.Errors = append(result.Errors, ValidationError{
					Code:     "PARENT_CYCLE",
					Message:  fmt.Sprintf("Parent chain of '%s' loops through '%s'", s.ID, parent),
					Location: Location{State: s.ID, Parent: s.ParentID},
				})

				break
			}

			seen[parent] = true

			p, ok := d.State(parent)
			if !ok {
				result.Errors = append(result.Errors, ValidationError{
					Code:     "MISSING_PARENT",
					Message:  fmt.Sprintf("Parent '%s' of '%s' is not a state of the diagram", parent, s.ID),
					Location: Location{State: s.ID, Parent: s.ParentID},
				})

				break
			}

			parent = p.ParentID
		}
	}

	return result
}

// membershipRule checks that transitions and notes only reference states of the diagram.
type membershipRule struct{}

func (r *membershipRule) Name() string {
	return "Membership"
}

func (r *membershipRule) Severity() Severity {
	return SeverityError
}

func (r *membershipRule) Check(d *statediagram.Diagram) RuleResult {
	var result RuleResult

	members := make(map[*statediagram.State]bool, len(d.States))
	for _, s := range d.States {
		members[s] = true
	}

	for _, t := range d.Transitions {
		for _, endpoint := range []*statediagram.State{t.From, t.To} {
			if endpoint == nil || !members[endpoint] {
				result.Errors = append(result.Errors, ValidationError{
					Code:     "DANGLING_TRANSITION",
					Message:  fmt.Sprintf("Transition '%s' references a state outside the diagram", t),
					Location: Location{State: stateID(endpoint)},
				})
			}
		}
	}

	for _, n := range d.Notes {
		if n.Target == nil || !members[n.Target] {
			result.Errors = append(result.Errors, ValidationError{
				Code:     "DANGLING_NOTE",
				Message:  fmt.Sprintf("Note '%s' is attached to a state outside the diagram", n.Content),
				Location: Location{State: stateID(n.Target)},
			})
		}
	}

	return result
}

// unreachableStateRule warns about states that no path from the root initial
// state enters. Entering a composite enters its initial states and its
// parallel regions.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Severity() Severity {
	return SeverityWarning
}

func (r *unreachableStateRule) Check(d *statediagram.Diagram) RuleResult {
	var result RuleResult

	var queue []*statediagram.State

	reachable := make(map[*statediagram.State]bool)
	visit := func(s *statediagram.State) {
		if s != nil && !reachable[s] {
			reachable[s] = true
			queue = append(queue, s)
		}
	}

	for _, s := range d.States {
		if s.Kind == statediagram.KindStart && s.ParentID == "" {
			visit(s)
		}
	}

	if len(queue) == 0 {
		return result
	}

	outgoing := make(map[*statediagram.State][]*statediagram.State)
	for _, t := range d.Transitions {
		outgoing[t.From] = append(outgoing[t.From], t.To)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range outgoing[current] {
			visit(next)
		}

		// Entering a composite or resuming its history enters its initial states.
		owner := current.ID
		if current.Kind == statediagram.KindHistory {
			owner = current.HistoryOf
		} else if !current.IsComposite() {
			continue
		}

		for _, s := range d.States {
			if s.Kind == statediagram.KindStart && s.ParentID == owner {
				visit(s)
			}
		}

		if current.Kind == statediagram.KindHistory {
			for _, child := range d.Children(owner) {
				visit(child)
			}
		}
	}

	for _, s := range d.States {
		if s.IsMarker() || reachable[s] {
			continue
		}

		result.Warnings = append(result.Warnings, ValidationWarning{
			Code:     "UNREACHABLE_STATE",
			Message:  fmt.Sprintf("State '%s' cannot be reached from the initial state", s.ID),
			Location: Location{State: s.ID, Parent: s.ParentID},
		})
	}

	return result
}

func displayParent(parentID string) string {
	if parentID == "" {
		return "root"
	}

	return parentID
}

func stateID(s *statediagram.State) string {
	if s == nil {
		return ""
	}

	return s.ID
}
