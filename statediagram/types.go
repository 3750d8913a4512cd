// Package statediagram resolves a parsed state-diagram statement tree into a
// hierarchical state-machine model.
//
// States are declared lexically inside composite blocks, transitions may refer
// to states from any scope (including forward references), and a state that is
// reached from several sibling branches is moved to the nearest common ancestor
// so the hierarchy stays a tree. The result is a flat, insertion-ordered list of
// states whose ParentID links form that tree.
package statediagram

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of state variants.
type Kind int

const (
	KindPlain Kind = iota
	KindStart
	KindEnd
	KindComposite
	KindHistory
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindComposite:
		return "composite"
	case KindHistory:
		return "history"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is a node of the resolved hierarchy.
type State struct {
	// ID is unique within the scope the state was declared in.
	ID string
	// Content is the human-readable description.
	Content string
	// ParentID is the owning composite, empty for root-level states.
	ParentID string
	// ScopedID is the namespace key the state was last registered under.
	ScopedID string
	Kind     Kind

	// SubStates is left for renderers to fill; the resolver only sets ParentID.
	SubStates []*State
	// Regions holds the parallel regions of a composite, in source order.
	Regions []Region

	// HistoryOf is the composite a history pseudostate resumes into.
	HistoryOf string

	// declared is set for states introduced by an explicit declaration rather
	// than by a transition reference.
	declared bool
}

// IsMarker reports whether the state is an initial or final pseudostate.
func (s *State) IsMarker() bool {
	return s.Kind == KindStart || s.Kind == KindEnd
}

// IsComposite reports whether the state owns a nested sub-machine.
func (s *State) IsComposite() bool {
	return s.Kind == KindComposite
}

func (s *State) String() string {
	switch s.Kind {
	case KindStart, KindEnd:
		return "[*]"
	case KindHistory:
		return fmt.Sprintf("state %s <<history>>", s.ID)
	case KindPlain, KindComposite:
		if s.Content == "" {
			return s.ID
		}

		return fmt.Sprintf("%s : %s", s.ID, s.Content)
	default:
		return s.ID
	}
}

// Transition is a directed edge between two states. It may cross composite boundaries.
type Transition struct {
	From      *State
	To        *State
	Label     string
	IsHistory bool
}

func (t *Transition) String() string {
	if t.Label == "" {
		return fmt.Sprintf("%s --> %s", endpointName(t.From), endpointName(t.To))
	}

	return fmt.Sprintf("%s --> %s : %s", endpointName(t.From), endpointName(t.To), t.Label)
}

func endpointName(s *State) string {
	if s.IsMarker() {
		return "[*]"
	}

	return s.ID
}

// Note is a free-floating annotation bound to exactly one state.
type Note struct {
	Content  string
	Target   *State
	Position string
}

func (n *Note) String() string {
	return fmt.Sprintf("note %s %s\n\t%s\nend note", n.Position, n.Target.ID, n.Content)
}

// Region is one divider-separated parallel region of a composite.
type Region struct {
	Name        string
	DividerID   string
	States      []*State
	Transitions []*Transition
	Notes       []*Note
	// Initial is the id of the state the region's start marker leads to.
	Initial string
}

// HistoryKey identifies a transition that was redirected to a history pseudostate.
type HistoryKey struct {
	Source  string
	Trigger string
}

// Diagram is the resolved model.
type Diagram struct {
	Title       string
	States      []*State
	Transitions []*Transition
	Notes       []*Note

	// RootInitial is the state the root start marker leads to.
	RootInitial string
	// Initials maps a composite id to the child its start marker leads to.
	Initials map[string]string

	// HistoryStates maps a composite id to its synthesized history pseudostate.
	HistoryStates map[string]*State
	// HistoryTransitions maps a redirected transition to the composite it resumes.
	HistoryTransitions map[HistoryKey]string
}

// State returns the first non-marker state with the given id.
func (d *Diagram) State(id string) (*State, bool) {
	for _, s := range d.States {
		if s.ID == id && !s.IsMarker() {
			return s, true
		}
	}

	return nil, false
}

// Children returns the states whose parent is id, in resolution order.
// Markers are excluded.
func (d *Diagram) Children(id string) []*State {
	var out []*State

	for _, s := range d.States {
		if s.ParentID == id && !s.IsMarker() {
			out = append(out, s)
		}
	}

	return out
}

// HasChildren reports whether any state names id as its parent.
func (d *Diagram) HasChildren(id string) bool {
	for _, s := range d.States {
		if s.ParentID == id {
			return true
		}
	}

	return false
}

// Summary renders a one-line description of the model sizes.
func (d *Diagram) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d states, %d transitions, %d notes", len(d.States), len(d.Transitions), len(d.Notes))

	if len(d.HistoryStates) > 0 {
		fmt.Fprintf(&sb, ", %d history states", len(d.HistoryStates))
	}

	return sb.String()
}
