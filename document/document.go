// Package document decodes the generic statement tree produced by a Mermaid
// state-diagram parser into typed statements.
//
// The parser output is a loosely typed structure (as produced by JSON or YAML
// decoding into map[string]any):
//
//	{
//	    "graph_type": "stateDiagram-v2",
//	    "graph_data": {
//	        "rootDoc": [
//	            {"stmt": "relation", "state1": {"id": "root_start"}, "state2": {"id": "Off"}},
//	            {"stmt": "state", "id": "On", "doc": [ ... ]},
//	            "Forward"
//	        ]
//	    }
//	}
//
// Each entry is either a bare string (a forward declaration with no body) or a
// record discriminated by its "stmt" field.
package document

import (
	"errors"
	"strings"
)

const (
	// KindState marks a state declaration, a note, or a divider.
	KindState = "state"
	// KindRelation marks a transition between two states.
	KindRelation = "relation"
	// TypeDivider marks a parallel-region separator.
	TypeDivider = "divider"
)

var (
	// ErrMissingRootDoc is returned when graph_data.rootDoc is absent or not a list.
	ErrMissingRootDoc = errors.New("graph_data.rootDoc is missing")
	// ErrInvalidStatement is returned when a statement is neither a string nor a record.
	ErrInvalidStatement = errors.New("invalid statement")
)

// Document is a parsed diagram: its type discriminant and the top-level statements.
type Document struct {
	GraphType string
	Root      []Statement
}

// Note is the annotation payload carried by a state statement.
type Note struct {
	Text     string
	Position string
}

// Statement is one entry of a statement list. Bare entries only carry an ID.
type Statement struct {
	Bare        bool
	Kind        string
	ID          string
	Description string
	Type        string
	Doc         []Statement
	HasDoc      bool
	Note        *Note
	State1      *Statement
	State2      *Statement
}

// IsDivider reports whether the statement separates parallel regions.
func (s Statement) IsDivider() bool {
	return s.Kind == KindState && s.Type == TypeDivider
}

// IsNote reports whether the statement annotates a state rather than declaring one.
func (s Statement) IsNote() bool {
	return s.Kind == KindState && s.Note != nil
}

// Label returns the transition label of a relation, empty when absent.
func (s Statement) Label() string {
	return s.Description
}

// IsStateDiagram reports whether the graph type identifies a state diagram.
func (d *Document) IsStateDiagram() bool {
	return d != nil && IsStateDiagramType(d.GraphType)
}

// IsStateDiagramType reports whether a parser graph type names a state diagram.
func IsStateDiagramType(graphType string) bool {
	return strings.Contains(graphType, StateDiagramMarker)
}

// StateDiagramMarker is the substring every state-diagram graph type contains.
const StateDiagramMarker = "stateDiagram"

// Clone returns a deep copy of the statement.
func (s Statement) Clone() Statement {
	out := s

	if s.Doc != nil {
		out.Doc = make([]Statement, len(s.Doc))
		for i := range s.Doc {
			out.Doc[i] = s.Doc[i].Clone()
		}
	}

	if s.Note != nil {
		note := *s.Note
		out.Note = &note
	}

	if s.State1 != nil {
		state1 := s.State1.Clone()
		out.State1 = &state1
	}

	if s.State2 != nil {
		state2 := s.State2.Clone()
		out.State2 = &state2
	}

	return out
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	out := &Document{GraphType: d.GraphType}
	if d.Root != nil {
		out.Root = make([]Statement, len(d.Root))
		for i := range d.Root {
			out.Root[i] = d.Root[i].Clone()
		}
	}

	return out
}
