package statediagram

import (
	"strings"

	"github.com/amp-labs/diagram-common/document"
)

const (
	startMarker = "_start"
	endMarker   = "_end"

	// HistorySuffix is appended to a composite id to name its history pseudostate.
	HistorySuffix = "_H"
)

// IsStartMarkerID reports whether id names an initial pseudostate.
func IsStartMarkerID(id string) bool {
	return id == document.Pseudostate || strings.Contains(id, startMarker)
}

// IsEndMarkerID reports whether id names a final pseudostate.
func IsEndMarkerID(id string) bool {
	return strings.Contains(id, endMarker)
}

// IsMarkerID reports whether id names an initial or final pseudostate.
func IsMarkerID(id string) bool {
	return IsStartMarkerID(id) || IsEndMarkerID(id)
}

// NewState classifies a state record into a typed state. Marker ids become
// Start or End states, records with a nested document become composites and
// everything else is a plain state. An empty scopedID defaults to the id.
func NewState(record document.Statement, parentID, scopedID string) *State {
	if scopedID == "" {
		scopedID = record.ID
	}

	state := &State{
		ID:       record.ID,
		ParentID: parentID,
		ScopedID: scopedID,
	}

	switch {
	case IsStartMarkerID(record.ID):
		state.Kind = KindStart
	case IsEndMarkerID(record.ID):
		state.Kind = KindEnd
	case record.HasDoc:
		state.Kind = KindComposite
		state.Content = record.Description
		state.SubStates = []*State{}
	default:
		state.Kind = KindPlain
		state.Content = record.Description
	}

	return state
}

// NewHistoryState returns the shallow history pseudostate of a composite.
func NewHistoryState(compositeID string) *State {
	id := compositeID + HistorySuffix

	return &State{
		ID:        id,
		Content:   "H",
		ParentID:  compositeID,
		ScopedID:  id,
		Kind:      KindHistory,
		HistoryOf: compositeID,
	}
}
