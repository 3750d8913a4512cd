package statediagram

import (
	"testing"

	"github.com/amp-labs/diagram-common/document"
	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		record      document.Statement
		parentID    string
		scopedID    string
		wantKind    Kind
		wantContent string
		wantScoped  string
	}{
		{
			name:       "raw pseudostate",
			record:     document.Statement{ID: "[*]"},
			wantKind:   KindStart,
			wantScoped: "[*]",
		},
		{
			name:       "start marker",
			record:     document.Statement{ID: "On_start"},
			parentID:   "On",
			wantKind:   KindStart,
			wantScoped: "On_start",
		},
		{
			name:       "end marker",
			record:     document.Statement{ID: "On_end", Description: "ignored"},
			parentID:   "On",
			wantKind:   KindEnd,
			wantScoped: "On_end",
		},
		{
			name:        "composite",
			record:      document.Statement{ID: "On", Description: "Powered", HasDoc: true},
			wantKind:    KindComposite,
			wantContent: "Powered",
			wantScoped:  "On",
		},
		{
			name:        "plain",
			record:      document.Statement{ID: "Idle", Description: "waiting"},
			parentID:    "LoggedIn",
			scopedID:    "On_LoggedIn_Idle",
			wantKind:    KindPlain,
			wantContent: "waiting",
			wantScoped:  "On_LoggedIn_Idle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewState(tt.record, tt.parentID, tt.scopedID)
			assert.Equal(t, tt.wantKind, s.Kind)
			assert.Equal(t, tt.record.ID, s.ID)
			assert.Equal(t, tt.parentID, s.ParentID)
			assert.Equal(t, tt.wantScoped, s.ScopedID)
			assert.Equal(t, tt.wantContent, s.Content)
		})
	}
}

func TestNewStateCompositeHasEmptySubStates(t *testing.T) {
	t.Parallel()

	s := NewState(document.Statement{ID: "On", HasDoc: true}, "", "")
	assert.NotNil(t, s.SubStates)
	assert.Empty(t, s.SubStates)
	assert.True(t, s.IsComposite())
}

func TestNewHistoryState(t *testing.T) {
	t.Parallel()

	h := NewHistoryState("Print")
	assert.Equal(t, "Print_H", h.ID)
	assert.Equal(t, "Print", h.ParentID)
	assert.Equal(t, "Print", h.HistoryOf)
	assert.Equal(t, KindHistory, h.Kind)
	assert.False(t, h.IsMarker())
	assert.Equal(t, "state Print_H <<history>>", h.String())
}

func TestMarkerIDs(t *testing.T) {
	t.Parallel()

	assert.True(t, IsStartMarkerID("[*]"))
	assert.True(t, IsStartMarkerID("root_start"))
	assert.True(t, IsEndMarkerID("Print_end"))
	assert.True(t, IsMarkerID("Print_end"))
	assert.False(t, IsMarkerID("Printing"))
}
