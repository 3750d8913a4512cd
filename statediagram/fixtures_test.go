package statediagram

import (
	"testing"

	"github.com/amp-labs/diagram-common/document"
	"github.com/stretchr/testify/require"
)

// Builders for parser-shaped statement trees. They mirror what a Mermaid
// parser emits, with raw "[*]" pseudostates left for translation.

func diagramMap(stmts ...any) map[string]any {
	return map[string]any{
		"graph_type": "stateDiagram-v2",
		"graph_data": map[string]any{"rootDoc": stmts},
	}
}

func plain(id, description string) map[string]any {
	return map[string]any{"stmt": "state", "id": id, "type": "default", "description": description}
}

func composite(id string, stmts ...any) map[string]any {
	if stmts == nil {
		stmts = []any{}
	}

	return map[string]any{"stmt": "state", "id": id, "type": "default", "doc": stmts}
}

func rel(from, to, label string) map[string]any {
	out := map[string]any{
		"stmt":   "relation",
		"state1": map[string]any{"stmt": "state", "id": from, "type": "default"},
		"state2": map[string]any{"stmt": "state", "id": to, "type": "default"},
	}

	if label != "" {
		out["description"] = label
	}

	return out
}

func note(id, position, text string) map[string]any {
	return map[string]any{
		"stmt": "state",
		"id":   id,
		"note": map[string]any{"position": position, "text": text},
	}
}

func divider(id string) map[string]any {
	return map[string]any{"stmt": "state", "id": id, "type": "divider"}
}

func printerDiagram() map[string]any {
	return diagramMap(
		rel("[*]", "Off", ""),
		rel("Off", "On", "masterSwitch"),
		composite("On",
			rel("[*]", "LoggedOut", ""),
			rel("On", "Off", "masterSwitch"),
			composite("LoggedOut",
				rel("[*]", "AwaitingLogin", ""),
				rel("AwaitingLogin", "LoggedIn", "cardTap [authorized]"),
				rel("AwaitingLogin", "Error", "cardTap [!authorized]"),
			),
			composite("LoggedIn",
				rel("[*]", "Idle", ""),
				rel("Idle", "Print", "choosePrint"),
				rel("Idle", "Scan", "chooseScan"),
				rel("Idle", "LoggedOut", "logoff"),
				composite("Print",
					rel("[*]", "CheckQueue", ""),
					rel("CheckQueue", "Printing", "start [queueNotEmpty]"),
					rel("CheckQueue", "Error", "start [queueEmpty]"),
					rel("Printing", "Idle", "complete"),
					rel("Printing", "Suspended", "paperJam"),
					rel("Printing", "Suspended", "outOfPaper"),
					rel("Printing", "Idle", "stop"),
				),
				composite("Scan",
					rel("[*]", "CheckFeeder", ""),
					rel("CheckFeeder", "Scanning", "start [documentDetected]"),
					rel("CheckFeeder", "Error", "start [!documentDetected]"),
					rel("Scanning", "Idle", "complete"),
					rel("Scanning", "Suspended", "paperJam"),
					rel("Scanning", "Idle", "stop"),
				),
				composite("Suspended",
					rel("[*]", "AwaitingResolution", ""),
					rel("AwaitingResolution", "ResupplyPaper", "outOfPaper"),
					rel("AwaitingResolution", "ClearJam", "paperJam"),
					rel("ResupplyPaper", "Print", "resume"),
					rel("ClearJam", "Print", "resume"),
					rel("ResupplyPaper", "Idle", "cancel"),
					rel("ClearJam", "Idle", "cancel"),
				),
			),
		),
	)
}

func notesDiagram() map[string]any {
	return diagramMap(
		plain("State1", "The state with a note"),
		rel("[*]", "State1", ""),
		note("State1", "right of", "note1"),
		note("State1", "right of", "note2"),
		rel("State1", "State2", ""),
		note("State2", "left of", "This is the note to the left."),
		rel("State2", "[*]", ""),
	)
}

func mustDecode(t *testing.T, raw map[string]any) *document.Document {
	t.Helper()

	doc, err := document.FromMap(raw)
	require.NoError(t, err)

	return doc
}

func mustConvert(t *testing.T, raw map[string]any, opts ...Option) *Diagram {
	t.Helper()

	d, err := ConvertMap(t.Context(), raw, opts...)
	require.NoError(t, err)

	return d
}

func parentOf(t *testing.T, d *Diagram, id string) string {
	t.Helper()

	s, ok := d.State(id)
	require.True(t, ok, "state %s not found", id)

	return s.ParentID
}

func childIDs(d *Diagram, id string) []string {
	var out []string

	for _, s := range d.Children(id) {
		out = append(out, s.ID)
	}

	return out
}

func nonMarkerIDs(d *Diagram) []string {
	var out []string

	for _, s := range d.States {
		if !s.IsMarker() {
			out = append(out, s.ID)
		}
	}

	return out
}
