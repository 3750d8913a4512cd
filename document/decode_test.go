package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMap(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"graph_type": "stateDiagram-v2",
		"graph_data": map[string]any{
			"rootDoc": []any{
				map[string]any{
					"stmt":   "relation",
					"state1": map[string]any{"stmt": "state", "id": "[*]"},
					"state2": map[string]any{"stmt": "state", "id": "Off"},
				},
				map[string]any{
					"stmt":        "state",
					"id":          "On",
					"description": []any{"Powered", "up"},
					"doc":         []any{},
				},
				map[string]any{
					"stmt": "state",
					"id":   "On",
					"note": map[string]any{"text": "ready", "position": "right of"},
				},
				"  Forward ",
			},
		},
	}

	doc, err := FromMap(raw)
	require.NoError(t, err)
	assert.True(t, doc.IsStateDiagram())
	require.Len(t, doc.Root, 4)

	rel := doc.Root[0]
	assert.Equal(t, KindRelation, rel.Kind)
	require.NotNil(t, rel.State1)
	require.NotNil(t, rel.State2)
	assert.Equal(t, "[*]", rel.State1.ID)
	assert.Equal(t, "Off", rel.State2.ID)

	composite := doc.Root[1]
	assert.True(t, composite.HasDoc)
	assert.Empty(t, composite.Doc)
	assert.Equal(t, "Powered\nup", composite.Description)

	note := doc.Root[2]
	assert.True(t, note.IsNote())
	assert.Equal(t, "right of", note.Note.Position)

	assert.True(t, doc.Root[3].Bare)
	assert.Equal(t, "Forward", doc.Root[3].ID)
}

func TestFromMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
		err  error
	}{
		{
			name: "missing graph data",
			raw:  map[string]any{"graph_type": "stateDiagram"},
			err:  ErrMissingRootDoc,
		},
		{
			name: "root doc not a list",
			raw: map[string]any{
				"graph_type": "stateDiagram",
				"graph_data": map[string]any{"rootDoc": "nope"},
			},
			err: ErrMissingRootDoc,
		},
		{
			name: "statement of wrong type",
			raw: map[string]any{
				"graph_type": "stateDiagram",
				"graph_data": map[string]any{"rootDoc": []any{42}},
			},
			err: ErrInvalidStatement,
		},
		{
			name: "nested statement of wrong type",
			raw: map[string]any{
				"graph_type": "stateDiagram",
				"graph_data": map[string]any{"rootDoc": []any{
					map[string]any{"stmt": "state", "id": "A", "doc": []any{true}},
				}},
			},
			err: ErrInvalidStatement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FromMap(tt.raw)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	jsonDoc := []byte(`{
		"graph_type": "stateDiagram-v2",
		"graph_data": {"rootDoc": [
			{"stmt": "relation", "state1": {"stmt": "state", "id": "A"},
			 "state2": {"stmt": "state", "id": "B"}, "description": "go"}
		]}
	}`)

	yamlDoc := []byte(`
graph_type: stateDiagram-v2
graph_data:
  rootDoc:
    - stmt: relation
      state1: {stmt: state, id: A}
      state2: {stmt: state, id: B}
      description: go
`)

	for name, data := range map[string][]byte{"json": jsonDoc, "yaml": yamlDoc} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse(data)
			require.NoError(t, err)
			require.Len(t, doc.Root, 1)
			assert.Equal(t, "go", doc.Root[0].Label())
			assert.Equal(t, "B", doc.Root[0].State2.ID)
		})
	}
}

func TestGraphType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "flowchart", GraphType(map[string]any{"graph_type": "flowchart"}))
	assert.Empty(t, GraphType(map[string]any{}))
	assert.False(t, IsStateDiagramType("flowchart"))
	assert.True(t, IsStateDiagramType("stateDiagram-v2"))
}
