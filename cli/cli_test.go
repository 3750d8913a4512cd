package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const switchDiagram = `{
  "graph_type": "stateDiagram-v2",
  "graph_data": {
    "rootDoc": [
      {"stmt": "relation",
       "state1": {"stmt": "state", "id": "[*]", "type": "default"},
       "state2": {"stmt": "state", "id": "Off", "type": "default"}},
      {"stmt": "relation",
       "state1": {"stmt": "state", "id": "Off", "type": "default"},
       "state2": {"stmt": "state", "id": "On", "type": "default"},
       "description": "switch"},
      {"stmt": "state", "id": "On", "type": "default", "doc": [
        {"stmt": "relation",
         "state1": {"stmt": "state", "id": "[*]", "type": "default"},
         "state2": {"stmt": "state", "id": "Idle", "type": "default"}},
        {"stmt": "relation",
         "state1": {"stmt": "state", "id": "Idle", "type": "default"},
         "state2": {"stmt": "state", "id": "Busy", "type": "default"},
         "description": "go"}
      ]}
    ]
  }
}`

const flowchart = `graph_type: flowchart-v2
graph_data:
  rootDoc: []
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()

	return out.String(), err
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestConvertYAML(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	out, err := runCommand(t, "", "convert", path)
	require.NoError(t, err)

	var view diagramView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))

	assert.Equal(t, path, view.Name)
	assert.Equal(t, "State Diagram", view.Title)
	assert.Equal(t, "Off", view.RootInitial)
	assert.Equal(t, map[string]string{"On": "Idle"}, view.Initials)
	assert.NotZero(t, view.Fingerprint)
	assert.Len(t, view.Transitions, 4)

	parents := make(map[string]string)
	for _, s := range view.States {
		parents[s.ID] = s.Parent
	}

	assert.Empty(t, parents["Off"])
	assert.Empty(t, parents["On"])
	assert.Equal(t, "On", parents["Idle"])
	assert.Equal(t, "On", parents["Busy"])
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestConvertJSONFromStdin(t *testing.T) {
	out, err := runCommand(t, switchDiagram, "convert", "--format", "json", "--title", "Switch", "-")
	require.NoError(t, err)

	var view diagramView
	require.NoError(t, json.Unmarshal([]byte(out), &view))

	assert.Equal(t, "-", view.Name)
	assert.Equal(t, "Switch", view.Title)

	labels := make([]string, 0, len(view.Transitions))
	for _, tr := range view.Transitions {
		if tr.Label != "" {
			labels = append(labels, tr.Label)
		}
	}

	// Root-level transitions resolve after the composites they reference.
	assert.Equal(t, []string{"go", "switch"}, labels)
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestConvertBatchDeduplicates(t *testing.T) {
	first := writeFixture(t, "a.json", switchDiagram)
	second := writeFixture(t, "b.json", switchDiagram)

	out, err := runCommand(t, "", "convert", "--format", "json", "--workers", "2", first, second)
	require.NoError(t, err)

	var views []diagramView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)

	assert.Equal(t, first, views[0].Name)
	assert.Equal(t, second, views[1].Name)
	assert.Equal(t, views[0].Fingerprint, views[1].Fingerprint)
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestConvertReportsFailedInputs(t *testing.T) {
	good := writeFixture(t, "good.json", switchDiagram)
	bad := writeFixture(t, "bad.yaml", flowchart)

	out, err := runCommand(t, "", "convert", "--format", "json", good, bad)
	require.ErrorIs(t, err, ErrConversionFailed)

	var views []diagramView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)

	assert.Empty(t, views[0].Error)
	assert.Contains(t, views[1].Error, "unsupported graph type")
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestConvertRejectsUnknownFormat(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	_, err := runCommand(t, "", "convert", "--format", "xml", path)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestRender(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	out, err := runCommand(t, "", "render", "--fenced", "--direction", "LR", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "```mermaid\n---\ntitle: State Diagram\n---\nstateDiagram-v2\n    direction LR\n"))
	assert.Contains(t, out, "    Off --> On : switch\n")
	assert.Contains(t, out, "    Idle --> Busy : go\n")
	assert.True(t, strings.HasSuffix(out, "```\n"))
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestRenderNested(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	out, err := runCommand(t, "", "render", "--nested", path)
	require.NoError(t, err)

	assert.Contains(t, out, "    state On {\n")
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestValidate(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	out, err := runCommand(t, "", "validate", "--strict", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, boxTopLeft))
	assert.Contains(t, out, "Diagram is valid\n")
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestValidateFailsOnConversionError(t *testing.T) {
	path := writeFixture(t, "flow.yaml", flowchart)

	_, err := runCommand(t, "", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported graph type")
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestTree(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	out, err := runCommand(t, "", "tree", path)
	require.NoError(t, err)

	expected := `State Diagram
  On (composite, initial Idle)
    Idle
    Busy
  Off (root initial)
`
	assert.Equal(t, expected, out)

	sorted, err := runCommand(t, "", "tree", "--sort", path)
	require.NoError(t, err)

	assert.Equal(t, `State Diagram
  Off (root initial)
  On (composite, initial Idle)
    Busy
    Idle
`, sorted)
}

//nolint:paralleltest // Commands configure the process-wide logger.
func TestInvalidLogLevel(t *testing.T) {
	path := writeFixture(t, "switch.json", switchDiagram)

	_, err := runCommand(t, "", "--log-level", "loud", "tree", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
