// Package visualizer renders resolved state diagrams back to Mermaid
// stateDiagram-v2 scripts.
//
//nolint:gosec // File paths come from the caller
package visualizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amp-labs/diagram-common/document"
	"github.com/amp-labs/diagram-common/statediagram"
)

// Visualizer errors.
var (
	ErrDiagramNil = errors.New("diagram cannot be nil")
)

// GenerateMermaid renders a diagram with the default options.
func GenerateMermaid(d *statediagram.Diagram) (string, error) {
	return GenerateMermaidWithOptions(d, DefaultOptions())
}

// GenerateMermaidFromFile parses a JSON or YAML parser result, converts it and renders it.
func GenerateMermaidFromFile(ctx context.Context, path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := document.Parse(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}

	d, err := statediagram.Convert(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}

	return GenerateMermaidWithOptions(d, opts)
}

// GenerateMermaidWithOptions renders a diagram as a Mermaid script: title
// front matter, state declarations, transitions, then notes.
func GenerateMermaidWithOptions(d *statediagram.Diagram, opts Options) (string, error) {
	if d == nil {
		return "", ErrDiagramNil
	}

	if opts.Indent == "" {
		opts.Indent = DefaultOptions().Indent
	}

	w := &writer{opts: opts}

	if opts.Fenced {
		w.line(0, "```mermaid")
	}

	if d.Title != "" {
		w.line(0, "---")
		w.line(0, "title: "+d.Title)
		w.line(0, "---")
	}

	w.line(0, "stateDiagram-v2")

	if opts.Direction != "" {
		w.line(1, "direction "+opts.Direction)
	}

	if opts.Nested {
		newNestedRenderer(d, w).render()
	} else {
		renderFlat(d, w)
	}

	for _, n := range d.Notes {
		writeNote(w, 1, n)
	}

	if opts.Fenced {
		w.line(0, "```")
	}

	return w.sb.String(), nil
}

type writer struct {
	opts Options
	sb   strings.Builder
}

func (w *writer) line(depth int, text string) {
	w.sb.WriteString(strings.Repeat(w.opts.Indent, depth))
	w.sb.WriteString(text)
	w.sb.WriteString("\n")
}

func renderFlat(d *statediagram.Diagram, w *writer) {
	for _, s := range d.States {
		if s.IsMarker() {
			continue
		}

		w.line(1, stateLine(s))
	}

	for _, t := range d.Transitions {
		w.line(1, t.String())
	}
}

// stateLine declares a state. States without a description repeat their id
// so that every declaration carries a label.
func stateLine(s *statediagram.State) string {
	if s.Kind == statediagram.KindHistory {
		return s.String()
	}

	content := s.Content
	if content == "" {
		content = s.ID
	}

	return fmt.Sprintf("%s : %s", s.ID, strings.ReplaceAll(content, "\n", "<br/>"))
}

func writeNote(w *writer, depth int, n *statediagram.Note) {
	w.line(depth, fmt.Sprintf("note %s %s", n.Position, n.Target.ID))

	for _, text := range strings.Split(n.Content, "\n") {
		w.line(depth+1, text)
	}

	w.line(depth, "end note")
}
