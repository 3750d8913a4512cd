package cli

import (
	"fmt"
	"io"

	"github.com/amp-labs/diagram-common/batch"
	"github.com/amp-labs/diagram-common/document"
	"github.com/amp-labs/diagram-common/statediagram"
	"github.com/spf13/cobra"
)

const stdinName = "-"

// readInputs loads every named file, reading stdin for "-".
func readInputs(cmd *cobra.Command, names []string) ([]batch.Input, error) {
	var files []string

	inputs := make([]batch.Input, len(names))
	fileIdx := make([]int, 0, len(names))

	for i, name := range names {
		if name != stdinName {
			files = append(files, name)
			fileIdx = append(fileIdx, i)

			continue
		}

		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		inputs[i] = batch.Input{Name: stdinName, Data: data}
	}

	loaded, err := batch.ReadFiles(files)
	if err != nil {
		return nil, err
	}

	for j, in := range loaded {
		inputs[fileIdx[j]] = in
	}

	return inputs, nil
}

// convertInput parses and converts a single named input.
func convertInput(cmd *cobra.Command, name string, opts ...statediagram.Option) (*statediagram.Diagram, error) {
	inputs, err := readInputs(cmd, []string{name})
	if err != nil {
		return nil, err
	}

	doc, err := document.Parse(inputs[0].Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	d, err := statediagram.Convert(commandContext(cmd), doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return d, nil
}
