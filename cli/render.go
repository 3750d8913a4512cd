package cli

import (
	"fmt"

	"github.com/amp-labs/diagram-common/statediagram"
	"github.com/amp-labs/diagram-common/visualizer"
	"github.com/spf13/cobra"
)

func newRenderCommand() *cobra.Command {
	var (
		nested    bool
		fenced    bool
		direction string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the resolved diagram back to a Mermaid script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := convertInput(cmd, args[0], statediagram.WithTitle(title))
			if err != nil {
				return err
			}

			opts := visualizer.DefaultOptions().
				WithNested(nested).
				WithFenced(fenced).
				WithDirection(direction)

			script, err := visualizer.GenerateMermaidWithOptions(d, opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), script)

			return err
		},
	}

	cmd.Flags().BoolVar(&nested, "nested", false, "Render composites as nested blocks")
	cmd.Flags().BoolVar(&fenced, "fenced", false, "Wrap the script in a mermaid code fence")
	cmd.Flags().StringVar(&direction, "direction", "", "Diagram direction, e.g. LR or TB")
	cmd.Flags().StringVar(&title, "title", statediagram.DefaultTitle, "Diagram title")

	return cmd
}
