package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/diagram-common/batch"
	"github.com/amp-labs/diagram-common/statediagram"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var (
	// ErrUnknownFormat is returned for an unsupported --format value.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrConversionFailed is returned when at least one input did not convert.
	ErrConversionFailed = errors.New("conversion failed")
)

type convertFlags struct {
	format    string
	workers   int
	title     string
	noHistory bool
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Resolve parser output into the hierarchical model",
		Long: `Converts each document and prints the resolved states, transitions and
notes. Documents are converted concurrently; identical inputs are converted once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", formatYAML, "Output format (yaml or json)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Concurrent conversions (0 uses GOMAXPROCS)")
	cmd.Flags().StringVar(&flags.title, "title", statediagram.DefaultTitle, "Title carried on every diagram")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not synthesize history states from notes")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	format := strings.ToLower(flags.format)
	if format != formatYAML && format != formatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, flags.format)
	}

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	results, stats, err := batch.ConvertAll(commandContext(cmd), inputs, batch.Options{
		Workers: flags.workers,
		Convert: []statediagram.Option{
			statediagram.WithTitle(flags.title),
			statediagram.WithHistoryInference(!flags.noHistory),
		},
	})
	if err != nil {
		return err
	}

	views := make([]diagramView, 0, len(results))

	for _, res := range results {
		if res.Err != nil {
			views = append(views, diagramView{Name: res.Name, Error: res.Err.Error()})

			continue
		}

		views = append(views, newDiagramView(res.Name, res.Diagram))
	}

	if err := writeViews(cmd.OutOrStdout(), format, views); err != nil {
		return err
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs", ErrConversionFailed, stats.Failed, len(inputs))
	}

	return nil
}

func writeViews(w io.Writer, format string, views []diagramView) error {
	var payload any = views
	if len(views) == 1 {
		payload = views[0]
	}

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}

		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd

	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}

	return nil
}
