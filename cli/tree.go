package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"facette.io/natsort"
	"github.com/amp-labs/diagram-common/statediagram"
	"github.com/spf13/cobra"
)

func newTreeCommand() *cobra.Command {
	var sorted bool

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the resolved state hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := convertInput(cmd, args[0])
			if err != nil {
				return err
			}

			return writeTree(cmd.OutOrStdout(), d, sorted)
		},
	}

	cmd.Flags().BoolVar(&sorted, "sort", false, "Order siblings by natural sort instead of resolution order")

	return cmd
}

func writeTree(w io.Writer, d *statediagram.Diagram, sorted bool) error {
	var sb strings.Builder

	sb.WriteString(d.Title + "\n")
	writeSubtree(&sb, d, "", 1, sorted)

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeSubtree(sb *strings.Builder, d *statediagram.Diagram, parentID string, depth int, sorted bool) {
	children := d.Children(parentID)
	if sorted {
		children = slices.Clone(children)
		slices.SortStableFunc(children, func(a, b *statediagram.State) int {
			switch {
			case a.ID == b.ID:
				return 0
			case natsort.Compare(a.ID, b.ID):
				return -1
			default:
				return 1
			}
		})
	}

	indent := strings.Repeat("  ", depth)

	for _, s := range children {
		fmt.Fprintf(sb, "%s%s%s\n", indent, s.ID, treeSuffix(d, s))

		if s.IsComposite() {
			writeSubtree(sb, d, s.ID, depth+1, sorted)
		}
	}
}

func treeSuffix(d *statediagram.Diagram, s *statediagram.State) string {
	var parts []string

	switch {
	case s.Kind == statediagram.KindHistory:
		parts = append(parts, "history of "+s.HistoryOf)
	case s.IsComposite() && len(s.Regions) > 0:
		parts = append(parts, fmt.Sprintf("%d regions", len(s.Regions)))
	case s.IsComposite():
		parts = append(parts, "composite")
	}

	if initial, ok := d.Initials[s.ID]; ok {
		parts = append(parts, "initial "+initial)
	}

	if d.RootInitial == s.ID && s.ParentID == "" {
		parts = append(parts, "root initial")
	}

	if len(parts) == 0 {
		return ""
	}

	return " (" + strings.Join(parts, ", ") + ")"
}
