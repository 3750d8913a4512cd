package cli

import (
	"errors"
	"fmt"

	"github.com/amp-labs/diagram-common/logger"
	"github.com/amp-labs/diagram-common/validator"
	"github.com/spf13/cobra"
)

// ErrInvalidDiagram is returned when validation reports errors.
var ErrInvalidDiagram = errors.New("diagram is invalid")

func newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check resolved diagrams for structural problems",
		Long: `Converts each document and checks the result: duplicate or ambiguous ids,
broken parent chains, dangling transitions and notes, and states that cannot be
reached from an initial marker. With --strict, warnings count as errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0

			for _, name := range args {
				d, err := convertInput(cmd, name)
				if err != nil {
					return err
				}

				var result validator.ValidationResult
				if strict {
					result = validator.ValidateWithRulesStrict(d, validator.DefaultRules())
				} else {
					result = validator.Validate(d)
				}

				if !result.Valid {
					invalid++

					ctx := commandContext(cmd)
					logger.Get(ctx).InfoContext(ctx, "Diagram failed validation", "input", name, "error", result.Err())
				}

				out := cmd.OutOrStdout()
				if _, err := fmt.Fprint(out, Banner(name+"\n"+d.Summary(), DefaultBannerWidth)); err != nil {
					return err
				}

				if _, err := fmt.Fprint(out, result.String()); err != nil {
					return err
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", ErrInvalidDiagram, invalid, len(args))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}
