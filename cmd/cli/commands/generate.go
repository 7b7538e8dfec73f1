package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <month>",
		Short: "Generate and validate the schedule for a month (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			app.Logger.Debug("generate command", zap.String("month", month), zap.Bool("overwrite", overwrite))

			result, err := services.GenerateMonth(app.Ctx, app.Database, app.Cfg, app.Logger, month, overwrite)
			if err != nil {
				return err
			}

			stats := statsFor(result.Schedule)
			fmt.Printf("\n✓ Schedule for %s generated!\n\n", month)
			fmt.Printf("Filled slots:   %d\n", stats.Filled)
			fmt.Printf("Unfilled slots: %d\n", len(result.Unfilled))
			fmt.Printf("Blocked slots:  %d\n", stats.Blocked)
			fmt.Printf("Warned slots:   %d\n\n", stats.Warned)

			if len(result.Unfilled) > 0 {
				fmt.Printf("%sUnfilled:%s\n", colorRed, colorReset)
				for _, slot := range result.Unfilled {
					fmt.Printf("  ✗ %s %s\n", slot.Date, slot.ShiftKey)
				}
				fmt.Println()
			}

			printRuleSummary(result.Issues)
			return nil
		},
	}

	cmd.Flags().Bool("overwrite", false, "Replace an existing schedule for the month")

	return cmd
}

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <month>",
		Short: "Re-validate a stored month and refresh its blockers and warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			verbose, _ := cmd.Flags().GetBool("verbose")

			app.Logger.Debug("validate command", zap.String("month", month))

			result, err := services.ValidateMonth(app.Ctx, app.Database, app.Cfg, app.Logger, month)
			if err != nil {
				return err
			}

			stats := statsFor(result.Schedule)
			fmt.Printf("\n✓ Schedule for %s validated\n\n", month)
			fmt.Printf("Filled slots:  %d\n", stats.Filled)
			fmt.Printf("Blocked slots: %d\n", stats.Blocked)
			fmt.Printf("Warned slots:  %d\n\n", stats.Warned)

			printRuleSummary(result.Issues)
			if verbose {
				printAnnotations(result.Schedule)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "List every blocker and warning")

	return cmd
}
