package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <date> <shift_key> [staff_id]",
		Short: "Assign a staff member to a shift, or clear the shift when no staff id is given",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			req := services.AssignRequest{
				Date:     args[0],
				ShiftKey: args[1],
				Force:    force,
			}
			if len(req.Date) >= 7 {
				req.Month = req.Date[:7]
			}
			if len(args) > 2 {
				req.StaffID = args[2]
			}

			app.Logger.Debug("assign command",
				zap.String("date", req.Date),
				zap.String("shift", req.ShiftKey),
				zap.String("staff", req.StaffID),
				zap.Bool("force", force))

			result, err := services.AssignShift(app.Ctx, app.Database, app.Cfg, app.Logger, req)
			if err != nil {
				return err
			}

			printIssues("Blockers", result.Blockers)
			printIssues("Warnings", result.Warnings)

			if result.Overtime != nil {
				fmt.Printf("Overtime request %s is %s\n", result.Overtime.ID, result.Overtime.Status)
			}

			switch {
			case result.Committed && req.StaffID == "":
				fmt.Printf("\n✓ Cleared %s %s\n\n", req.Date, req.ShiftKey)
			case result.Committed:
				fmt.Printf("\n✓ Assigned %s to %s %s\n\n", req.StaffID, req.Date, req.ShiftKey)
			case result.Overtime != nil:
				fmt.Printf("\n%sNot assigned:%s waiting for consent, finalize the request once it is given\n\n", colorYellow, colorReset)
			default:
				fmt.Printf("\n%s✗ Not assigned:%s the slot is blocked, use --force to assign anyway\n\n", colorRed, colorReset)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Assign despite blockers or a pending overtime request")

	return cmd
}
