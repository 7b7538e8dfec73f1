package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/services"
)

// RequestsCmd creates the requests command
func RequestsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "requests [month]",
		Short: "List overtime requests (all months when none is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var month string
			if len(args) > 0 {
				month = args[0]
			}

			app.Logger.Debug("requests command", zap.String("month", month))

			requests, err := services.ListRequests(app.Ctx, app.Database, app.Logger, month)
			if err != nil {
				return err
			}

			if len(requests) == 0 {
				fmt.Println("No overtime requests.")
				return nil
			}

			fmt.Printf("\nFound %d overtime requests:\n\n", len(requests))
			for _, request := range requests {
				printRequest(request)
			}
			fmt.Println()
			return nil
		},
	}
}

// ConsentCmd creates the consent command
func ConsentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "consent <request_id>",
		Short: "Record the staff member's consent to an overtime request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := services.ConsentRequest(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Consent recorded for %s on %s\n\n", request.StaffID, request.Date)
			return nil
		},
	}
}

// DeclineCmd creates the decline command
func DeclineCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decline <request_id>",
		Short: "Record that the staff member declined an overtime request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := services.DeclineRequest(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request %s declined\n\n", request.ID)
			return nil
		},
	}
}

// FinalizeCmd creates the finalize command
func FinalizeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <request_id>",
		Short: "Apply a consented overtime request to its month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.FinalizeRequest(app.Ctx, app.Database, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			request := result.Request
			if !result.Committed {
				fmt.Printf("\n%s✗ Request %s is still blocked:%s %s\n\n", colorRed, request.ID, colorReset, request.LastError)
				return nil
			}

			fmt.Printf("\n✓ Assigned %s to %s %s\n\n", request.StaffID, request.Date, request.ShiftKey)
			printRuleSummary(result.Issues)
			return nil
		},
	}
}
