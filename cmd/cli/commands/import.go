package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/services"
	"github.com/jakechorley/staff-roster/pkg/dataset"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset.yaml>",
		Short: "Replace the staff, availability, absence and consent data with a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			app.Logger.Debug("import command", zap.String("path", path))

			importer, ok := app.Database.(db.ReferenceImporter)
			if !ok {
				return fmt.Errorf("the configured store does not support imports")
			}

			source, err := dataset.NewFileStore(path).Load(app.Ctx)
			if err != nil {
				return err
			}

			err = services.ImportReference(app.Ctx, importer, app.Logger, db.ReferenceData{
				Staff:        source.Staff,
				Availability: source.Availability,
				Absences:     source.Absences,
				Consents:     source.Consents,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Reference data imported!\n\n")
			fmt.Printf("Staff:        %d\n", len(source.Staff))
			fmt.Printf("Availability: %d\n", len(source.Availability))
			fmt.Printf("Absences:     %d\n", len(source.Absences))
			fmt.Printf("Consents:     %d\n\n", len(source.Consents))
			return nil
		},
	}
}
