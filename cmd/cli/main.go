package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/cmd/cli/commands"
	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/dataset"
	"github.com/jakechorley/staff-roster/pkg/postgres"
	"github.com/jakechorley/staff-roster/pkg/utils/logging"
)

var (
	env  string
	app  = &commands.AppContext{}
	pgDB *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Staff roster CLI - generate and maintain monthly shift schedules",
		Long:  `A CLI tool for generating monthly staff schedules, validating them against the roster rules, and handling overtime consent.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pgDB != nil {
				pgDB.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.RequestsCmd(app))
	rootCmd.AddCommand(commands.ConsentCmd(app))
	rootCmd.AddCommand(commands.DeclineCmd(app))
	rootCmd.AddCommand(commands.FinalizeCmd(app))
	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up settings, logger, config and the store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Environment files are optional; the process environment wins
	app.Settings, err = config.LoadSettings(".env", fmt.Sprintf(".env.%s", env))
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, app.Settings.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = app.Settings.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("shifts", len(app.Cfg.Shifts)),
		zap.Int("holidays", len(app.Cfg.Holidays)),
		zap.Int("semesters", len(app.Cfg.Semesters)))

	if app.Settings.DatabaseURL != "" {
		// Connect to PostgreSQL
		app.Logger.Info("Connecting to database")
		pgDB, err = postgres.NewDB(app.Ctx, app.Settings.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pgDB.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = pgDB
		app.Logger.Info("Database initialized successfully")
		return nil
	}

	// Open the dataset
	app.Logger.Info("Opening dataset", zap.String("path", app.Cfg.DatasetPath))
	store := dataset.NewFileStore(app.Cfg.DatasetPath)
	if _, err := store.Load(app.Ctx); err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	app.Database = store
	app.Logger.Info("Dataset opened successfully")

	return nil
}
