package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Settings *config.Settings
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
}
