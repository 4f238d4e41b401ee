package migrate

import (
	"context"

	"github.com/emberwick/emberwick-backend/pkg/config"
	"github.com/emberwick/emberwick-backend/pkg/db"
	"github.com/emberwick/emberwick-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot when the auto-migrate flag
// is set. Intended for dev environments only; prod deploys run cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil {
		return nil
	}
	if !cfg.Features.AutoMigrate || !cfg.App.IsDev() {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	if logg != nil {
		logg.Info(ctx, "running dev auto-migrations")
	}
	return Up(ctx, sqlDB, DefaultDir)
}
