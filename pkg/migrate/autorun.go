package migrate

import (
	"context"
	"fmt"

	"github.com/bdshop/storefront-backend/pkg/config"
	"github.com/bdshop/storefront-backend/pkg/db"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot when running in dev with
// STOREFRONT_AUTO_MIGRATE enabled, or always against sqlite.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	sqlite := client.Dialect() == "sqlite3"
	if !sqlite && (!cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate) {
		return nil
	}

	pool, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	runner, err := NewRunner(pool, client.Dialect(), logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "applying migrations at boot")
	return runner.Up(ctx)
}
