package commands

import (
	"context"
	"errors"

	"github.com/wolfeidau/tenantd/internal/logger"
	postgresstore "github.com/wolfeidau/tenantd/internal/store/postgres"
)

type MigrateCmd struct {
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Validate() error {
	if c.PostgresStore.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	pool, err := newPostgresPool(ctx, &c.PostgresStore)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgresstore.Migrate(ctx, pool); err != nil {
		return err
	}

	log.Info().Msg("Database migrations completed")

	return nil
}
