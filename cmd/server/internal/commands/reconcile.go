package commands

import (
	"context"
	"errors"

	"github.com/wolfeidau/tenantd/internal/logger"
	postgresstore "github.com/wolfeidau/tenantd/internal/store/postgres"
	"github.com/wolfeidau/tenantd/internal/tenant"
)

type ReconcileCmd struct {
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *ReconcileCmd) Validate() error {
	if c.PostgresStore.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *ReconcileCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	pool, err := newPostgresPool(ctx, &c.PostgresStore)
	if err != nil {
		return err
	}
	defer pool.Close()

	manager := tenant.NewManager(
		postgresstore.NewOrganizationStore(pool),
		postgresstore.NewAdminStore(pool),
		postgresstore.NewPartitionStore(pool),
	)

	report, err := manager.Reconcile(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("checked", report.Checked).
		Int("repaired", report.Repaired).
		Int("failed", report.Failed).
		Msg("Reconciliation finished")

	return nil
}
