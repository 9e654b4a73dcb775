package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/telemetry"
)

const reconcileMaxTries = 4

// Report summarizes a reconciliation pass.
type Report struct {
	Checked  int
	Repaired int
	Failed   int
}

// Reconcile scans the registry for organizations whose partition is
// missing and recreates them. This is the repair path for creates that
// failed after the metadata writes; each recreate is retried with
// exponential backoff before being counted as failed.
//
// The pass is best effort per organization: a repair failure is logged
// and counted but does not stop the scan.
func (m *Manager) Reconcile(ctx context.Context) (*Report, error) {
	started := time.Now()

	orgs, err := m.orgs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	report := &Report{Checked: len(orgs)}

	for _, org := range orgs {
		exists, err := m.partitions.Exists(ctx, org.PartitionName)
		if err != nil {
			return nil, fmt.Errorf("failed to probe partition %s: %w", org.PartitionName, err)
		}

		if exists {
			continue
		}

		log.Warn().
			Str("org_id", org.OrgID.String()).
			Str("partition", org.PartitionName).
			Msg("Partition missing, recreating")

		if err := m.repairPartition(ctx, org); err != nil {
			report.Failed++
			telemetry.GetMetrics().ReconcileFailuresTotal.Add(ctx, 1)
			log.Error().Err(err).
				Str("org_id", org.OrgID.String()).
				Str("partition", org.PartitionName).
				Msg("Failed to recreate partition")
			continue
		}

		report.Repaired++
		telemetry.GetMetrics().PartitionsRepairedTotal.Add(ctx, 1)
	}

	telemetry.GetMetrics().ReconcileRunsTotal.Add(ctx, 1)
	telemetry.GetMetrics().ReconcileDuration.Record(ctx, float64(time.Since(started).Milliseconds()))

	log.Info().
		Int("checked", report.Checked).
		Int("repaired", report.Repaired).
		Int("failed", report.Failed).
		Msg("Reconciliation pass complete")

	return report, nil
}

func (m *Manager) repairPartition(ctx context.Context, org *models.Organization) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 200 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, m.partitions.Create(ctx, org.PartitionName, org.OrgID)
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(reconcileMaxTries),
	)

	return err
}
