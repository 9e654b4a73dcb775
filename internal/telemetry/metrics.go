package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/tenantd"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Lifecycle metrics
	TenantsCreatedTotal metric.Int64Counter
	TenantsRenamedTotal metric.Int64Counter
	TenantsDeletedTotal metric.Int64Counter

	// Reconciliation metrics
	ReconcileRunsTotal      metric.Int64Counter
	PartitionsRepairedTotal metric.Int64Counter
	ReconcileFailuresTotal  metric.Int64Counter
	ReconcileDuration       metric.Float64Histogram

	// Auth metrics
	LoginsTotal        metric.Int64Counter
	LoginFailuresTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	// Lifecycle metrics
	m.TenantsCreatedTotal, _ = meter.Int64Counter(
		"tenantd.tenants.created.total",
		metric.WithDescription("Total number of tenants created"),
		metric.WithUnit("{tenant}"),
	)

	m.TenantsRenamedTotal, _ = meter.Int64Counter(
		"tenantd.tenants.renamed.total",
		metric.WithDescription("Total number of tenant renames"),
		metric.WithUnit("{tenant}"),
	)

	m.TenantsDeletedTotal, _ = meter.Int64Counter(
		"tenantd.tenants.deleted.total",
		metric.WithDescription("Total number of tenants deleted"),
		metric.WithUnit("{tenant}"),
	)

	// Reconciliation metrics
	m.ReconcileRunsTotal, _ = meter.Int64Counter(
		"tenantd.reconcile.runs.total",
		metric.WithDescription("Total number of reconciliation passes"),
		metric.WithUnit("{run}"),
	)

	m.PartitionsRepairedTotal, _ = meter.Int64Counter(
		"tenantd.reconcile.partitions_repaired.total",
		metric.WithDescription("Total number of missing partitions recreated"),
		metric.WithUnit("{partition}"),
	)

	m.ReconcileFailuresTotal, _ = meter.Int64Counter(
		"tenantd.reconcile.failures.total",
		metric.WithDescription("Total number of partition repairs that exhausted retries"),
		metric.WithUnit("{partition}"),
	)

	m.ReconcileDuration, _ = meter.Float64Histogram(
		"tenantd.reconcile.duration",
		metric.WithDescription("Duration of reconciliation passes"),
		metric.WithUnit("ms"),
	)

	// Auth metrics
	m.LoginsTotal, _ = meter.Int64Counter(
		"tenantd.auth.logins.total",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)

	m.LoginFailuresTotal, _ = meter.Int64Counter(
		"tenantd.auth.login_failures.total",
		metric.WithDescription("Total number of failed login attempts"),
		metric.WithUnit("{attempt}"),
	)

	return m
}
