package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/wolfeidau/tenantd/internal/auth"
	"github.com/wolfeidau/tenantd/internal/credentials"
	"github.com/wolfeidau/tenantd/internal/logger"
	"github.com/wolfeidau/tenantd/internal/server"
	"github.com/wolfeidau/tenantd/internal/store"
	memorystore "github.com/wolfeidau/tenantd/internal/store/memory"
	postgresstore "github.com/wolfeidau/tenantd/internal/store/postgres"
	"github.com/wolfeidau/tenantd/internal/telemetry"
	"github.com/wolfeidau/tenantd/internal/tenant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"localhost:8080" env:"TENANTD_LISTEN"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"*" env:"TENANTD_CORS_ORIGINS"`

	// Token configuration
	TokenSecret string        `help:"secret key for HMAC signing of bearer tokens" env:"TENANTD_TOKEN_SECRET"`
	TokenTTL    time.Duration `help:"bearer token time to live" default:"60m" env:"TENANTD_TOKEN_TTL"`

	// Operational modes
	Tracing bool `help:"enable tracing" default:"false" env:"TENANTD_TRACING"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"TENANTD_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"TENANTD_POSTGRES_AUTO_MIGRATE"`
}

func (c *ServerCmd) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("token secret is required (--token-secret or TENANTD_TOKEN_SECRET)")
	}
	if len(c.TokenSecret) < 32 {
		return errors.New("token secret must be at least 32 bytes (256 bits) for HMAC-SHA256")
	}
	if c.StoreType == "postgres" && c.PostgresStore.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *ServerCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	// Setup telemetry if enabled
	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "tenantd", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	// Create stores based on store type
	var (
		orgStore       store.OrganizationStore
		adminStore     store.AdminStore
		partitionStore store.PartitionStore
	)

	switch c.StoreType {
	case "postgres":
		// Shared connection pool for all PostgreSQL stores
		pool, err := newPostgresPool(ctx, &c.PostgresStore)
		if err != nil {
			return err
		}
		defer pool.Close()

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		orgStore = postgresstore.NewOrganizationStore(pool)
		adminStore = postgresstore.NewAdminStore(pool)
		partitionStore = postgresstore.NewPartitionStore(pool)

		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		orgStore = memorystore.NewOrganizationStore()
		adminStore = memorystore.NewAdminStore()
		partitionStore = memorystore.NewPartitionStore()
		log.Info().Msg("Using in-memory stores")
	}

	tokens, err := credentials.NewTokens([]byte(c.TokenSecret), c.TokenTTL)
	if err != nil {
		return err
	}

	manager := tenant.NewManager(orgStore, adminStore, partitionStore)
	gateway := auth.NewGateway(adminStore, tokens)

	handler := server.NewServer(manager, gateway).Handler(log)

	handler = withCORS(c.CORSOrigins, handler)
	if c.Tracing {
		handler = otelhttp.NewHandler(handler, "tenantd.http")
	}

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return configureHTTPServer(c.Listen, handler).ListenAndServe()
}

func newPostgresPool(ctx context.Context, flags *PostgresStoreFlags) (*pgxpool.Pool, error) {
	poolCfg := &postgresstore.PoolConfig{
		ConnString:      flags.ConnString,
		MaxConns:        flags.MaxConns,
		MinConns:        flags.MinConns,
		MaxConnLifetime: flags.MaxConnLifetime,
		MaxConnIdleTime: flags.MaxConnIdleTime,
	}

	pool, err := postgresstore.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return pool, nil
}

// withCORS adds CORS support to the API handler.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return middleware.Handler(h)
}
