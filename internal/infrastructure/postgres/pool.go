package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/slick-api/pkg/config"
)

// httpConnHeadroom conexiones para las peticiones HTTP, además de una por worker de tareas.
const httpConnHeadroom = 10

const applicationName = "slick-api"

// PoolSize conexiones máximas del pool: DB_MAX_CONNS si está definido, si no workers + holgura HTTP.
func PoolSize(cfg config.DBConfig, workers int) int32 {
	if cfg.MaxConns > 0 {
		return int32(cfg.MaxConns)
	}
	if workers < 1 {
		workers = 1
	}
	return int32(workers + httpConnHeadroom)
}

// NewPool abre el pool y verifica la conexión. workers es el número de workers de
// tareas que compartirán el pool con el servidor HTTP.
func NewPool(ctx context.Context, cfg config.DBConfig, workers int) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(cfg, workers)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

func newPoolConfig(cfg config.DBConfig, workers int) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = PoolSize(cfg, workers)
	poolConfig.MinConns = int32(cfg.MinConns)
	if poolConfig.MinConns > poolConfig.MaxConns {
		poolConfig.MinConns = poolConfig.MaxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	if cfg.ForceIPv4 {
		poolConfig.ConnConfig.DialFunc = dialIPv4
	}

	// NUMERIC <-> shopspring/decimal en todas las conexiones.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// dialIPv4 conecta por la primera dirección IPv4 del host (DB_FORCE_IPV4, redes sin IPv6).
// Sin registros A usa el dial normal.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ips[0].String(), port))
}
