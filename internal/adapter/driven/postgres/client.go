package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor is an interface that both *pgxpool.Pool and pgx.Tx implement.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Client wraps a PostgreSQL connection pool.
type Client struct {
	Pool    *pgxpool.Pool
	console types.ConsoleInterface
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MinConns        int32
	MaxConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig é suficiente para o fluxo sequencial da sincronização.
var DefaultPoolConfig = PoolConfig{
	MinConns:        1,
	MaxConns:        4,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: 10 * time.Minute,
}

// DSN monta a URL de conexão a partir do ambiente resolvido.
func DSN(env *types.Environment) string {
	port := env.DBPort
	if port == 0 {
		port = 5432
	}
	sslMode := env.DBSSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(env.DBUser, env.DBPassword),
		Host:     net.JoinHostPort(env.DBHost, strconv.Itoa(port)),
		Path:     "/" + env.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

// New abre o pool e verifica a conexão.
func New(ctx context.Context, console types.ConsoleInterface, env *types.Environment, poolConf PoolConfig) (*Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(DSN(env))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database configuration: %w", err)
	}

	config.MinConns = poolConf.MinConns
	config.MaxConns = poolConf.MaxConns
	config.MaxConnLifetime = poolConf.ConnMaxLifetime
	config.MaxConnIdleTime = poolConf.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(connCtx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	console.LogDebug("PostgreSQL pool ready (database=%s, max_conns=%d)", env.DBName, poolConf.MaxConns)
	return &Client{Pool: pool, console: console}, nil
}

// Close closes the connection pool.
func (c *Client) Close() {
	c.Pool.Close()
}

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
