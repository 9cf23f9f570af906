package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rebelice/opsgrid/internal/models"
)

// Pool wraps pgxpool with our configuration
type Pool struct {
	pool   *pgxpool.Pool
	config models.ConnectionConfig
}

// NewPool creates a new connection pool and checks it with a ping
func NewPool(ctx context.Context, config models.ConnectionConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	// A dashboard reads one table at a time
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{
		pool:   pool,
		config: config,
	}, nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ping tests the connection
func (p *Pool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Config returns the configuration the pool was opened with
func (p *Pool) Config() models.ConnectionConfig {
	return p.config
}

// QueryResult holds column names in select order and one map per row
type QueryResult struct {
	Columns []string
	Types   []uint32 // type OIDs, parallel to Columns
	Rows    []map[string]any
}

// Query executes a query and returns its rows as maps
func (p *Pool) Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	res, err := p.QueryWithColumns(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// QueryWithColumns executes a query and returns column names and types in order
func (p *Pool) QueryWithColumns(ctx context.Context, sql string, args ...any) (*QueryResult, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	res := &QueryResult{
		Columns: make([]string, len(fieldDescriptions)),
		Types:   make([]uint32, len(fieldDescriptions)),
	}
	for i, fd := range fieldDescriptions {
		res.Columns[i] = fd.Name
		res.Types[i] = fd.DataTypeOID
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]any, len(values))
		for i, col := range res.Columns {
			row[col] = values[i]
		}
		res.Rows = append(res.Rows, row)
	}

	return res, rows.Err()
}

// BuildConnectionString creates a PostgreSQL keyword/value connection string
func BuildConnectionString(config models.ConnectionConfig) string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s database=%s sslmode=%s",
		config.Host,
		config.Port,
		config.User,
		config.Database,
		sslMode,
	)

	if config.Password != "" {
		connStr += fmt.Sprintf(" password=%s", config.Password)
	}

	return connStr
}
