package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

const feedQuery = `
	SELECT
		COALESCE(internal_code, ''),
		COALESCE(barcode, ''),
		COALESCE(name, ''),
		COALESCE(sale_price::text, ''),
		COALESCE(company, '')
	FROM price_feed
	ORDER BY position ASC
`

// PostgresSource reads the feed rows from a price_feed table, for stores
// whose ERP exports to a database instead of a JSON object.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := withTimeout(ctx, pingTimeout, pool.Ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]Record, error) {
	var out []Record

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, feedQuery)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, scanRecord)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	return out, nil
}

func scanRecord(row pgx.CollectableRow) (Record, error) {
	var code, barcode, name, price, company string
	if err := row.Scan(&code, &barcode, &name, &price, &company); err != nil {
		return Record{}, err
	}
	return Record{
		InternalCode: Field(code),
		Barcode:      Field(barcode),
		Name:         Field(name),
		SalePrice:    Field(price),
		Company:      Field(company),
	}, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
