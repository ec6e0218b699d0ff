package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ntdung/trendworker/internal/analytics"
	"ntdung/trendworker/internal/scrape"
)

// PostgresStore implements Store on a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and verifies the connection
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// GetProduct retrieves a single tracked product by id
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*TrackedProduct, error) {
	query := `
		SELECT id, user_id, name, url, platform,
		       current_price, current_sales, current_rating,
		       is_active, created_at, updated_at
		FROM tracked_products
		WHERE id = $1`

	p := &TrackedProduct{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.URL, &p.Platform,
		&p.CurrentPrice, &p.CurrentSales, &p.CurrentRating,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// ListProducts returns a user's active tracked products, newest first
func (s *PostgresStore) ListProducts(ctx context.Context, userID string) ([]TrackedProduct, error) {
	query := `
		SELECT id, user_id, name, url, platform,
		       current_price, current_sales, current_rating,
		       is_active, created_at, updated_at
		FROM tracked_products
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListActive returns every active tracked product across users
func (s *PostgresStore) ListActive(ctx context.Context) ([]TrackedProduct, error) {
	query := `
		SELECT id, user_id, name, url, platform,
		       current_price, current_sales, current_rating,
		       is_active, created_at, updated_at
		FROM tracked_products
		WHERE is_active
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]TrackedProduct, error) {
	var products []TrackedProduct
	for rows.Next() {
		var p TrackedProduct
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.URL, &p.Platform,
			&p.CurrentPrice, &p.CurrentSales, &p.CurrentRating,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateCurrent stores the latest observed fields on the product
func (s *PostgresStore) UpdateCurrent(ctx context.Context, productID string, p scrape.Product) error {
	query := `
		UPDATE tracked_products SET
			name = CASE WHEN $2 <> '' THEN $2 ELSE name END,
			current_price = $3,
			current_sales = $4,
			current_rating = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, productID, p.Name, p.Price, p.Sales, p.Rating)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// GetSnapshots returns a product's snapshots since the given date,
// ordered ascending by capture day
func (s *PostgresStore) GetSnapshots(ctx context.Context, productID string, since time.Time) ([]analytics.Snapshot, error) {
	query := `
		SELECT product_id, price, sales_count, rating, captured_at
		FROM product_snapshots
		WHERE product_id = $1 AND snapshot_date >= $2::date
		ORDER BY snapshot_date ASC`

	rows, err := s.pool.Query(ctx, query, productID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []analytics.Snapshot
	for rows.Next() {
		var snap analytics.Snapshot
		if err := rows.Scan(&snap.ProductID, &snap.Price, &snap.SalesCount, &snap.Rating, &snap.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// UpsertSnapshot writes the snapshot for its capture day. The
// (product_id, snapshot_date) constraint makes a later write for the
// same day overwrite the earlier one.
func (s *PostgresStore) UpsertSnapshot(ctx context.Context, snap analytics.Snapshot) error {
	query := `
		INSERT INTO product_snapshots (product_id, snapshot_date, price, sales_count, rating, captured_at)
		VALUES ($1, $2::date, $3, $4, $5, $2)
		ON CONFLICT (product_id, snapshot_date) DO UPDATE SET
			price = EXCLUDED.price,
			sales_count = EXCLUDED.sales_count,
			rating = EXCLUDED.rating,
			captured_at = EXCLUDED.captured_at`

	_, err := s.pool.Exec(ctx, query, snap.ProductID, snap.CapturedAt, snap.Price, snap.SalesCount, snap.Rating)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}
