package store

import (
	"context"
	"time"

	"ntdung/trendworker/internal/analytics"
	"ntdung/trendworker/internal/scrape"
)

// TrackedProduct is one marketplace listing a user follows
type TrackedProduct struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	URL           string          `json:"url"`
	Platform      scrape.Platform `json:"platform"`
	CurrentPrice  int64           `json:"current_price"`
	CurrentSales  int64           `json:"current_sales"`
	CurrentRating float64         `json:"current_rating"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Store is the datastore boundary. Snapshot uniqueness per
// (product, calendar day) is owned here: a later write for the same day
// overwrites the earlier one.
type Store interface {
	// GetProduct retrieves one tracked product; nil without error when
	// it does not exist
	GetProduct(ctx context.Context, id string) (*TrackedProduct, error)

	// ListProducts returns a user's active tracked products
	ListProducts(ctx context.Context, userID string) ([]TrackedProduct, error)

	// ListActive returns every active tracked product across users
	ListActive(ctx context.Context) ([]TrackedProduct, error)

	// UpdateCurrent stores the latest observed fields on the product
	UpdateCurrent(ctx context.Context, productID string, p scrape.Product) error

	// GetSnapshots returns a product's snapshots since the given date,
	// ordered ascending by capture time
	GetSnapshots(ctx context.Context, productID string, since time.Time) ([]analytics.Snapshot, error)

	// UpsertSnapshot writes the snapshot for its capture day
	UpsertSnapshot(ctx context.Context, snap analytics.Snapshot) error

	// Close releases the underlying connections
	Close()
}
