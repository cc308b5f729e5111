package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

const defaultRevisionNote = "standaard prijslijst"

// Config contains the values required by startup seed.
type Config struct {
	Prices     map[string]float64
	StockSizes []surcharge.CrossSection
}

// Defaults returns the built-in price list and stock sizes.
func Defaults() Config {
	return Config{
		Prices:     pricing.DefaultPrices(),
		StockSizes: surcharge.DefaultStockSizes,
	}
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensurePriceTable(ctx, tx, cfg.Prices, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureStockSizes(ctx, tx, cfg.StockSizes, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePriceTable(ctx context.Context, tx *sql.Tx, prices map[string]float64, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM price_revisions)`).Scan(&exists); err != nil {
		return fmt.Errorf("check price revision existence: %w", err)
	}
	if exists {
		return nil
	}

	table := pricing.PriceTable{Revision: uuid.NewString(), Prices: prices}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("validate seed prices: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO price_revisions (id, note) VALUES (?, ?)
	`, table.Revision, defaultRevisionNote); err != nil {
		return fmt.Errorf("insert seed price revision: %w", err)
	}
	stats.Inserts++

	for _, key := range table.Keys() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prices (revision_id, key, unit_price) VALUES (?, ?, ?)
		`, table.Revision, key, table.Prices[key]); err != nil {
			return fmt.Errorf("insert seed price %s: %w", key, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureStockSizes(ctx context.Context, tx *sql.Tx, sizes []surcharge.CrossSection, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stock_sizes LIMIT 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check stock size existence: %w", err)
	}
	if exists {
		return nil
	}

	for _, cs := range sizes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_sizes (thickness, width, active)
			VALUES (?, ?, TRUE)
		`, cs.Thickness, cs.Width); err != nil {
			return fmt.Errorf("insert stock size %vx%v: %w", cs.Thickness, cs.Width, err)
		}
		stats.Inserts++
	}
	return nil
}
