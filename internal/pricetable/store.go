// Package pricetable persists the editable price table and stock sizes and
// hands out immutable snapshots for pricing.
package pricetable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

// ErrNoPriceTable is returned before any price revision has been saved.
var ErrNoPriceTable = errors.New("no price table saved")

// Revision describes a saved price table version.
type Revision struct {
	ID        string
	Note      string
	CreatedAt string
}

// Store reads and writes price revisions and stock sizes.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Current loads the latest saved price table.
func (s *Store) Current(ctx context.Context) (pricing.PriceTable, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM price_revisions ORDER BY seq DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.PriceTable{}, ErrNoPriceTable
	}
	if err != nil {
		return pricing.PriceTable{}, fmt.Errorf("query latest price revision: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, unit_price FROM prices WHERE revision_id = ?
	`, id)
	if err != nil {
		return pricing.PriceTable{}, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	table := pricing.PriceTable{Revision: id, Prices: make(map[string]float64)}
	for rows.Next() {
		var key string
		var price float64
		if err := rows.Scan(&key, &price); err != nil {
			return pricing.PriceTable{}, fmt.Errorf("scan price: %w", err)
		}
		table.Prices[key] = price
	}
	if err := rows.Err(); err != nil {
		return pricing.PriceTable{}, fmt.Errorf("iterate prices: %w", err)
	}

	return table, nil
}

// Save stores prices as a new revision and returns it as a table.
func (s *Store) Save(ctx context.Context, prices map[string]float64, note string) (pricing.PriceTable, error) {
	table := pricing.PriceTable{Revision: uuid.NewString(), Prices: make(map[string]float64, len(prices))}
	for k, v := range prices {
		k = strings.TrimSpace(k)
		if k == "" {
			return pricing.PriceTable{}, fmt.Errorf("empty price key")
		}
		table.Prices[k] = v
	}
	if err := table.Validate(); err != nil {
		return pricing.PriceTable{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pricing.PriceTable{}, fmt.Errorf("begin price transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO price_revisions (id, note) VALUES (?, ?)
	`, table.Revision, note); err != nil {
		_ = tx.Rollback()
		return pricing.PriceTable{}, fmt.Errorf("insert price revision: %w", err)
	}

	for _, key := range table.Keys() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prices (revision_id, key, unit_price) VALUES (?, ?, ?)
		`, table.Revision, key, table.Prices[key]); err != nil {
			_ = tx.Rollback()
			return pricing.PriceTable{}, fmt.Errorf("insert price %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pricing.PriceTable{}, fmt.Errorf("commit price transaction: %w", err)
	}

	return table, nil
}

// Revisions lists saved revisions, newest first.
func (s *Store) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(note, ''), created_at
		FROM price_revisions
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query price revisions: %w", err)
	}
	defer rows.Close()

	revisions := make([]Revision, 0)
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.Note, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price revisions: %w", err)
	}

	return revisions, nil
}

// StockSizes lists the active stock sizes.
func (s *Store) StockSizes(ctx context.Context) ([]surcharge.CrossSection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT thickness, width
		FROM stock_sizes
		WHERE active = TRUE
		ORDER BY thickness, width
	`)
	if err != nil {
		return nil, fmt.Errorf("query stock sizes: %w", err)
	}
	defer rows.Close()

	sizes := make([]surcharge.CrossSection, 0)
	for rows.Next() {
		var cs surcharge.CrossSection
		if err := rows.Scan(&cs.Thickness, &cs.Width); err != nil {
			return nil, fmt.Errorf("scan stock size: %w", err)
		}
		sizes = append(sizes, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock sizes: %w", err)
	}

	return sizes, nil
}

// AddStockSize adds or reactivates a stock size.
func (s *Store) AddStockSize(ctx context.Context, cs surcharge.CrossSection) error {
	if cs.Thickness <= 0 || cs.Width <= 0 {
		return fmt.Errorf("stock size %vx%v must be positive", cs.Thickness, cs.Width)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_sizes (thickness, width, active)
		VALUES (?, ?, TRUE)
		ON CONFLICT(thickness, width) DO UPDATE SET
			active = TRUE,
			updated_at = CURRENT_TIMESTAMP
	`, cs.Thickness, cs.Width)
	if err != nil {
		return fmt.Errorf("upsert stock size: %w", err)
	}
	return nil
}

// RemoveStockSize deactivates a stock size.
func (s *Store) RemoveStockSize(ctx context.Context, cs surcharge.CrossSection) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE stock_sizes
		SET active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE thickness = ? AND width = ?
	`, cs.Thickness, cs.Width)
	if err != nil {
		return fmt.Errorf("deactivate stock size: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate stock size: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("stock size %vx%v: %w", cs.Thickness, cs.Width, sql.ErrNoRows)
	}
	return nil
}
