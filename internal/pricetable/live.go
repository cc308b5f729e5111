package pricetable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Simplici0/houtcalc/internal/pricing"
	"github.com/Simplici0/houtcalc/internal/surcharge"
)

// Live is the single writable price table. Writers are serialized and
// publish a fresh table; readers take a snapshot that later writes never
// touch.
type Live struct {
	store *Store

	mu     sync.Mutex
	prices atomic.Pointer[pricing.PriceTable]
	sizes  atomic.Pointer[[]surcharge.CrossSection]
}

// NewLive returns a Live table backed by store. Call Reload before use.
func NewLive(store *Store) *Live {
	return &Live{store: store}
}

// Reload reads the current revision and stock sizes from the store.
func (l *Live) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	table, err := l.store.Current(ctx)
	if errors.Is(err, ErrNoPriceTable) {
		table = pricing.PriceTable{Prices: map[string]float64{}}
	} else if err != nil {
		return fmt.Errorf("load price table: %w", err)
	}

	sizes, err := l.store.StockSizes(ctx)
	if err != nil {
		return fmt.Errorf("load stock sizes: %w", err)
	}

	l.prices.Store(&table)
	l.sizes.Store(&sizes)
	return nil
}

// Snapshot returns a private copy of the current price table.
func (l *Live) Snapshot() pricing.PriceTable {
	t := l.prices.Load()
	if t == nil {
		return pricing.PriceTable{Prices: map[string]float64{}}
	}
	return t.Clone()
}

// StockSizes returns a copy of the current stock sizes.
func (l *Live) StockSizes() []surcharge.CrossSection {
	s := l.sizes.Load()
	if s == nil {
		return nil
	}
	out := make([]surcharge.CrossSection, len(*s))
	copy(out, *s)
	return out
}

// Update applies edit to a copy of the current prices, saves it as a new
// revision and publishes it.
func (l *Live) Update(ctx context.Context, note string, edit func(prices map[string]float64)) (pricing.PriceTable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.Snapshot()
	edit(next.Prices)

	saved, err := l.store.Save(ctx, next.Prices, note)
	if err != nil {
		return pricing.PriceTable{}, err
	}

	published := saved.Clone()
	l.prices.Store(&published)
	return saved, nil
}

// AddStockSize persists cs and refreshes the published sizes.
func (l *Live) AddStockSize(ctx context.Context, cs surcharge.CrossSection) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.AddStockSize(ctx, cs); err != nil {
		return err
	}
	sizes, err := l.store.StockSizes(ctx)
	if err != nil {
		return fmt.Errorf("load stock sizes: %w", err)
	}
	l.sizes.Store(&sizes)
	return nil
}
