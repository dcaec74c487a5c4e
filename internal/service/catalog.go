// Package service contains the business logic for the loan request service.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/loan-request-service/internal/client"
	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/logger"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

// ProductSource is the read side of the inventory cache.
type ProductSource interface {
	Products() []model.Product
	Ready() bool
}

// Catalog caches the lendable inventory. The list is replaced wholesale on each
// load and is never mutated in place, so readers need no lock.
type Catalog struct {
	api      client.LoanAPI
	products atomic.Value // holds []model.Product
	ready    atomic.Bool
	loadedAt atomic.Value // holds time.Time
	loadMu   sync.Mutex
}

// NewCatalog creates an empty, not-yet-ready catalog.
func NewCatalog(api client.LoanAPI) *Catalog {
	c := &Catalog{api: api}
	c.products.Store([]model.Product{})
	return c
}

// Load fetches the inventory once. On failure the list is left empty and the
// error is logged and returned; there is no retry. The catalog is ready
// after the attempt either way.
func (c *Catalog) Load(ctx context.Context) error {
	return c.load(ctx, false)
}

// Reload refreshes the inventory. Unlike Load, a failed reload keeps the
// previous list.
func (c *Catalog) Reload(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Catalog) load(ctx context.Context, keepOnError bool) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	defer c.ready.Store(true)

	log := logger.Component("catalog")
	start := time.Now()

	products, err := c.api.ListProducts(ctx)
	metrics.RecordCatalogLoad(len(products), err)
	if err != nil {
		log.Error().Err(err).Bool("reload", keepOnError).Msg("Failed to load inventory")
		if !keepOnError {
			c.products.Store([]model.Product{})
		}
		return err
	}

	if products == nil {
		products = []model.Product{}
	}
	c.products.Store(products)
	c.loadedAt.Store(time.Now())

	log.Info().
		Int("products", len(products)).
		Dur("duration", time.Since(start)).
		Msg("Inventory loaded")
	return nil
}

// Products returns a copy of the cached inventory in API order.
func (c *Catalog) Products() []model.Product {
	products, _ := c.products.Load().([]model.Product)
	out := make([]model.Product, len(products))
	copy(out, products)
	return out
}

// Ready reports whether the first load attempt has finished.
func (c *Catalog) Ready() bool {
	return c.ready.Load()
}

// LoadedAt returns the time of the last successful load, or the zero time.
func (c *Catalog) LoadedAt() time.Time {
	t, _ := c.loadedAt.Load().(time.Time)
	return t
}
