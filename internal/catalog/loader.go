package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Loader serves product listings for a view. Fetches are fire-and-dispatch
// with no cancellation, so a superseded fetch's result is discarded if a
// newer request has already resolved: each Refresh takes a generation
// number and only the highest resolved generation is applied.
type Loader struct {
	reader Reader
	sfg    singleflight.Group // Prevents duplicate in-flight fetches for same options

	mu         sync.RWMutex
	gen        uint64
	appliedGen uint64
	products   []domain.Product
}

func NewLoader(reader Reader) *Loader {
	return &Loader{reader: reader}
}

// Refresh fetches the listing for opts and installs it as the current
// snapshot unless a later request already resolved (last-request-wins).
// The fetched products are returned either way.
func (l *Loader) Refresh(ctx context.Context, opts ListOptions) ([]domain.Product, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	key := fmt.Sprintf("limit=%d&sort=%s", opts.Limit, opts.Sort)
	v, err, _ := l.sfg.Do(key, func() (interface{}, error) {
		return l.reader.ListProducts(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	products := v.([]domain.Product)

	l.mu.Lock()
	if gen > l.appliedGen {
		l.appliedGen = gen
		l.products = products
	}
	l.mu.Unlock()

	return products, nil
}

// Products returns the most recently applied snapshot.
func (l *Loader) Products() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]domain.Product, len(l.products))
	copy(snapshot, l.products)
	return snapshot
}
