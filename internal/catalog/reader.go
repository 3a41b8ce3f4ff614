package catalog

import (
	"context"
	"errors"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
)

var (
	// ErrUnavailable marks a failed load the caller may retry manually.
	ErrUnavailable = errors.New("catalog unavailable")

	ErrProductNotFound = errors.New("product not found")
)

const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

type ListOptions struct {
	Limit int
	Sort  string
}

// Reader is the read-only accessor over the remote product catalog.
// Implementations are expected to be slow and fallible; errors surface to
// the caller, never as a crash.
type Reader interface {
	ListProducts(ctx context.Context, opts ListOptions) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}
