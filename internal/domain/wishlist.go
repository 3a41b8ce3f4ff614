package domain

import "time"

// WishlistEntry is a saved product. Entries have set semantics keyed by
// product id; re-adding an existing product is a no-op.
type WishlistEntry struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}
