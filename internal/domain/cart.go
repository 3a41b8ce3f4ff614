package domain

import "time"

// CartLine is one product+quantity record in the cart. At most one line
// exists per product id; Quantity is always >= 1 for a stored line.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ItemCount is recomputed from the lines on every call so it can never
// drift from the actual cart contents.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) Subtotal() float64 {
	subtotal := 0.0
	for _, line := range c.Lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	return subtotal
}
