package domain

const (
	// ShippingFlatRate is charged on every order regardless of contents.
	ShippingFlatRate = 10.0

	TaxRate = 0.1
)

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// CalculateTotals derives the order totals from a cart subtotal.
// Tax applies to the subtotal only, not to shipping.
func CalculateTotals(subtotal float64) Totals {
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingFlatRate,
		Tax:      tax,
		Total:    subtotal + ShippingFlatRate + tax,
	}
}
