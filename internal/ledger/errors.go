package ledger

import "errors"

var (
	ErrNoIdentity        = errors.New("no identity is bound to the ledger")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEntryNotFound     = errors.New("entry not found in wishlist")
	ErrIllegalTransition = errors.New("illegal order status transition")
)
