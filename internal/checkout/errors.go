package checkout

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	ErrWrongStep = errors.New("operation not valid at the current checkout step")
)

// ValidationError carries the human-readable message shown to the
// shopper. It blocks the step transition and never corrupts state.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
