package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

func validateShipping(info domain.ShippingInfo) error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", info.FirstName},
		{"lastName", info.LastName},
		{"email", info.Email},
		{"phone", info.Phone},
		{"address", info.Address},
		{"city", info.City},
		{"state", info.State},
		{"zipCode", info.ZipCode},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("Please fill in all required fields: %s", strings.Join(missing, ", ")),
		}
	}

	if !emailRe.MatchString(info.Email) {
		return &ValidationError{Message: "Please enter a valid email address"}
	}

	return nil
}

func validatePayment(info domain.PaymentInfo) error {
	required := []struct {
		name  string
		value string
	}{
		{"cardNumber", info.CardNumber},
		{"cardName", info.CardName},
		{"expiryDate", info.ExpiryDate},
		{"cvv", info.CVV},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("Please fill in all required fields: %s", strings.Join(missing, ", ")),
		}
	}

	// Whitespace is stripped before the digit check; other separators are
	// not, so a dashed number fails.
	cardNumber := strings.ReplaceAll(info.CardNumber, " ", "")
	if !cardNumberRe.MatchString(cardNumber) {
		return &ValidationError{Message: "Please enter a valid 16-digit card number"}
	}

	if !expiryRe.MatchString(info.ExpiryDate) {
		return &ValidationError{Message: "Please enter a valid expiry date (MM/YY)"}
	}

	if !cvvRe.MatchString(info.CVV) {
		return &ValidationError{Message: "Please enter a valid CVV"}
	}

	return nil
}
