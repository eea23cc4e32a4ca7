// internal/domain/checkout/entity.go
package checkout

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/your-org/swiftcart/internal/domain/cart"
	"github.com/your-org/swiftcart/internal/domain/pricing"
)

// State represents the checkout lifecycle state
type State string

const (
	StateIdle       State = "idle"
	StateOpen       State = "open"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

// PaymentMethod represents the selected payment option
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentPaypal PaymentMethod = "paypal"
	PaymentCash   PaymentMethod = "cash"
)

// Valid reports whether the payment method is one of the supported options
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCredit, PaymentPaypal, PaymentCash:
		return true
	}
	return false
}

// RequiresCard reports whether card fields are required for submission
func (m PaymentMethod) RequiresCard() bool {
	return m == PaymentCredit
}

// Form holds the contact, shipping and payment input collected while the
// checkout is open. Card fields are only required when the payment method
// is credit.
type Form struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	CardNumber    string        `json:"card_number,omitempty"`
	CardExpiry    string        `json:"card_expiry,omitempty"`
	CardCVV       string        `json:"card_cvv,omitempty"`
	CardHolder    string        `json:"card_holder,omitempty"`
}

// Order is the record produced at successful checkout completion. It is
// ephemeral: held for display until acknowledged, never persisted.
type Order struct {
	OrderNumber       string        `json:"order_number"`
	PlacedAt          time.Time     `json:"placed_at"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
	Lines             []cart.Line   `json:"lines"`
	Totals            pricing.Totals `json:"totals"`
}

// ValidationError reports missing or malformed form fields. The caller is
// expected to surface the field-level messages; nothing is auto-corrected.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("checkout form invalid: %s", strings.Join(names, ", "))
}

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardCVVPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// validate checks required fields for the given payment method. Contact and
// shipping fields are always required; card fields only for credit.
func (f *Form) validate() *ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(f.FullName) == "" {
		fields["full_name"] = "full name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		fields["email"] = "email is not valid"
	}
	if strings.TrimSpace(f.Phone) == "" {
		fields["phone"] = "phone is required"
	}

	if strings.TrimSpace(f.Address) == "" {
		fields["address"] = "address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		fields["city"] = "city is required"
	}
	if strings.TrimSpace(f.Zip) == "" {
		fields["zip"] = "zip is required"
	}

	if !f.PaymentMethod.Valid() {
		fields["payment_method"] = "payment method must be credit, paypal or cash"
	}

	if f.PaymentMethod.RequiresCard() {
		number := strings.ReplaceAll(f.CardNumber, " ", "")
		if number == "" {
			fields["card_number"] = "card number is required"
		} else if !cardNumberPattern.MatchString(number) {
			fields["card_number"] = "card number is not valid"
		}
		if f.CardExpiry == "" {
			fields["card_expiry"] = "card expiry is required"
		} else if !cardExpiryPattern.MatchString(f.CardExpiry) {
			fields["card_expiry"] = "card expiry must be MM/YY"
		}
		if f.CardCVV == "" {
			fields["card_cvv"] = "card CVV is required"
		} else if !cardCVVPattern.MatchString(f.CardCVV) {
			fields["card_cvv"] = "card CVV is not valid"
		}
		if strings.TrimSpace(f.CardHolder) == "" {
			fields["card_holder"] = "cardholder name is required"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
