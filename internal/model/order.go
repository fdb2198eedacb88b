package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinAmountPaise int64 = 100
	MaxAmountPaise int64 = 15000000

	// payment_capture=1 asks the gateway to capture the payment automatically.
	paymentCaptureAuto = 1
)

var SupportedCurrencies = []string{"INR", "USD", "EUR"}

type CustomerDetails struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrderRequest struct {
	Amount          float64          `json:"amount"`
	Currency        string           `json:"currency"`
	CustomerDetails *CustomerDetails `json:"customer_details"`
	OrderMetadata   map[string]any   `json:"order_metadata"`
	Receipt         string           `json:"receipt"`
	Notes           map[string]any   `json:"notes"`
}

// OrderPayload is the body sent to the gateway's order-creation API.
type OrderPayload struct {
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Receipt        string         `json:"receipt"`
	PaymentCapture int            `json:"payment_capture"`
	Notes          map[string]any `json:"notes"`
}

// OrderResult is the normalized success response: exactly the six fields
// callers may rely on, everything else from the gateway is dropped.
type OrderResult struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Normalize applies the currency default and upper-cases it so validation
// and the outbound payload see the same value.
func (r *OrderRequest) Normalize() {
	if r.Currency == "" {
		r.Currency = "INR"
	}
	r.Currency = strings.ToUpper(r.Currency)
}

func (r *OrderRequest) Validate() error {
	if r.Amount == 0 {
		return errors.New("Amount is required")
	}

	if r.Amount != math.Trunc(r.Amount) || r.Amount < float64(MinAmountPaise) || r.Amount > float64(MaxAmountPaise) {
		return fmt.Errorf("Amount must be an integer between %d and %d paise", MinAmountPaise, MaxAmountPaise)
	}

	for _, currency := range SupportedCurrencies {
		if r.Currency == currency {
			return nil
		}
	}

	return fmt.Errorf("Currency must be one of: %s", strings.Join(SupportedCurrencies, ", "))
}

// BuildPayload assembles the gateway payload. Merge order on notes matters:
// fixed tags first, then caller notes, then order_metadata, then customer
// contact fields. Later writes win on key collision.
func (r *OrderRequest) BuildPayload(source string, live bool, now time.Time) OrderPayload {
	environment := "TEST"
	if live {
		environment = "LIVE"
	}

	notes := map[string]any{
		"source":      source,
		"environment": environment,
		"created_at":  now.UTC().Format(time.RFC3339),
	}
	for key, value := range r.Notes {
		notes[key] = value
	}
	for key, value := range r.OrderMetadata {
		notes[key] = value
	}
	if r.CustomerDetails != nil {
		if r.CustomerDetails.Email != "" {
			notes["customer_email"] = r.CustomerDetails.Email
		}
		if r.CustomerDetails.Phone != "" {
			notes["customer_phone"] = r.CustomerDetails.Phone
		}
	}

	receipt := r.Receipt
	if receipt == "" {
		receipt = GenerateReceipt(now)
	}

	return OrderPayload{
		Amount:         int64(math.Round(r.Amount)),
		Currency:       r.Currency,
		Receipt:        receipt,
		PaymentCapture: paymentCaptureAuto,
		Notes:          notes,
	}
}

// GenerateReceipt builds a fallback receipt id. The uuid suffix comes from
// crypto/rand, so two calls within the same millisecond stay distinct.
func GenerateReceipt(now time.Time) string {
	return fmt.Sprintf("rcpt_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
