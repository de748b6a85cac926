package models

import "github.com/shopspring/decimal"

const (
	DefaultCurrency      = "INR"
	DefaultPaymentMethod = "RAZORPAY"
	PaymentOrderCreated  = "created"
)

// PaymentOrder is the mock gateway order handed back to the client.
// Amount is in the currency's minor unit.
type PaymentOrder struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}
