package payments

import "context"

// EventType classifies the outcome reported by a provider notification.
type EventType string

const (
	// EventPaymentSucceeded signals a successfully captured payment.
	EventPaymentSucceeded EventType = "payment_succeeded"
	// EventPaymentFailed signals a payment that will not complete.
	EventPaymentFailed EventType = "payment_failed"
	// EventIgnored covers provider notifications this system does not act on.
	EventIgnored EventType = "ignored"
)

// IntentParams encapsulates the parameters needed to open a payment session.
type IntentParams struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Intent represents a payment session created by a provider. ClientSecret is
// handed to the purchasing client; ID is the provider-side reference used to
// correlate webhook events with orders.
type Intent struct {
	ID           string
	ClientSecret string
}

// Event is a normalized provider notification. Providers deliver events
// at least once and in arbitrary order; consumers must be idempotent.
type Event struct {
	Type       EventType
	PaymentRef string
}

// Provider defines the behaviour required to take payments across vendors.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*Intent, error)
}
