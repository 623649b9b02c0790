package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"learnhub-backend/internal/payments"
)

const defaultAPIBase = "https://api.stripe.com"

// Provider implements the payments.Provider interface for Stripe
// PaymentIntents using direct HTTP calls.
type Provider struct {
	secretKey  string
	httpClient *http.Client
	apiBaseURL string
	userAgent  string
}

// NewProvider constructs a Stripe provider using the supplied secret API key.
func NewProvider(secretKey string) (*Provider, error) {
	key := strings.TrimSpace(secretKey)
	if key == "" {
		return nil, errors.New("stripe secret key is required")
	}

	return &Provider{
		secretKey:  key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBaseURL: defaultAPIBase,
		userAgent:  "learnhub-backend/stripe-payments",
	}, nil
}

func (p *Provider) createRequest(ctx context.Context, params payments.IntentParams) (*http.Request, error) {
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %d", params.AmountCents)
	}

	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		return nil, errors.New("payment currency is required")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountCents, 10))
	form.Set("currency", currency)

	for key, value := range params.Metadata {
		if key == "" || value == "" {
			continue
		}
		form.Set("metadata["+key+"]", value)
	}

	endpoint := fmt.Sprintf("%s/v1/payment_intents", strings.TrimRight(p.apiBaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.userAgent)

	return req, nil
}

// CreatePaymentIntent opens a Stripe PaymentIntent for the provided purchase.
func (p *Provider) CreatePaymentIntent(ctx context.Context, params payments.IntentParams) (*payments.Intent, error) {
	if p == nil {
		return nil, errors.New("stripe provider is not configured")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	req, err := p.createRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Error        struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("stripe response decode failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		message := strings.TrimSpace(payload.Error.Message)
		if message == "" {
			message = fmt.Sprintf("stripe returned status %d", resp.StatusCode)
		}
		return nil, errors.New(message)
	}

	if payload.ID == "" || payload.ClientSecret == "" {
		return nil, errors.New("stripe response missing payment intent details")
	}

	return &payments.Intent{ID: payload.ID, ClientSecret: payload.ClientSecret}, nil
}

// ParseEvent normalizes a Stripe webhook payload into a payments.Event.
// Event types this system does not act on come back as EventIgnored.
func ParseEvent(payload []byte) (*payments.Event, error) {
	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("stripe event decode failed: %w", err)
	}

	normalized := &payments.Event{PaymentRef: event.Data.Object.ID}

	switch event.Type {
	case "payment_intent.succeeded":
		normalized.Type = payments.EventPaymentSucceeded
	case "payment_intent.payment_failed", "payment_intent.canceled":
		normalized.Type = payments.EventPaymentFailed
	default:
		normalized.Type = payments.EventIgnored
	}

	return normalized, nil
}
