package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingWebhookSecret = errors.New("webhook secret is not configured")
	ErrInvalidSignature     = errors.New("webhook signature does not match payload")
	ErrStaleTimestamp       = errors.New("webhook timestamp outside tolerance")
)

// signatureHeader is the parsed form of a Stripe-Signature header. The raw
// timestamp string is kept because it is part of the signed payload.
type signatureHeader struct {
	timestamp string
	sentAt    time.Time
	macs      [][]byte
}

func parseSignatureHeader(header string) (*signatureHeader, error) {
	parsed := &signatureHeader{}

	for _, field := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(field), "=")
		if !found || value == "" {
			continue
		}
		switch key {
		case "t":
			unix, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid signature timestamp %q: %w", value, err)
			}
			parsed.timestamp = value
			parsed.sentAt = time.Unix(unix, 0)
		case "v1":
			mac, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			parsed.macs = append(parsed.macs, mac)
		}
	}

	if parsed.timestamp == "" || len(parsed.macs) == 0 {
		return nil, errors.New("signature header lacks timestamp or v1 signature")
	}

	return parsed, nil
}

// VerifyWebhookSignature checks a Stripe-Signature header against the raw
// request body, per https://stripe.com/docs/webhooks/signatures. Events older
// or newer than the tolerance are rejected to limit replay.
func VerifyWebhookSignature(payload []byte, header, secret string, tolerance time.Duration) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrMissingWebhookSecret
	}

	sig, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if tolerance > 0 {
		age := time.Since(sig.sentAt)
		if age < 0 {
			age = -age
		}
		if age > tolerance {
			return ErrStaleTimestamp
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sig.timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	want := mac.Sum(nil)

	for _, got := range sig.macs {
		if hmac.Equal(got, want) {
			return nil
		}
	}

	return ErrInvalidSignature
}
