package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

func signPayload(payload []byte, secret string, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", timestamp, payload)))
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	header := signPayload(payload, secret, time.Now().Unix())

	if err := VerifyWebhookSignature(payload, header, secret, 5*time.Minute); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	header := signPayload(payload, "whsec_other", time.Now().Unix())

	if err := VerifyWebhookSignature(payload, header, "whsec_test", 5*time.Minute); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWebhookSignatureTamperedPayload(t *testing.T) {
	secret := "whsec_test"
	header := signPayload([]byte(`{"amount":100}`), secret, time.Now().Unix())

	if err := VerifyWebhookSignature([]byte(`{"amount":999}`), header, secret, 5*time.Minute); err == nil {
		t.Fatal("tampered payload accepted")
	}
}

func TestVerifyWebhookSignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	header := signPayload(payload, secret, time.Now().Add(-time.Hour).Unix())

	if err := VerifyWebhookSignature(payload, header, secret, 5*time.Minute); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifyWebhookSignatureMissingHeader(t *testing.T) {
	if err := VerifyWebhookSignature([]byte(`{}`), "", "whsec_test", 5*time.Minute); err == nil {
		t.Fatal("empty header accepted")
	}
	if err := VerifyWebhookSignature([]byte(`{}`), "v1=abc", "whsec_test", 5*time.Minute); err == nil {
		t.Fatal("header without timestamp accepted")
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		ref     string
	}{
		{
			name:    "succeeded",
			payload: `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`,
			want:    "payment_succeeded",
			ref:     "pi_123",
		},
		{
			name:    "failed",
			payload: `{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_456"}}}`,
			want:    "payment_failed",
			ref:     "pi_456",
		},
		{
			name:    "canceled",
			payload: `{"type":"payment_intent.canceled","data":{"object":{"id":"pi_789"}}}`,
			want:    "payment_failed",
			ref:     "pi_789",
		},
		{
			name:    "unrelated",
			payload: `{"type":"charge.updated","data":{"object":{"id":"ch_1"}}}`,
			want:    "ignored",
			ref:     "ch_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseEvent([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseEvent returned error: %v", err)
			}
			if string(event.Type) != tt.want {
				t.Errorf("expected type %q, got %q", tt.want, event.Type)
			}
			if event.PaymentRef != tt.ref {
				t.Errorf("expected ref %q, got %q", tt.ref, event.PaymentRef)
			}
		})
	}
}

func TestParseEventMalformed(t *testing.T) {
	if _, err := ParseEvent([]byte("not json")); err == nil {
		t.Fatal("malformed payload accepted")
	}
}
