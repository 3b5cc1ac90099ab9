//go:build unit

package stripe_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"leadgate/internal/domain/payment"
	"leadgate/internal/gateway/stripe"
	"leadgate/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestGateway() *stripe.Gateway {
	return stripe.NewGateway(testSecret, 5*time.Minute, clock.NewMockClock(testNow))
}

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(fmt.Appendf(nil, "%d.%s", timestamp, payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureHeader(secret string, timestamp int64, payload []byte) http.Header {
	headers := http.Header{}
	headers.Set("Stripe-Signature",
		fmt.Sprintf("t=%d,v1=%s", timestamp, signPayload(secret, timestamp, payload)))
	return headers
}

func intentPayload(eventID, eventType string, leadID, userID uuid.UUID, amountReceived int64) []byte {
	return fmt.Appendf(nil, `{
		"id": %q,
		"type": %q,
		"created": %d,
		"data": {
			"object": {
				"id": "pi_123",
				"amount": 4900,
				"amount_received": %d,
				"created": %d,
				"metadata": {"leadId": %q, "userId": %q}
			}
		}
	}`, eventID, eventType, testNow.Unix(), amountReceived, testNow.Unix(), leadID, userID)
}

func TestVerify(t *testing.T) {
	gateway := newTestGateway()
	payload := []byte(`{"id":"evt_1"}`)

	t.Run("accepts a fresh correctly signed payload", func(t *testing.T) {
		headers := signatureHeader(testSecret, testNow.Unix(), payload)
		assert.NoError(t, gateway.Verify(payload, headers))
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		assert.ErrorIs(t, gateway.Verify(payload, http.Header{}), payment.ErrInvalidSignature)
	})

	t.Run("rejects a signature minted with another secret", func(t *testing.T) {
		headers := signatureHeader("whsec_other", testNow.Unix(), payload)
		assert.ErrorIs(t, gateway.Verify(payload, headers), payment.ErrInvalidSignature)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		headers := signatureHeader(testSecret, testNow.Unix(), payload)
		tampered := []byte(`{"id":"evt_2"}`)
		assert.ErrorIs(t, gateway.Verify(tampered, headers), payment.ErrInvalidSignature)
	})

	t.Run("rejects a stale timestamp outside the tolerance", func(t *testing.T) {
		stale := testNow.Add(-6 * time.Minute).Unix()
		headers := signatureHeader(testSecret, stale, payload)
		assert.ErrorIs(t, gateway.Verify(payload, headers), payment.ErrInvalidSignature)
	})

	t.Run("rejects a future timestamp outside the tolerance", func(t *testing.T) {
		future := testNow.Add(6 * time.Minute).Unix()
		headers := signatureHeader(testSecret, future, payload)
		assert.ErrorIs(t, gateway.Verify(payload, headers), payment.ErrInvalidSignature)
	})

	t.Run("rejects a garbled header", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("Stripe-Signature", "not-a-signature")
		assert.ErrorIs(t, gateway.Verify(payload, headers), payment.ErrInvalidSignature)
	})

	t.Run("accepts when one of several v1 signatures matches", func(t *testing.T) {
		// Stripe sends multiple v1 entries during secret rotation.
		ts := testNow.Unix()
		headers := http.Header{}
		headers.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s,v1=%s",
			ts, signPayload("whsec_old", ts, payload), signPayload(testSecret, ts, payload)))
		assert.NoError(t, gateway.Verify(payload, headers))
	})
}

func TestParse(t *testing.T) {
	gateway := newTestGateway()
	leadID := uuid.New()
	userID := uuid.New()

	t.Run("succeeded intent maps to a confirmation event", func(t *testing.T) {
		payload := intentPayload("evt_10", "payment_intent.succeeded", leadID, userID, 4900)

		event, err := gateway.Parse(payload)
		require.NoError(t, err)
		assert.Equal(t, "evt_10", event.GatewayEventID)
		assert.Equal(t, leadID, event.LeadID)
		assert.Equal(t, userID, event.PurchaserID)
		assert.Equal(t, int64(4900), event.AmountCents)
		assert.Equal(t, payment.OutcomeSucceeded, event.Outcome)
		assert.Equal(t, testNow.Unix(), event.OccurredAt.Unix())
	})

	t.Run("failed intent maps to a failed outcome", func(t *testing.T) {
		payload := intentPayload("evt_11", "payment_intent.payment_failed", leadID, userID, 0)

		event, err := gateway.Parse(payload)
		require.NoError(t, err)
		assert.Equal(t, payment.OutcomeFailed, event.Outcome)
		// amount_received is zero on a failed charge; fall back to amount.
		assert.Equal(t, int64(4900), event.AmountCents)
	})

	t.Run("unrelated event types are ignored", func(t *testing.T) {
		payload := intentPayload("evt_12", "charge.refunded", leadID, userID, 4900)

		_, err := gateway.Parse(payload)
		assert.ErrorIs(t, err, payment.ErrEventIgnored)
	})

	t.Run("rejects non-JSON payloads", func(t *testing.T) {
		_, err := gateway.Parse([]byte("not json"))
		assert.ErrorIs(t, err, payment.ErrInvalidPayload)
	})

	t.Run("rejects events without an id", func(t *testing.T) {
		_, err := gateway.Parse([]byte(`{"type":"payment_intent.succeeded"}`))
		assert.ErrorIs(t, err, payment.ErrInvalidEvent)
	})

	t.Run("rejects intents missing metadata ids", func(t *testing.T) {
		payload := fmt.Appendf(nil, `{
			"id": "evt_13",
			"type": "payment_intent.succeeded",
			"data": {"object": {"id": "pi_1", "amount": 100, "metadata": {"leadId": %q}}}
		}`, leadID)

		_, err := gateway.Parse(payload)
		assert.ErrorIs(t, err, payment.ErrMissingMetadata)
	})

	t.Run("rejects intents with malformed metadata ids", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_14",
			"type": "payment_intent.succeeded",
			"data": {"object": {"id": "pi_1", "amount": 100, "metadata": {"leadId": "abc", "userId": "def"}}}
		}`)

		_, err := gateway.Parse(payload)
		assert.ErrorIs(t, err, payment.ErrMissingMetadata)
	})
}
