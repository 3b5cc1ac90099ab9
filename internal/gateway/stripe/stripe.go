package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leadgate/internal/domain/payment"
	"leadgate/internal/pkg/clock"

	"github.com/google/uuid"
)

// Gateway verifies and parses Stripe webhook deliveries. Verification uses
// the v1 signature scheme: HMAC-SHA256 over "<timestamp>.<payload>" with the
// endpoint's shared secret.
type Gateway struct {
	webhookSecret []byte
	tolerance     time.Duration
	clock         clock.Clock
}

func NewGateway(webhookSecret string, tolerance time.Duration, clk clock.Clock) *Gateway {
	return &Gateway{
		webhookSecret: []byte(webhookSecret),
		tolerance:     tolerance,
		clock:         clk,
	}
}

func (g *Gateway) Verify(payload []byte, headers http.Header) error {
	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return payment.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return payment.ErrInvalidSignature
	}

	if g.tolerance > 0 {
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return payment.ErrInvalidSignature
		}
		age := g.clock.Now().Sub(time.Unix(ts, 0))
		if age > g.tolerance || age < -g.tolerance {
			return payment.ErrInvalidSignature
		}
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, g.webhookSecret)
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return payment.ErrInvalidSignature
}

// Parse extracts a ConfirmationEvent from a verified payload. Event types
// other than payment_intent outcomes are reported as ErrEventIgnored so the
// handler can ack them without touching state.
func (g *Gateway) Parse(payload []byte) (*payment.ConfirmationEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, payment.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, payment.ErrInvalidEvent
	}

	var outcome payment.Outcome
	switch strings.TrimSpace(event.Type) {
	case "payment_intent.succeeded":
		outcome = payment.OutcomeSucceeded
	case "payment_intent.payment_failed":
		outcome = payment.OutcomeFailed
	default:
		return nil, payment.ErrEventIgnored
	}

	var intent stripePaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return nil, payment.ErrInvalidPayload
	}

	leadID, purchaserID, err := parseMetadataIDs(intent.Metadata)
	if err != nil {
		return nil, err
	}

	amount := intent.AmountReceived
	if amount <= 0 {
		amount = intent.Amount
	}

	return &payment.ConfirmationEvent{
		GatewayEventID: event.ID,
		LeadID:         leadID,
		PurchaserID:    purchaserID,
		AmountCents:    amount,
		Outcome:        outcome,
		OccurredAt:     occurredAt(intent.Created, event.Created, g.clock),
	}, nil
}

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripePaymentIntent struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	AmountReceived int64             `json:"amount_received"`
	Created        int64             `json:"created"`
	Metadata       map[string]string `json:"metadata"`
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, payment.ErrInvalidSignature
	}
	return timestamp, signatures, nil
}

// Checkout sessions created by the storefront stamp the purchase intent into
// payment intent metadata; those two ids tie the confirmation back to the
// allocation it pays for.
func parseMetadataIDs(metadata map[string]string) (uuid.UUID, uuid.UUID, error) {
	leadRaw := strings.TrimSpace(metadata["leadId"])
	userRaw := strings.TrimSpace(metadata["userId"])
	if leadRaw == "" || userRaw == "" {
		return uuid.Nil, uuid.Nil, payment.ErrMissingMetadata
	}

	leadID, err := uuid.Parse(leadRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, payment.ErrMissingMetadata
	}
	userID, err := uuid.Parse(userRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, payment.ErrMissingMetadata
	}
	return leadID, userID, nil
}

func occurredAt(primary, fallback int64, clk clock.Clock) time.Time {
	value := primary
	if value == 0 {
		value = fallback
	}
	if value == 0 {
		return clk.Now().UTC()
	}
	return time.Unix(value, 0).UTC()
}
