package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrInvalidEvent     = errors.New("invalid webhook event")
	ErrEventIgnored     = errors.New("webhook event type ignored")
	ErrMissingMetadata  = errors.New("webhook event missing lead/purchaser metadata")
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// ConfirmationEvent is a payment confirmation delivered by the gateway.
// GatewayEventID is stable across redeliveries of the same logical event and
// is the sole idempotency key for the confirmed path.
type ConfirmationEvent struct {
	GatewayEventID string
	LeadID         uuid.UUID
	PurchaserID    uuid.UUID
	AmountCents    int64
	Outcome        Outcome
	OccurredAt     time.Time
}
