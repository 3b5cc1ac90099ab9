package commands

import (
	"context"
	"log/slog"
	"net/http"

	"leadgate/internal/domain/lead"
	"leadgate/internal/domain/payment"
	"leadgate/internal/pkg/clock"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
)

// PaymentGateway is the slice of the payment provider this path depends on:
// authenticity verification with the shared secret, and payload parsing into
// a confirmation event with a stable per-event id.
type PaymentGateway interface {
	Verify(payload []byte, headers http.Header) error
	Parse(payload []byte) (*payment.ConfirmationEvent, error)
}

type ReconcileOutcome string

const (
	// OutcomeProcessed: the event was recorded; a grant happened unless the
	// purchaser already owned the lead.
	OutcomeProcessed ReconcileOutcome = "processed"
	// OutcomeDuplicate: redelivery of an already-processed event; nothing changed.
	OutcomeDuplicate ReconcileOutcome = "duplicate"
	// OutcomeIgnored: failed charge or irrelevant event type; nothing to reconcile.
	OutcomeIgnored ReconcileOutcome = "ignored"
)

type ReconcileResult struct {
	Outcome      ReconcileOutcome
	LeadID       uuid.UUID
	PurchaserID  uuid.UUID
	Status       lead.Status
	AlreadyOwned bool
}

type WebhookCommands interface {
	Reconcile(ctx context.Context, payload []byte, headers http.Header) (*ReconcileResult, error)
}

type webhookCommandsImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	clock   clock.Clock
}

func NewWebhookCommands(unitOfWork shared.UnitOfWork, gateway PaymentGateway, clk clock.Clock) WebhookCommands {
	return &webhookCommandsImpl{
		uow:     unitOfWork,
		gateway: gateway,
		clock:   clk,
	}
}

// Reconcile applies an asynchronous, possibly redelivered payment
// confirmation to allocation state exactly once. The ledger append and the
// grant share one transaction: both commit or neither does, so a rejected
// grant can never leave an orphaned ledger entry, and a recorded event can
// never have silently skipped its grant.
func (c *webhookCommandsImpl) Reconcile(ctx context.Context, payload []byte, headers http.Header) (*ReconcileResult, error) {
	// Fail closed before any state access.
	if err := c.gateway.Verify(payload, headers); err != nil {
		return nil, err
	}

	event, err := c.gateway.Parse(payload)
	if err != nil {
		if errs.Is(err, payment.ErrEventIgnored) {
			return &ReconcileResult{Outcome: OutcomeIgnored}, nil
		}
		return nil, err
	}

	if event.Outcome != payment.OutcomeSucceeded {
		// Failed charges carry nothing to reconcile; ack so the gateway
		// stops retrying.
		return &ReconcileResult{Outcome: OutcomeIgnored, LeadID: event.LeadID, PurchaserID: event.PurchaserID}, nil
	}

	result := &ReconcileResult{LeadID: event.LeadID, PurchaserID: event.PurchaserID}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		inserted, err := tx.Ledger().TryInsert(ctx, tx.DB(), payment.NewLedgerEntry(*event, now))
		if err != nil {
			return err
		}
		if !inserted {
			result.Outcome = OutcomeDuplicate
			return nil
		}

		alloc, err := allocate(ctx, tx, event.LeadID, event.PurchaserID, now)
		if err != nil {
			return err
		}

		switch alloc.decision {
		case lead.CapacityExceeded:
			// Aborting rolls the ledger entry back with the rejected grant.
			return ErrLeadFull
		case lead.AlreadyOwned:
			// The payment is real and the event is processed; the ledger
			// entry commits, the existing grant stands untouched.
			result.Outcome = OutcomeProcessed
			result.AlreadyOwned = true
			result.Status = alloc.status
		default:
			result.Outcome = OutcomeProcessed
			result.Status = alloc.status
		}
		return nil
	})
	if err != nil {
		if errs.Is(err, ErrLeadFull) {
			// Payment succeeded but every slot is taken: a reconciliation
			// conflict needing operator compensation (refund), not a retry.
			slog.Error("payment confirmed for a fully allocated lead",
				"gateway_event_id", event.GatewayEventID,
				"lead_id", event.LeadID.String(),
				"purchaser_id", event.PurchaserID.String(),
				"amount_cents", event.AmountCents)
			return nil, ErrLeadFull
		}
		return nil, mapAllocationErr(err)
	}

	return result, nil
}
