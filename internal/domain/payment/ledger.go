package payment

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry is one processed confirmation in the append-only payment ledger.
// The ledger exists for duplicate detection and audit; allocation state is
// never derived from it.
type LedgerEntry struct {
	GatewayEventID string
	LeadID         uuid.UUID
	PurchaserID    uuid.UUID
	AmountCents    int64
	RecordedAt     time.Time
}

func NewLedgerEntry(event ConfirmationEvent, recordedAt time.Time) LedgerEntry {
	return LedgerEntry{
		GatewayEventID: event.GatewayEventID,
		LeadID:         event.LeadID,
		PurchaserID:    event.PurchaserID,
		AmountCents:    event.AmountCents,
		RecordedAt:     recordedAt,
	}
}
