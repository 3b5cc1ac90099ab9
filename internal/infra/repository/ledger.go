package repository

import (
	"context"

	"leadgate/internal/domain/payment"
	"leadgate/internal/infra"
	"leadgate/internal/infra/db"
)

type LedgerRepository struct{}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

const insertLedgerSQL = `
INSERT INTO payment_ledger (gateway_event_id, lead_id, purchaser_id, amount_cents, recorded_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (gateway_event_id) DO NOTHING`

// TryInsert is the idempotency check for the confirmed path: the primary key
// on gateway_event_id makes the insert race-free, and a zero row count means
// this delivery is a replay of an already-processed event.
func (r *LedgerRepository) TryInsert(ctx context.Context, tx db.DBTX, entry payment.LedgerEntry) (bool, error) {
	tag, err := tx.Exec(ctx, insertLedgerSQL,
		entry.GatewayEventID, entry.LeadID, entry.PurchaserID, entry.AmountCents, entry.RecordedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to append ledger entry", err)
	}
	return tag.RowsAffected() == 1, nil
}
