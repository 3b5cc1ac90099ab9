package shared

import (
	"context"
	"time"

	"leadgate/internal/domain/lead"
	"leadgate/internal/domain/payment"
	"leadgate/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork is the transaction boundary for every allocation write. The
// read-decide-write sequence of a purchase must run inside Within; splitting
// it into a separate read and an unconditional write reintroduces the
// lost-update race between concurrent purchasers.
type UnitOfWork interface {
	// Within: full transaction for write operations, retried on transient
	// serialization conflicts.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions.
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Leads() LeadRepository
	Ledger() LedgerRepository
	DB() db.DBTX
}

// LeadAllocation is the allocation-relevant slice of a lead, read under a row
// lock so the capacity gate always sees the freshest purchaser set.
type LeadAllocation struct {
	ID         uuid.UUID
	Status     lead.Status
	Purchasers []uuid.UUID
}

type LeadRepository interface {
	Create(ctx context.Context, tx db.DBTX, l *lead.Lead) (uuid.UUID, error)
	// FindAllocForUpdate locks the lead row and returns its purchaser set.
	// The lock is held until the surrounding transaction commits.
	FindAllocForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*LeadAllocation, error)
	AddPurchaser(ctx context.Context, tx db.DBTX, leadID, purchaserID uuid.UUID, at time.Time) error
	SetStatus(ctx context.Context, tx db.DBTX, leadID uuid.UUID, status lead.Status, at time.Time) error
}

type LedgerRepository interface {
	// TryInsert appends a ledger entry unless one with the same gateway event
	// id already exists. Returns false on a duplicate, with no error.
	TryInsert(ctx context.Context, tx db.DBTX, entry payment.LedgerEntry) (bool, error)
}
