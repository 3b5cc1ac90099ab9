package commands

import (
	"context"
	"time"

	"leadgate/internal/domain/lead"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound     = errs.New("lead not found")
	ErrLeadFull         = errs.New("lead purchase capacity exceeded")
	ErrPurchaseConflict = errs.New("purchase conflict, retry later")
)

// allocationResult reports what the gate decided and the lead status after
// the call (unchanged unless the decision was Allow).
type allocationResult struct {
	decision lead.Decision
	status   lead.Status
}

// allocate is the single allocation routine shared by the optimistic purchase
// path and the webhook reconciliation path. It must run inside an open
// transaction: the purchaser set is re-read under a row lock, the gate is
// evaluated against that fresh read, and the grant plus the status derived
// from the post-grant count are written before the caller commits.
func allocate(ctx context.Context, tx shared.Tx, leadID, purchaserID uuid.UUID, now time.Time) (*allocationResult, error) {
	alloc, err := tx.Leads().FindAllocForUpdate(ctx, tx.DB(), leadID)
	if err != nil {
		return nil, err
	}

	decision := lead.Decide(alloc.Purchasers, purchaserID)
	if decision != lead.Allow {
		return &allocationResult{decision: decision, status: alloc.Status}, nil
	}

	if err := tx.Leads().AddPurchaser(ctx, tx.DB(), leadID, purchaserID, now); err != nil {
		return nil, err
	}

	newStatus := lead.StatusFor(len(alloc.Purchasers) + 1)
	if err := tx.Leads().SetStatus(ctx, tx.DB(), leadID, newStatus, now); err != nil {
		return nil, err
	}

	return &allocationResult{decision: lead.Allow, status: newStatus}, nil
}
