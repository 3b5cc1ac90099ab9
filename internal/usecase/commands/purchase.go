package commands

import (
	"context"

	"leadgate/internal/domain/lead"
	"leadgate/internal/infra"
	"leadgate/internal/infra/uow"
	"leadgate/internal/pkg/clock"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type PurchaseResult struct {
	LeadID  uuid.UUID
	Status  lead.Status
	Granted bool
	// AlreadyOwned marks the benign repeat-purchase case: not granted, but
	// not an error either.
	AlreadyOwned bool
}

type PurchaseCommands interface {
	Purchase(ctx context.Context, leadID, purchaserID uuid.UUID) (*PurchaseResult, error)
}

type purchaseCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPurchaseCommands(unitOfWork shared.UnitOfWork, clk clock.Clock) PurchaseCommands {
	return &purchaseCommandsImpl{
		uow:   unitOfWork,
		clock: clk,
	}
}

// Purchase is the optimistic client-initiated path: it reserves a slot before
// payment collection, which the caller initiates separately. The whole
// read-decide-write sequence runs in one transaction.
func (c *purchaseCommandsImpl) Purchase(ctx context.Context, leadID, purchaserID uuid.UUID) (*PurchaseResult, error) {
	var result *PurchaseResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		alloc, err := allocate(ctx, tx, leadID, purchaserID, c.clock.Now())
		if err != nil {
			return err
		}

		switch alloc.decision {
		case lead.AlreadyOwned:
			result = &PurchaseResult{LeadID: leadID, Status: alloc.status, AlreadyOwned: true}
		case lead.CapacityExceeded:
			return ErrLeadFull
		default:
			result = &PurchaseResult{LeadID: leadID, Status: alloc.status, Granted: true}
		}
		return nil
	})
	if err != nil {
		return nil, mapAllocationErr(err)
	}

	return result, nil
}

func mapAllocationErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, ErrLeadNotFound)
	case errs.Is(err, uow.ErrMaxRetriesExceeded):
		return errs.Mark(err, ErrPurchaseConflict)
	default:
		return err
	}
}
