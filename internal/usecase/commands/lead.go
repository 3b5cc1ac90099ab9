package commands

import (
	"context"

	"leadgate/internal/domain/lead"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrLeadValidation = errs.New("lead validation failed")

type CreateLeadParams struct {
	Contact lead.Contact
	Details lead.Details
}

// LeadCommands covers the intake path: a plain insert with no allocation
// invariants. Leads start with an empty purchaser set and StatusNew.
type LeadCommands interface {
	Create(ctx context.Context, params CreateLeadParams) (uuid.UUID, error)
}

type leadCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewLeadCommands(unitOfWork shared.UnitOfWork) LeadCommands {
	return &leadCommandsImpl{uow: unitOfWork}
}

func (c *leadCommandsImpl) Create(ctx context.Context, params CreateLeadParams) (uuid.UUID, error) {
	entity, err := lead.NewLead(params.Contact, params.Details)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrLeadValidation)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Leads().Create(ctx, tx.DB(), entity)
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}
