package queries

import (
	"context"

	"leadgate/internal/infra"
	"leadgate/internal/infra/db"
	"leadgate/internal/infra/readstore"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errs.New("lead not found")

type LeadReadStore interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*readstore.LeadView, error)
	ListVisibleTo(ctx context.Context, dbtx db.DBTX, viewerID uuid.UUID) ([]*readstore.LeadView, error)
}

// LeadQueries is the display read path. It never mutates allocation state.
type LeadQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*readstore.LeadView, error)
	ListVisibleTo(ctx context.Context, viewerID uuid.UUID) ([]*readstore.LeadView, error)
}

type leadQueriesImpl struct {
	uow   shared.UnitOfWork
	store LeadReadStore
}

func NewLeadQueries(unitOfWork shared.UnitOfWork, store LeadReadStore) LeadQueries {
	return &leadQueriesImpl{
		uow:   unitOfWork,
		store: store,
	}
}

func (q *leadQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*readstore.LeadView, error) {
	var view *readstore.LeadView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrLeadNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *leadQueriesImpl) ListVisibleTo(ctx context.Context, viewerID uuid.UUID) ([]*readstore.LeadView, error) {
	var views []*readstore.LeadView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.ListVisibleTo(ctx, dbtx, viewerID)
		if err != nil {
			return err
		}
		views = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
