package repository

import (
	"context"
	"time"

	"leadgate/internal/domain/lead"
	"leadgate/internal/infra"
	"leadgate/internal/infra/db"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LeadRepository struct{}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{}
}

const createLeadSQL = `
INSERT INTO leads (
	id, category, equipment_types, rental_duration, start_date, budget,
	street, city, zip_code, contact_name, contact_email, contact_phone,
	notes, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
RETURNING id`

func (r *LeadRepository) Create(ctx context.Context, tx db.DBTX, l *lead.Lead) (uuid.UUID, error) {
	d := l.Details()
	c := l.Contact()

	var id uuid.UUID
	err := tx.QueryRow(ctx, createLeadSQL,
		l.ID(), d.Category, d.EquipmentTypes, d.RentalDuration, d.StartDate, d.Budget,
		d.Street, d.City, d.ZipCode, c.Name, c.Email, c.Phone,
		d.Notes, l.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create lead", err)
	}

	return id, nil
}

const lockLeadSQL = `
SELECT id, status FROM leads WHERE id = $1 FOR UPDATE`

const listPurchasersSQL = `
SELECT purchaser_id FROM lead_purchases WHERE lead_id = $1 ORDER BY purchased_at`

// FindAllocForUpdate takes the row lock first; the purchaser list read after
// it cannot be changed by a concurrent grant until this transaction finishes.
func (r *LeadRepository) FindAllocForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.LeadAllocation, error) {
	var alloc shared.LeadAllocation
	var status string
	if err := tx.QueryRow(ctx, lockLeadSQL, id).Scan(&alloc.ID, &status); err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("lead not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock lead", err)
	}
	alloc.Status = lead.Status(status)

	rows, err := tx.Query(ctx, listPurchasersSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list lead purchasers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var purchaser uuid.UUID
		if err := rows.Scan(&purchaser); err != nil {
			return nil, infra.WrapRepoErr("failed to scan purchaser", err)
		}
		alloc.Purchasers = append(alloc.Purchasers, purchaser)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read purchasers", err)
	}

	return &alloc, nil
}

const addPurchaserSQL = `
INSERT INTO lead_purchases (lead_id, purchaser_id, purchased_at)
VALUES ($1, $2, $3)`

func (r *LeadRepository) AddPurchaser(ctx context.Context, tx db.DBTX, leadID, purchaserID uuid.UUID, at time.Time) error {
	if _, err := tx.Exec(ctx, addPurchaserSQL, leadID, purchaserID, at); err != nil {
		return infra.WrapRepoErr("failed to add purchaser", err)
	}
	return nil
}

const setStatusSQL = `
UPDATE leads SET status = $2, updated_at = $3 WHERE id = $1`

func (r *LeadRepository) SetStatus(ctx context.Context, tx db.DBTX, leadID uuid.UUID, status lead.Status, at time.Time) error {
	tag, err := tx.Exec(ctx, setStatusSQL, leadID, status.String(), at)
	if err != nil {
		return infra.WrapRepoErr("failed to update lead status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("lead disappeared during status update", nil, infra.KindNotFound)
	}
	return nil
}
