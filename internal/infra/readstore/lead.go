package readstore

import (
	"context"
	"time"

	"leadgate/internal/infra"
	"leadgate/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LeadView is the read-side projection of a lead. Read paths never mutate
// allocation state; that is reserved for the purchase and reconcile commands.
type LeadView struct {
	ID             uuid.UUID
	Category       string
	EquipmentTypes []string
	RentalDuration string
	StartDate      string
	Budget         string
	Street         string
	City           string
	ZipCode        string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	Notes          string
	Status         string
	PurchasedBy    []uuid.UUID
	PurchaseDates  map[uuid.UUID]time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type LeadReadStore struct{}

func NewLeadReadStore() *LeadReadStore {
	return &LeadReadStore{}
}

const findLeadSQL = `
SELECT
	l.id, l.category, l.equipment_types, l.rental_duration, l.start_date,
	l.budget, l.street, l.city, l.zip_code, l.contact_name, l.contact_email,
	l.contact_phone, l.notes, l.status, l.created_at, l.updated_at
FROM leads l
WHERE l.id = $1`

const leadPurchasesSQL = `
SELECT purchaser_id, purchased_at
FROM lead_purchases
WHERE lead_id = $1
ORDER BY purchased_at`

func (s *LeadReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*LeadView, error) {
	var v LeadView
	err := dbtx.QueryRow(ctx, findLeadSQL, id).Scan(
		&v.ID, &v.Category, &v.EquipmentTypes, &v.RentalDuration, &v.StartDate,
		&v.Budget, &v.Street, &v.City, &v.ZipCode, &v.ContactName, &v.ContactEmail,
		&v.ContactPhone, &v.Notes, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("lead not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lead", err)
	}

	v.PurchaseDates = map[uuid.UUID]time.Time{}
	rows, err := dbtx.Query(ctx, leadPurchasesSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load lead purchases", err)
	}
	defer rows.Close()

	for rows.Next() {
		var purchaser uuid.UUID
		var at time.Time
		if err := rows.Scan(&purchaser, &at); err != nil {
			return nil, infra.WrapRepoErr("failed to scan lead purchase", err)
		}
		v.PurchasedBy = append(v.PurchasedBy, purchaser)
		v.PurchaseDates[purchaser] = at
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read lead purchases", err)
	}

	return &v, nil
}

// Visible leads: every open lead, plus any lead the viewer already purchased
// (including archived ones, so purchased details stay reachable).
const listVisibleLeadsSQL = `
SELECT
	l.id, l.category, l.equipment_types, l.rental_duration, l.start_date,
	l.budget, l.street, l.city, l.zip_code, l.contact_name, l.contact_email,
	l.contact_phone, l.notes, l.status, l.created_at, l.updated_at
FROM leads l
WHERE l.status = 'New'
   OR EXISTS (
	SELECT 1 FROM lead_purchases p
	WHERE p.lead_id = l.id AND p.purchaser_id = $1
   )
ORDER BY l.created_at DESC`

func (s *LeadReadStore) ListVisibleTo(ctx context.Context, dbtx db.DBTX, viewerID uuid.UUID) ([]*LeadView, error) {
	rows, err := dbtx.Query(ctx, listVisibleLeadsSQL, viewerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list leads", err)
	}
	defer rows.Close()

	var views []*LeadView
	for rows.Next() {
		var v LeadView
		err := rows.Scan(
			&v.ID, &v.Category, &v.EquipmentTypes, &v.RentalDuration, &v.StartDate,
			&v.Budget, &v.Street, &v.City, &v.ZipCode, &v.ContactName, &v.ContactEmail,
			&v.ContactPhone, &v.Notes, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan lead", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read leads", err)
	}

	if len(views) == 0 {
		return views, nil
	}

	// One pass for the purchaser sets of the listed leads.
	ids := make([]uuid.UUID, len(views))
	byID := make(map[uuid.UUID]*LeadView, len(views))
	for i, v := range views {
		ids[i] = v.ID
		v.PurchaseDates = map[uuid.UUID]time.Time{}
		byID[v.ID] = v
	}

	prows, err := dbtx.Query(ctx,
		`SELECT lead_id, purchaser_id, purchased_at FROM lead_purchases WHERE lead_id = ANY($1) ORDER BY purchased_at`,
		ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load purchases for leads", err)
	}
	defer prows.Close()

	for prows.Next() {
		var leadID, purchaser uuid.UUID
		var at time.Time
		if err := prows.Scan(&leadID, &purchaser, &at); err != nil {
			return nil, infra.WrapRepoErr("failed to scan purchase", err)
		}
		if v, ok := byID[leadID]; ok {
			v.PurchasedBy = append(v.PurchasedBy, purchaser)
			v.PurchaseDates[purchaser] = at
		}
	}
	if err := prows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read purchases for leads", err)
	}

	return views, nil
}
