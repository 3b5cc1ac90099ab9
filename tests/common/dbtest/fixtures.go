//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestLead inserts a fresh lead and returns its id.
func CreateTestLead(t *testing.T, db DBLike, category, contactEmail string) uuid.UUID {
	t.Helper()

	leadID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO leads (
			id, category, equipment_types, rental_duration, start_date,
			budget, street, city, zip_code,
			contact_name, contact_email, contact_phone, notes, status
		) VALUES (
			$1, $2, '{"mini-excavator"}', '1-week', '2026-09-15',
			'1000-2000', '12 Harbor Rd', 'Portland', '97201',
			'Dana Wells', $3, '+1-503-555-0101', 'Site has limited access', 'New'
		)`,
		leadID, category, contactEmail)
	require.NoError(t, err)

	return leadID
}

// GrantTestPurchase records a purchase slot directly, keeping the status
// column consistent with the purchaser count the way the write path does.
func GrantTestPurchase(t *testing.T, db DBLike, leadID, purchaserID uuid.UUID, at time.Time) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO lead_purchases (lead_id, purchaser_id, purchased_at) VALUES ($1, $2, $3)",
		leadID, purchaserID, at)
	require.NoError(t, err)

	var count int
	err = db.QueryRow(ctx, "SELECT COUNT(*) FROM lead_purchases WHERE lead_id = $1", leadID).Scan(&count)
	require.NoError(t, err)

	status := "Purchased"
	if count >= 3 {
		status = "Archived"
	}
	_, err = db.Exec(ctx, "UPDATE leads SET status = $2, updated_at = $3 WHERE id = $1", leadID, status, at)
	require.NoError(t, err)
}

func CountLedgerEntries(t *testing.T, db DBLike, leadID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM payment_ledger WHERE lead_id = $1", leadID).Scan(&count)
	require.NoError(t, err)
	return count
}

func CountPurchases(t *testing.T, db DBLike, leadID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM lead_purchases WHERE lead_id = $1", leadID).Scan(&count)
	require.NoError(t, err)
	return count
}

func LeadStatus(t *testing.T, db DBLike, leadID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM leads WHERE id = $1", leadID).Scan(&status)
	require.NoError(t, err)
	return status
}

// ResetDB truncates all mutable tables between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE payment_ledger, lead_purchases, leads")
	return err
}
