//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"leadgate/internal/domain/lead"
	"leadgate/internal/domain/payment"
	"leadgate/internal/infra"
	"leadgate/internal/infra/db"
	"leadgate/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeStore is an in-memory stand-in for the database. A mutex takes the
// place of the row lock: each Within call holds it for the whole
// transaction, so concurrent purchases serialize exactly like they do
// against the locked lead row.
type fakeStore struct {
	mu     sync.Mutex
	leads  map[uuid.UUID]*fakeLeadRow
	ledger map[string]payment.LedgerEntry
}

type fakeLeadRow struct {
	status     lead.Status
	purchasers []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads:  map[uuid.UUID]*fakeLeadRow{},
		ledger: map[string]payment.LedgerEntry{},
	}
}

func (s *fakeStore) seedLead(id uuid.UUID, purchasers ...uuid.UUID) {
	s.leads[id] = &fakeLeadRow{
		status:     lead.StatusFor(len(purchasers)),
		purchasers: purchasers,
	}
}

func (s *fakeStore) purchaserCount(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads[id].purchasers)
}

func (s *fakeStore) status(id uuid.UUID) lead.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads[id].status
}

func (s *fakeStore) ledgerSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledger)
}

type fakeUoW struct {
	store *fakeStore
}

func newFakeUoW(store *fakeStore) shared.UnitOfWork {
	return &fakeUoW{store: store}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	tx := &fakeTx{
		store:        u.store,
		stagedStatus: map[uuid.UUID]lead.Status{},
	}
	if err := fn(ctx, tx); err != nil {
		// Discard staged writes: nothing from an aborted transaction is
		// visible afterwards.
		return err
	}
	tx.commit()
	return nil
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

// fakeTx buffers writes until commit so an aborted transaction rolls back
// the ledger entry together with the grant.
type fakeTx struct {
	store           *fakeStore
	stagedLedger    []payment.LedgerEntry
	stagedPurchases []stagedPurchase
	stagedStatus    map[uuid.UUID]lead.Status
	stagedLeads     []*lead.Lead
}

type stagedPurchase struct {
	leadID      uuid.UUID
	purchaserID uuid.UUID
}

func (t *fakeTx) Leads() shared.LeadRepository    { return &fakeLeadRepo{tx: t} }
func (t *fakeTx) Ledger() shared.LedgerRepository { return &fakeLedgerRepo{tx: t} }
func (t *fakeTx) DB() db.DBTX                     { return nil }

func (t *fakeTx) commit() {
	for _, l := range t.stagedLeads {
		t.store.leads[l.ID()] = &fakeLeadRow{status: l.Status()}
	}
	for _, p := range t.stagedPurchases {
		row := t.store.leads[p.leadID]
		row.purchasers = append(row.purchasers, p.purchaserID)
	}
	for id, status := range t.stagedStatus {
		t.store.leads[id].status = status
	}
	for _, entry := range t.stagedLedger {
		t.store.ledger[entry.GatewayEventID] = entry
	}
}

type fakeLeadRepo struct {
	tx *fakeTx
}

func (r *fakeLeadRepo) Create(_ context.Context, _ db.DBTX, l *lead.Lead) (uuid.UUID, error) {
	r.tx.stagedLeads = append(r.tx.stagedLeads, l)
	return l.ID(), nil
}

func (r *fakeLeadRepo) FindAllocForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.LeadAllocation, error) {
	row, ok := r.tx.store.leads[id]
	if !ok {
		return nil, infra.WrapRepoErr("lead not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	purchasers := make([]uuid.UUID, len(row.purchasers))
	copy(purchasers, row.purchasers)
	for _, p := range r.tx.stagedPurchases {
		if p.leadID == id {
			purchasers = append(purchasers, p.purchaserID)
		}
	}

	return &shared.LeadAllocation{ID: id, Status: row.status, Purchasers: purchasers}, nil
}

func (r *fakeLeadRepo) AddPurchaser(_ context.Context, _ db.DBTX, leadID, purchaserID uuid.UUID, _ time.Time) error {
	r.tx.stagedPurchases = append(r.tx.stagedPurchases, stagedPurchase{leadID: leadID, purchaserID: purchaserID})
	return nil
}

func (r *fakeLeadRepo) SetStatus(_ context.Context, _ db.DBTX, leadID uuid.UUID, status lead.Status, _ time.Time) error {
	r.tx.stagedStatus[leadID] = status
	return nil
}

type fakeLedgerRepo struct {
	tx *fakeTx
}

func (r *fakeLedgerRepo) TryInsert(_ context.Context, _ db.DBTX, entry payment.LedgerEntry) (bool, error) {
	if _, exists := r.tx.store.ledger[entry.GatewayEventID]; exists {
		return false, nil
	}
	for _, staged := range r.tx.stagedLedger {
		if staged.GatewayEventID == entry.GatewayEventID {
			return false, nil
		}
	}
	r.tx.stagedLedger = append(r.tx.stagedLedger, entry)
	return true, nil
}
