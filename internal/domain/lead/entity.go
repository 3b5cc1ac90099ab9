package lead

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingContactName  = errors.New("contact name is required")
	ErrMissingContactEmail = errors.New("contact email is required")
	ErrMissingCategory     = errors.New("category is required")
	ErrAlreadyPurchased    = errors.New("purchaser already owns this lead")
	ErrCapacityExceeded    = errors.New("lead has no remaining purchase slots")
)

// Contact is the requester's contact block; visible in full only to purchasers.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Details describes the rental request the lead represents.
type Details struct {
	Category       string
	EquipmentTypes []string
	RentalDuration string
	StartDate      string
	Budget         string
	Street         string
	City           string
	ZipCode        string
	Notes          string
}

// Lead is the capacity-limited resource. The purchaser set and its derived
// status are the only parts with invariants; everything else is descriptive.
type Lead struct {
	id            uuid.UUID
	contact       Contact
	details       Details
	status        Status
	purchasedBy   []uuid.UUID
	purchaseDates map[uuid.UUID]time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewLead builds a fresh lead for the intake path: empty purchaser set, StatusNew.
func NewLead(contact Contact, details Details) (*Lead, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return nil, ErrMissingContactName
	}
	if strings.TrimSpace(contact.Email) == "" {
		return nil, ErrMissingContactEmail
	}
	if strings.TrimSpace(details.Category) == "" {
		return nil, ErrMissingCategory
	}

	return &Lead{
		id:            uuid.New(),
		contact:       contact,
		details:       details,
		status:        StatusNew,
		purchasedBy:   nil,
		purchaseDates: map[uuid.UUID]time.Time{},
	}, nil
}

// ReconstructLead rebuilds the aggregate from persisted state.
func ReconstructLead(
	id uuid.UUID,
	contact Contact,
	details Details,
	status Status,
	purchasedBy []uuid.UUID,
	purchaseDates map[uuid.UUID]time.Time,
	createdAt, updatedAt time.Time,
) *Lead {
	if purchaseDates == nil {
		purchaseDates = map[uuid.UUID]time.Time{}
	}
	return &Lead{
		id:            id,
		contact:       contact,
		details:       details,
		status:        status,
		purchasedBy:   purchasedBy,
		purchaseDates: purchaseDates,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Decide evaluates the capacity gate for a candidate without mutating state.
func (l *Lead) Decide(candidate uuid.UUID) Decision {
	return Decide(l.purchasedBy, candidate)
}

// Grant allocates one slot to the purchaser and recomputes status from the
// new purchaser count. It refuses repeat purchasers and full leads; on either
// refusal the aggregate is untouched.
func (l *Lead) Grant(purchaser uuid.UUID, at time.Time) error {
	switch l.Decide(purchaser) {
	case AlreadyOwned:
		return ErrAlreadyPurchased
	case CapacityExceeded:
		return ErrCapacityExceeded
	}

	l.purchasedBy = append(l.purchasedBy, purchaser)
	l.purchaseDates[purchaser] = at
	l.status = StatusFor(len(l.purchasedBy))
	l.updatedAt = at
	return nil
}

func (l *Lead) IsOwnedBy(purchaser uuid.UUID) bool {
	return l.Decide(purchaser) == AlreadyOwned
}

func (l *Lead) RemainingSlots() int {
	remaining := Capacity - len(l.purchasedBy)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *Lead) ID() uuid.UUID        { return l.id }
func (l *Lead) Contact() Contact     { return l.contact }
func (l *Lead) Details() Details     { return l.details }
func (l *Lead) Status() Status       { return l.status }
func (l *Lead) CreatedAt() time.Time { return l.createdAt }
func (l *Lead) UpdatedAt() time.Time { return l.updatedAt }

// PurchasedBy returns the purchaser set in grant order (retained for display only).
func (l *Lead) PurchasedBy() []uuid.UUID {
	out := make([]uuid.UUID, len(l.purchasedBy))
	copy(out, l.purchasedBy)
	return out
}

func (l *Lead) PurchaseDate(purchaser uuid.UUID) (time.Time, bool) {
	t, ok := l.purchaseDates[purchaser]
	return t, ok
}
