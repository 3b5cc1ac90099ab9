package lead

import "github.com/google/uuid"

// Decision is the outcome of the capacity gate for a candidate purchaser.
type Decision int

const (
	// Allow: the candidate may take a free slot.
	Allow Decision = iota
	// AlreadyOwned: the candidate already holds a slot; a repeat attempt is a no-op.
	AlreadyOwned
	// CapacityExceeded: every slot is taken by other purchasers.
	CapacityExceeded
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case AlreadyOwned:
		return "already_owned"
	case CapacityExceeded:
		return "capacity_exceeded"
	}
	return "unknown"
}

// Decide evaluates the capacity gate against the given purchaser set. The
// membership check runs before the capacity check so a repeat attempt by an
// existing purchaser on a full lead reports AlreadyOwned, not CapacityExceeded.
//
// Callers must evaluate this against the purchaser set read inside the same
// transaction that performs the grant; deciding on a stale snapshot reopens
// the lost-update race this gate exists to close.
func Decide(currentPurchasers []uuid.UUID, candidate uuid.UUID) Decision {
	for _, p := range currentPurchasers {
		if p == candidate {
			return AlreadyOwned
		}
	}
	if len(currentPurchasers) >= Capacity {
		return CapacityExceeded
	}
	return Allow
}
