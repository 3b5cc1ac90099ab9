package lead

// Capacity is the fixed number of purchasers a single lead can be sold to.
const Capacity = 3

type Status string

const (
	// StatusNew: no purchaser has claimed a slot yet.
	StatusNew Status = "New"
	// StatusPurchased: at least one slot is taken, at least one remains.
	StatusPurchased Status = "Purchased"
	// StatusArchived: all slots are taken; no further grants are possible.
	StatusArchived Status = "Archived"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPurchased, StatusArchived:
		return true
	}
	return false
}

// StatusFor derives the lifecycle status from the purchaser count. Status is
// always recomputed from the count after a grant, never adjusted in place, so
// the two can never drift apart.
func StatusFor(purchaserCount int) Status {
	switch {
	case purchaserCount <= 0:
		return StatusNew
	case purchaserCount < Capacity:
		return StatusPurchased
	default:
		return StatusArchived
	}
}
