//go:build unit || e2e

package builder

import (
	"time"

	domlead "leadgate/internal/domain/lead"
	reqdto "leadgate/internal/handler/dto/request"
	"leadgate/internal/infra/readstore"

	"github.com/google/uuid"
)

type LeadBuilder struct {
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
	PurchasedBy    []uuid.UUID
	PurchaseDates  map[uuid.UUID]time.Time
	CreatedAt      time.Time
}

func NewLeadBuilder() *LeadBuilder {
	now := time.Now()
	return &LeadBuilder{
		ID:             uuid.New(),
		Category:       "excavator",
		EquipmentTypes: []string{"mini-excavator"},
		RentalDuration: "1-week",
		StartDate:      "2026-09-15",
		Budget:         "1000-2000",
		Street:         "12 Harbor Rd",
		City:           "Portland",
		ZipCode:        "97201",
		ContactName:    "Dana Wells",
		ContactEmail:   "dana@example.com",
		ContactPhone:   "+1-503-555-0101",
		Notes:          "Site has limited access",
		PurchasedBy:    nil,
		PurchaseDates:  map[uuid.UUID]time.Time{},
		CreatedAt:      now,
	}
}

func (b *LeadBuilder) With(mutate func(*LeadBuilder)) *LeadBuilder {
	mutate(b)
	return b
}

func (b *LeadBuilder) WithPurchasers(ids ...uuid.UUID) *LeadBuilder {
	b.PurchasedBy = append(b.PurchasedBy, ids...)
	for _, id := range ids {
		b.PurchaseDates[id] = b.CreatedAt
	}
	return b
}

func (b *LeadBuilder) BuildDomain() (*domlead.Lead, error) {
	contact := domlead.Contact{
		Name:  b.ContactName,
		Email: b.ContactEmail,
		Phone: b.ContactPhone,
	}
	details := domlead.Details{
		Category:       b.Category,
		EquipmentTypes: b.EquipmentTypes,
		RentalDuration: b.RentalDuration,
		StartDate:      b.StartDate,
		Budget:         b.Budget,
		Street:         b.Street,
		City:           b.City,
		ZipCode:        b.ZipCode,
		Notes:          b.Notes,
	}
	return domlead.NewLead(contact, details)
}

func (b *LeadBuilder) BuildCreateRequestDTO() reqdto.CreateLeadRequest {
	return reqdto.CreateLeadRequest{
		Category:       b.Category,
		EquipmentTypes: b.EquipmentTypes,
		RentalDuration: b.RentalDuration,
		StartDate:      b.StartDate,
		Budget:         b.Budget,
		Street:         b.Street,
		City:           b.City,
		ZipCode:        b.ZipCode,
		Name:           b.ContactName,
		Email:          b.ContactEmail,
		Phone:          b.ContactPhone,
		Details:        b.Notes,
	}
}

// BuildCreateRequestMap returns the request as a map so tests can drop or
// overwrite individual fields before sending.
func (b *LeadBuilder) BuildCreateRequestMap() map[string]any {
	return map[string]any{
		"category":       b.Category,
		"equipmentTypes": b.EquipmentTypes,
		"rentalDuration": b.RentalDuration,
		"startDate":      b.StartDate,
		"budget":         b.Budget,
		"street":         b.Street,
		"city":           b.City,
		"zipCode":        b.ZipCode,
		"name":           b.ContactName,
		"email":          b.ContactEmail,
		"phone":          b.ContactPhone,
		"details":        b.Notes,
	}
}

func (b *LeadBuilder) BuildView() *readstore.LeadView {
	status := string(domlead.StatusFor(len(b.PurchasedBy)))
	return &readstore.LeadView{
		ID:             b.ID,
		Category:       b.Category,
		EquipmentTypes: b.EquipmentTypes,
		RentalDuration: b.RentalDuration,
		StartDate:      b.StartDate,
		Budget:         b.Budget,
		Street:         b.Street,
		City:           b.City,
		ZipCode:        b.ZipCode,
		ContactName:    b.ContactName,
		ContactEmail:   b.ContactEmail,
		ContactPhone:   b.ContactPhone,
		Notes:          b.Notes,
		Status:         status,
		PurchasedBy:    b.PurchasedBy,
		PurchaseDates:  b.PurchaseDates,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.CreatedAt,
	}
}
