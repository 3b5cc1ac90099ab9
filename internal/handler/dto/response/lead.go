package response

import (
	"time"

	"leadgate/internal/domain/lead"
	"leadgate/internal/infra/readstore"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	Category       string     `json:"category"`
	EquipmentTypes []string   `json:"equipmentTypes"`
	RentalDuration string     `json:"rentalDuration"`
	StartDate      string     `json:"startDate"`
	Budget         string     `json:"budget"`
	City           string     `json:"city"`
	ZipCode        string     `json:"zipCode"`
	Status         string     `json:"status"`
	PurchasedCount int        `json:"purchasedCount"`
	RemainingSlots int        `json:"remainingSlots"`
	CreatedAt      time.Time  `json:"createdAt"`
	Owned          bool       `json:"owned"`
	PurchasedAt    *time.Time `json:"purchasedAt,omitempty"`

	// Contact details unlock for purchasers only.
	ContactName  string `json:"name,omitempty"`
	ContactEmail string `json:"email,omitempty"`
	ContactPhone string `json:"phone,omitempty"`
	Street       string `json:"street,omitempty"`
	Details      string `json:"details,omitempty"`
}

func FromLeadView(v *readstore.LeadView, viewerID uuid.UUID) *LeadResponse {
	resp := &LeadResponse{}
	_ = copier.Copy(resp, v)

	count := len(v.PurchasedBy)
	resp.PurchasedCount = count
	resp.RemainingSlots = max(lead.Capacity-count, 0)

	owned := false
	for _, p := range v.PurchasedBy {
		if p == viewerID {
			owned = true
			break
		}
	}
	resp.Owned = owned

	if owned {
		resp.ContactName = v.ContactName
		resp.ContactEmail = v.ContactEmail
		resp.ContactPhone = v.ContactPhone
		resp.Street = v.Street
		resp.Details = v.Notes
		if at, ok := v.PurchaseDates[viewerID]; ok {
			resp.PurchasedAt = &at
		}
	} else {
		resp.ContactName = ""
		resp.ContactEmail = ""
		resp.ContactPhone = ""
		resp.Street = ""
		resp.Details = ""
	}

	return resp
}

type PurchaseResponse struct {
	Granted bool   `json:"granted"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome,omitempty"`
	Conflict string `json:"conflict,omitempty"`
}
