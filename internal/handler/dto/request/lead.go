package request

import "leadgate/internal/domain/lead"

type CreateLeadRequest struct {
	Category       string   `json:"category" binding:"required"`
	EquipmentTypes []string `json:"equipmentTypes" binding:"required,min=1"`
	RentalDuration string   `json:"rentalDuration" binding:"required"`
	StartDate      string   `json:"startDate" binding:"required"`
	Budget         string   `json:"budget"`
	Street         string   `json:"street"`
	City           string   `json:"city" binding:"required"`
	ZipCode        string   `json:"zipCode" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Phone          string   `json:"phone"`
	Details        string   `json:"details"`
}

func (r CreateLeadRequest) ToDomain() (lead.Contact, lead.Details) {
	contact := lead.Contact{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
	details := lead.Details{
		Category:       r.Category,
		EquipmentTypes: r.EquipmentTypes,
		RentalDuration: r.RentalDuration,
		StartDate:      r.StartDate,
		Budget:         r.Budget,
		Street:         r.Street,
		City:           r.City,
		ZipCode:        r.ZipCode,
		Notes:          r.Details,
	}
	return contact, details
}
