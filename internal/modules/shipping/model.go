package shipping

import (
	"time"

	"github.com/google/uuid"
)

const defaultCountry = "Nepal"

// Address is a customer's saved delivery address. Each user keeps one.
type Address struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	FullName     string    `json:"fullName"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	Landmark     string    `json:"landmark,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state,omitempty"`
	PostalCode   string    `json:"postalCode"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AddressRequest is the body for adding or replacing the saved address.
type AddressRequest struct {
	FullName     string `json:"fullName" validate:"required,min=3,max=100"`
	Phone        string `json:"phone" validate:"required,min=7,max=20"`
	AddressLine1 string `json:"addressLine1" validate:"required,max=200"`
	AddressLine2 string `json:"addressLine2" validate:"max=200"`
	Landmark     string `json:"landmark" validate:"max=200"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"max=100"`
	PostalCode   string `json:"postalCode" validate:"required,max=20"`
	Country      string `json:"country" validate:"max=100"`
}

func (r AddressRequest) apply(a *Address) {
	a.FullName = r.FullName
	a.Phone = r.Phone
	a.AddressLine1 = r.AddressLine1
	a.AddressLine2 = r.AddressLine2
	a.Landmark = r.Landmark
	a.City = r.City
	a.State = r.State
	a.PostalCode = r.PostalCode
	a.Country = r.Country
	if a.Country == "" {
		a.Country = defaultCountry
	}
}
