package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is one of the fixed product categories.
type Category string

const (
	CategoryElectronics    Category = "electronics"
	CategoryFashion        Category = "fashion"
	CategoryBooks          Category = "books"
	CategoryHomeAppliances Category = "home-appliances"
	CategorySports         Category = "sports"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryBooks, CategoryHomeAppliances, CategorySports:
		return true
	}
	return false
}

// Image is a product picture hosted elsewhere.
type Image struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt,omitempty"`
}

// Product is a vendor listing. It is visible to shoppers only when active and
// confirmed by an admin.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendorId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Stock       int             `json:"stock"`
	Discount    int             `json:"discount"`
	Features    []string        `json:"features"`
	Images      []Image         `json:"images"`
	IsActive    bool            `json:"isActive"`
	Confirmed   bool            `json:"confirmed"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Vendor *VendorSummary `json:"vendor,omitempty"`
}

// VendorSummary is the owner shown on admin listings.
type VendorSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Visible reports whether shoppers may see and order the product.
func (p *Product) Visible() bool { return p.IsActive && p.Confirmed }

// MainImage is the first image URL, if any.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// CreateProductRequest is the vendor payload for a new listing.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description" validate:"required,min=10"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category" validate:"required,oneof=electronics fashion books home-appliances sports"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Discount    int             `json:"discount" validate:"gte=0,lte=100"`
	Features    []string        `json:"features" validate:"omitempty,dive,required"`
	Images      []Image         `json:"images" validate:"omitempty,dive"`
}

// UpdateProductRequest changes only the fields that are present.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description" validate:"omitempty,min=10"`
	Price       *decimal.Decimal `json:"price"`
	Category    *Category        `json:"category" validate:"omitempty,oneof=electronics fashion books home-appliances sports"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Discount    *int             `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Features    []string         `json:"features" validate:"omitempty,dive,required"`
	Images      []Image          `json:"images" validate:"omitempty,dive"`
	IsActive    *bool            `json:"isActive"`
}
