package product

import (
	"errors"
	"time"
)

var (
	ErrInvalidName  = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidStock = errors.New("stock must not be negative")
)

const (
	// DefaultImage is substituted when a product is created without one.
	DefaultImage = "https://placehold.co/800x600?text=PTEROHUB"

	// DefaultCategory is the catch-all category label.
	DefaultCategory = "Other"
)

// Product is a catalog item. Price is in the smallest currency unit.
// OriginalPrice, when set, is the pre-discount price shown struck through.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int       `json:"price"`
	OriginalPrice int       `json:"original_price,omitempty"`
	Stock         int       `json:"stock"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Features      []string  `json:"features"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	SalesCount    int       `json:"sales_count"`
	Views         int       `json:"views"`
}

// Draft holds the caller-supplied fields of a new product.
type Draft struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"original_price"`
	Stock         int      `json:"stock"`
	Category      string   `json:"category"`
	Image         string   `json:"image"`
	Features      []string `json:"features"`
	IsActive      bool     `json:"is_active"`
}

// Validate checks the required fields of a draft. Callers are expected to
// run this before handing the draft to the repository.
func (d Draft) Validate() error {
	if d.Name == "" {
		return ErrInvalidName
	}
	if d.Price <= 0 {
		return ErrInvalidPrice
	}
	if d.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Update carries a partial product edit. Nil fields are left unchanged.
type Update struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Price         *int      `json:"price,omitempty"`
	OriginalPrice *int      `json:"original_price,omitempty"`
	Stock         *int      `json:"stock,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Image         *string   `json:"image,omitempty"`
	Features      *[]string `json:"features,omitempty"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

// Apply merges the update into p. UpdatedAt is the repository's concern.
func (u Update) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		p.OriginalPrice = *u.OriginalPrice
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Features != nil {
		p.Features = *u.Features
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}
