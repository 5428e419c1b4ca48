package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory is the closed set of catalog categories.
type ProductCategory string

const (
	CategoryCake    ProductCategory = "cake"
	CategoryCupcake ProductCategory = "cupcake"
	CategoryDessert ProductCategory = "dessert"
	CategoryBread   ProductCategory = "bread"
	CategoryOther   ProductCategory = "other"

	// CategoryAll is accepted by catalog filters only; no product carries it.
	CategoryAll ProductCategory = "all"
)

// ProductCategories lists the valid categories in display order.
var ProductCategories = []ProductCategory{
	CategoryCake,
	CategoryCupcake,
	CategoryDessert,
	CategoryBread,
	CategoryOther,
}

func (c ProductCategory) String() string { return string(c) }

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryCake, CategoryCupcake, CategoryDessert, CategoryBread, CategoryOther:
		return true
	default:
		return false
	}
}

// Product is a catalog entry. Price is in minor currency units.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Price       int64           `gorm:"not null" json:"price"`
	Category    ProductCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageURL    string          `gorm:"type:varchar(1024)" json:"image_url"`
	Available   bool            `gorm:"not null;index" json:"available"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductRequest is the admin payload for creating or replacing a product.
// Price is a decimal string such as "12.50".
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Available   *bool  `json:"available"`
}
