package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferingIcon names the storefront icon drawn next to an offering.
type OfferingIcon string

const (
	IconHeart    OfferingIcon = "heart"
	IconUsers    OfferingIcon = "users"
	IconSparkles OfferingIcon = "sparkles"
)

func (i OfferingIcon) IsValid() bool {
	switch i {
	case IconHeart, IconUsers, IconSparkles:
		return true
	default:
		return false
	}
}

// ServiceOffering is a service the bakery advertises on the home page, such
// as custom cakes or event catering. It is stored in the "services" table.
type ServiceOffering struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string       `gorm:"type:varchar(200);not null" json:"title"`
	Description  string       `gorm:"type:text;not null;default:''" json:"description"`
	ImageURL     string       `gorm:"type:varchar(1024)" json:"image_url"`
	Icon         OfferingIcon `gorm:"type:varchar(20);not null;default:'heart'" json:"icon"`
	Active       bool         `gorm:"not null;index" json:"active"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ServiceOffering) TableName() string { return "services" }

// ServiceOfferingRequest is the admin payload for creating or replacing an
// offering. Nil Active and DisplayOrder keep the current values.
type ServiceOfferingRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	Icon         string `json:"icon"`
	Active       *bool  `json:"active"`
	DisplayOrder *int   `json:"display_order" validate:"omitempty,min=0"`
}
