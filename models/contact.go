package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageStatus tracks staff handling of an inbound inquiry.
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

func (s MessageStatus) String() string { return string(s) }

// ContactMessage is created by the public contact form.
type ContactMessage struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string        `gorm:"type:varchar(200);not null" json:"name"`
	Email     string        `gorm:"type:varchar(320);not null" json:"email"`
	Phone     *string       `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Subject   string        `gorm:"type:varchar(300);not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    MessageStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required"`
}
