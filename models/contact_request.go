package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactRequest is a stored contact form submission.
type ContactRequest struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null"`
	Company   *string   `json:"company,omitempty" db:"company" gorm:"type:text"`
	Subject   *string   `json:"subject,omitempty" db:"subject" gorm:"type:text"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null"`
	IPAddress string    `json:"ip_address" db:"ip_address" gorm:"column:ip_address;type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"index:idx_contact_requests_created_at,sort:desc"`
}

func (ContactRequest) TableName() string { return "contact_requests" }
