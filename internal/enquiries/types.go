// Package enquiries handles custom-cake requests, which carry no committed price.
package enquiries

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is an enquiry's follow-up state.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusClosed    Status = "closed"
)

// ParseStatus accepts any known status, case-insensitively. Enquiries may move between
// any two states.
func ParseStatus(s string) (Status, error) {
	switch v := Status(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusNew, StatusContacted, StatusConverted, StatusClosed:
		return v, nil
	}
	return "", fmt.Errorf("unknown enquiry status %q", s)
}

// Enquiry is a contact request for a custom cake.
type Enquiry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `json:"name,omitempty"`
	Phone        string    `gorm:"type:varchar(10);not null;index" json:"phone"`
	Email        string    `json:"email,omitempty"`
	Occasion     string    `json:"occasion,omitempty"`
	Budget       string    `json:"budget,omitempty"`
	DeliveryDate string    `json:"deliveryDate,omitempty"`
	Message      string    `gorm:"type:text" json:"message,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Status       Status    `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Enquiry) TableName() string { return "contact_enquiries" }

func (e *Enquiry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
