// Package products is the cake catalog.
package products

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry. Sizes maps a size label to its price in rupees.
type Product struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string           `gorm:"not null" json:"title"`
	Slug           string           `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string           `gorm:"type:text" json:"description,omitempty"`
	Category       string           `gorm:"not null;index" json:"category"`
	Sizes          map[string]int64 `gorm:"type:jsonb;serializer:json;not null" json:"sizes"`
	Flavors        []string         `gorm:"type:jsonb;serializer:json" json:"flavors"`
	Images         []string         `gorm:"type:jsonb;serializer:json" json:"images"`
	IsCustomizable bool             `json:"isCustomizable"`
	IsPhotoCake    bool             `json:"isPhotoCake"`
	CreatedAt      time.Time        `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
