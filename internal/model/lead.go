package model

import (
	"time"

	"gorm.io/gorm"
)

// Lead represents a captured enquiry with the quote it was raised from
type Lead struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	City         string         `json:"city" gorm:"type:varchar(255);not null"`
	Mobile       string         `json:"mobile" gorm:"type:varchar(32);not null"`
	Email        string         `json:"email" gorm:"type:varchar(255)"`
	ProductID    string         `json:"product_id" gorm:"type:varchar(100);index;not null"`
	Summary      string         `json:"summary" gorm:"type:text"`
	QuoteLow     float64        `json:"quote_low"`
	QuoteHigh    float64        `json:"quote_high"`
	Delivered    bool           `json:"delivered" gorm:"default:false"`
	DeliveredVia string         `json:"delivered_via" gorm:"type:varchar(32)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
