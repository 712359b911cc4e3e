package domain

import (
	"time"
)

// Listing is a car-for-sale record moderated through the pending/approved/rejected workflow.
// Status is free text at the storage level; see constants.ValidStatuses.
type Listing struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;type:text;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	Price       *float64  `gorm:"column:price" json:"price"`
	Status      string    `gorm:"column:status;type:text;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}
