package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one admin action against a listing. Rows are append-only.
// ListingID is a lookup key only: it may point at a listing that has since been deleted.
type AuditLog struct {
	ID        uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ListingID uint           `gorm:"column:listing_id;index" json:"listing_id"`
	Action    string         `gorm:"column:action;type:text" json:"action"`
	Admin     string         `gorm:"column:admin;type:text" json:"admin"`
	Details   datatypes.JSON `gorm:"column:details;not null;default:'{}'" json:"details"`
	Timestamp time.Time      `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogView is an audit row joined with the current title of its listing.
// ListingTitle is nil when the listing no longer exists.
type AuditLogView struct {
	ID           uint           `json:"id"`
	ListingID    uint           `json:"listing_id"`
	Action       string         `json:"action"`
	Admin        string         `json:"admin"`
	Details      datatypes.JSON `json:"details"`
	Timestamp    time.Time      `json:"timestamp"`
	ListingTitle *string        `json:"listing_title"`
}
