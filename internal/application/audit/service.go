package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"carmod-backend/internal/domain"
	"carmod-backend/internal/pkg/pagination"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service reads the audit trail. Entries are only ever written through Append,
// as a side effect of listing mutations.
type Service struct {
	DB *gorm.DB
}

// ListFilter narrows an audit read. Zero values match everything.
type ListFilter struct {
	ListingID uint
	Action    string
	Page      pagination.Request
}

// Page is one read of the audit trail. Window is nil when no page was requested.
type Page struct {
	Logs   []domain.AuditLogView
	Window *pagination.Window
}

// Change is the before/after pair of one field recorded in an entry's details.
type Change struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// Append writes one audit entry using tx, so callers can put it in the same
// transaction as the listing change it records.
func Append(tx *gorm.DB, listingID uint, action, admin string, details map[string]Change) (*domain.AuditLog, error) {
	entry := &domain.AuditLog{
		ListingID: listingID,
		Action:    action,
		Admin:     admin,
	}
	if details == nil {
		details = map[string]Change{}
	}
	b, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal audit details: %w", err)
	}
	entry.Details = datatypes.JSON(b)
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("Failed to write audit log: %w", err)
	}
	return entry, nil
}

// ListAll returns every entry, newest first, with the listing title resolved.
func (s *Service) ListAll(ctx context.Context) ([]domain.AuditLogView, error) {
	p, err := s.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	return p.Logs, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) (*Page, error) {
	q := s.DB.WithContext(ctx).
		Table("audit_logs AS al").
		Select("al.id, al.listing_id, al.action, al.admin, al.details, al.timestamp, l.title AS listing_title").
		Joins("LEFT JOIN listings AS l ON al.listing_id = l.id")
	if f.ListingID != 0 {
		q = q.Where("al.listing_id = ?", f.ListingID)
	}
	if f.Action != "" {
		q = q.Where("al.action = ?", f.Action)
	}
	q = q.Order("al.timestamp DESC").Order("al.id DESC")

	out := &Page{Logs: []domain.AuditLogView{}}
	if f.Page.Requested {
		var total int64
		cq := s.DB.WithContext(ctx).Model(&domain.AuditLog{})
		if f.ListingID != 0 {
			cq = cq.Where("listing_id = ?", f.ListingID)
		}
		if f.Action != "" {
			cq = cq.Where("action = ?", f.Action)
		}
		if err := cq.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("Failed to count audit logs: %w", err)
		}
		w := pagination.NewWindow(int(total), f.Page.Page, f.Page.PageSize)
		out.Window = &w
		q = q.Offset(w.Offset()).Limit(w.PageSize)
	}

	if err := q.Scan(&out.Logs).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch audit logs: %w", err)
	}
	return out, nil
}
