package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carmod-backend/internal/application/audit"
	"carmod-backend/internal/domain"
	"carmod-backend/internal/pkg/constants"
	"carmod-backend/internal/pkg/pagination"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("Listing not found")
	ErrTitleRequired   = errors.New("Title is required")
)

type Service struct {
	DB *gorm.DB
}

type CreateListingInput struct {
	Title       string
	Description *string
	Price       *float64
	Status      string
}

// UpdateListingInput replaces every mutable field of a listing.
type UpdateListingInput struct {
	Title       string
	Description *string
	Price       *float64
	Status      string
	Admin       string
}

// ListFilter narrows a listing read. Status "" or "all" matches every listing.
type ListFilter struct {
	Status string
	Page   pagination.Request
}

// Page is one read of the listings table. Window is nil when no page was requested.
type Page struct {
	Listings []domain.Listing
	Window   *pagination.Window
}

// ListAll returns the whole table, newest first.
func (s *Service) ListAll(ctx context.Context) ([]domain.Listing, error) {
	p, err := s.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	return p.Listings, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) (*Page, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Listing{})
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}

	out := &Page{Listings: []domain.Listing{}}
	if f.Page.Requested {
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("Failed to count listings: %w", err)
		}
		w := pagination.NewWindow(int(total), f.Page.Page, f.Page.PageSize)
		out.Window = &w
		q = q.Offset(w.Offset()).Limit(w.PageSize)
	}

	if err := q.Order("created_at DESC").Order("id DESC").Find(&out.Listings).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listings: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*domain.Listing, error) {
	return findListing(s.DB.WithContext(ctx), id)
}

func (s *Service) Create(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	status := in.Status
	if status == "" {
		status = constants.StatusPending
	}
	warnUnknownStatus(status)

	listing := &domain.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Status:      status,
	}
	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, fmt.Errorf("Failed to create listing: %w", err)
	}
	log.Info().Uint("listing_id", listing.ID).Str("status", status).Msg("Listing created")
	// Read back so callers see the stored row, defaults included.
	return findListing(s.DB.WithContext(ctx), listing.ID)
}

// Update replaces title, description, price and status, and records an "edited" entry.
func (s *Service) Update(ctx context.Context, id uint, in UpdateListingInput) (*domain.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	admin := adminOrDefault(in.Admin)

	var updated *domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findListing(tx, id)
		if err != nil {
			return err
		}
		// An omitted status keeps the current one; the column is never blanked.
		if in.Status == "" {
			in.Status = current.Status
		}
		warnUnknownStatus(in.Status)
		changes := diffListing(current, in)
		res := tx.Model(&domain.Listing{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":       in.Title,
			"description": in.Description,
			"price":       in.Price,
			"status":      in.Status,
			"updated_at":  tx.NowFunc(),
		})
		if res.Error != nil {
			return fmt.Errorf("Failed to update listing: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrListingNotFound
		}
		if _, err := audit.Append(tx, id, constants.ActionEdited, admin, changes); err != nil {
			return err
		}
		updated, err = findListing(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("listing_id", id).Str("action", constants.ActionEdited).Str("admin", admin).Msg("Listing updated")
	return updated, nil
}

func (s *Service) Approve(ctx context.Context, id uint, admin string) (*domain.Listing, error) {
	return s.setStatus(ctx, id, constants.StatusApproved, constants.ActionApproved, admin)
}

func (s *Service) Reject(ctx context.Context, id uint, admin string) (*domain.Listing, error) {
	return s.setStatus(ctx, id, constants.StatusRejected, constants.ActionRejected, admin)
}

// setStatus moves a listing to status from whatever state it is in and records action.
func (s *Service) setStatus(ctx context.Context, id uint, status, action, admin string) (*domain.Listing, error) {
	admin = adminOrDefault(admin)

	var updated *domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findListing(tx, id)
		if err != nil {
			return err
		}
		res := tx.Model(&domain.Listing{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": tx.NowFunc(),
		})
		if res.Error != nil {
			return fmt.Errorf("Failed to update listing status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrListingNotFound
		}
		details := map[string]audit.Change{"status": {From: current.Status, To: status}}
		if _, err := audit.Append(tx, id, action, admin, details); err != nil {
			return err
		}
		updated, err = findListing(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("listing_id", id).Str("action", action).Str("admin", admin).Msg("Listing status changed")
	return updated, nil
}

// Delete removes the listing row. Its audit entries stay and keep the dangling listing id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Listing{})
	if res.Error != nil {
		return fmt.Errorf("Failed to delete listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrListingNotFound
	}
	log.Info().Uint("listing_id", id).Msg("Listing deleted")
	return nil
}

func findListing(db *gorm.DB, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	if err := db.Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func diffListing(cur *domain.Listing, in UpdateListingInput) map[string]audit.Change {
	changes := map[string]audit.Change{}
	if cur.Title != in.Title {
		changes["title"] = audit.Change{From: cur.Title, To: in.Title}
	}
	if !equalPtr(cur.Description, in.Description) {
		changes["description"] = audit.Change{From: cur.Description, To: in.Description}
	}
	if !equalPtr(cur.Price, in.Price) {
		changes["price"] = audit.Change{From: cur.Price, To: in.Price}
	}
	if cur.Status != in.Status {
		changes["status"] = audit.Change{From: cur.Status, To: in.Status}
	}
	return changes
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func adminOrDefault(admin string) string {
	if strings.TrimSpace(admin) == "" {
		return constants.DefaultAdmin
	}
	return admin
}

func warnUnknownStatus(status string) {
	if !constants.IsKnownStatus(status) {
		log.Warn().Str("status", status).Msg("Persisting listing with unrecognised status")
	}
}
