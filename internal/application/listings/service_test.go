package listings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"carmod-backend/internal/application/audit"
	"carmod-backend/internal/domain"
	"carmod-backend/internal/infrastructure/database"
	"carmod-backend/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingsService(t *testing.T) (*Service, *gorm.DB) {
	store, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema())
	t.Cleanup(func() { store.Close() })
	return &Service{DB: store.DB}, store.DB
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func auditCount(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&domain.AuditLog{}).Count(&n).Error)
	return n
}

func TestCreate_DefaultsToPending(t *testing.T) {
	svc, _ := setupListingsService(t)
	l, err := svc.Create(context.Background(), CreateListingInput{
		Title:       "2020 Toyota Camry",
		Description: strPtr("Low mileage"),
		Price:       floatPtr(25000),
	})
	require.NoError(t, err)
	assert.NotZero(t, l.ID)
	assert.Equal(t, "pending", l.Status)
	assert.Equal(t, "Low mileage", *l.Description)
	assert.Equal(t, 25000.0, *l.Price)
	assert.False(t, l.CreatedAt.IsZero())
}

func TestCreate_KeepsSuppliedStatusEvenIfUnknown(t *testing.T) {
	svc, _ := setupListingsService(t)
	l, err := svc.Create(context.Background(), CreateListingInput{Title: "2019 Honda Civic", Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", l.Status)

	l, err = svc.Create(context.Background(), CreateListingInput{Title: "Mystery car", Status: "on-hold"})
	require.NoError(t, err)
	assert.Equal(t, "on-hold", l.Status)
	assert.Nil(t, l.Price)
	assert.Nil(t, l.Description)
}

func TestCreate_RequiresTitle(t *testing.T) {
	svc, _ := setupListingsService(t)
	_, err := svc.Create(context.Background(), CreateListingInput{Title: "  "})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := setupListingsService(t)
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestApprove_SetsStatusAndAppendsAudit(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{Title: "2018 BMW 3 Series"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	approved, err := svc.Approve(ctx, l.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.True(t, approved.UpdatedAt.After(l.UpdatedAt))
	assert.Equal(t, l.CreatedAt.Unix(), approved.CreatedAt.Unix())

	var logs []domain.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, l.ID, logs[0].ListingID)
	assert.Equal(t, "approved", logs[0].Action)
	assert.Equal(t, "alice", logs[0].Admin)

	var details map[string]audit.Change
	require.NoError(t, json.Unmarshal(logs[0].Details, &details))
	assert.Equal(t, "pending", details["status"].From)
	assert.Equal(t, "approved", details["status"].To)
}

func TestReject_SetsStatusAndAppendsAudit(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{Title: "2021 Ford Mustang", Status: "approved"})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, l.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	var logs []domain.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "rejected", logs[0].Action)
	assert.Equal(t, "admin", logs[0].Admin)
}

func TestApprove_Twice_WritesTwoEntries(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{Title: "2020 Tesla Model 3"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, l.ID, "admin")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, l.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), auditCount(t, db))
}

func TestUpdate_ReplacesAllFieldsAndAppendsEdited(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{
		Title:       "2020 Toyota Camry",
		Description: strPtr("Excellent condition"),
		Price:       floatPtr(25000),
		Status:      "approved",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, l.ID, UpdateListingInput{
		Title:  "2020 Toyota Camry SE",
		Price:  floatPtr(24000),
		Status: "pending",
		Admin:  "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "2020 Toyota Camry SE", updated.Title)
	assert.Nil(t, updated.Description)
	require.NotNil(t, updated.Price)
	assert.Equal(t, 24000.0, *updated.Price)
	assert.Equal(t, "pending", updated.Status)

	var logs []domain.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "edited", logs[0].Action)
	assert.Equal(t, "bob", logs[0].Admin)

	var details map[string]audit.Change
	require.NoError(t, json.Unmarshal(logs[0].Details, &details))
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "description")
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "status")
}

func TestUpdate_DefaultAdmin(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{Title: "Car"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, l.ID, UpdateListingInput{Title: "Car", Status: "pending"})
	require.NoError(t, err)

	var entry domain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "admin", entry.Admin)
}

func TestUpdate_OmittedStatusKeepsCurrent(t *testing.T) {
	svc, _ := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{Title: "Car", Status: "approved"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, l.ID, UpdateListingInput{Title: "Car v2"})
	require.NoError(t, err)
	assert.Equal(t, "approved", updated.Status)
}

func TestMutations_NotFound_NoAudit(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, 99, UpdateListingInput{Title: "x", Status: "pending"})
	assert.ErrorIs(t, err, ErrListingNotFound)
	_, err = svc.Approve(ctx, 99, "admin")
	assert.ErrorIs(t, err, ErrListingNotFound)
	_, err = svc.Reject(ctx, 99, "admin")
	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 99), ErrListingNotFound)

	assert.Equal(t, int64(0), auditCount(t, db))
}

func TestDelete_KeepsAuditEntries(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, CreateListingInput{Title: "2019 Honda Civic"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, l.ID, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, l.ID))
	_, err = svc.Get(ctx, l.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.Equal(t, int64(1), auditCount(t, db))

	logs, err := (&audit.Service{DB: db}).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, l.ID, logs[0].ListingID)
	assert.Nil(t, logs[0].ListingTitle)
}

func TestListAll_NewestFirst(t *testing.T) {
	svc, _ := setupListingsService(t)
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, CreateListingInput{Title: title})
		require.NoError(t, err)
	}
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "second", all[1].Title)
	assert.Equal(t, "first", all[2].Title)
}

func TestList_StatusFilterAndPage(t *testing.T) {
	svc, _ := setupListingsService(t)
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		status := "pending"
		if i%2 == 0 {
			status = "approved"
		}
		_, err := svc.Create(ctx, CreateListingInput{Title: "car", Status: status})
		require.NoError(t, err)
	}

	p, err := svc.List(ctx, ListFilter{Status: "approved", Page: pagination.Request{Page: 1, PageSize: 10, Requested: true}})
	require.NoError(t, err)
	require.NotNil(t, p.Window)
	assert.Equal(t, 12, p.Window.Total)
	assert.Equal(t, 2, p.Window.TotalPages)
	assert.Len(t, p.Listings, 10)
	for _, l := range p.Listings {
		assert.Equal(t, "approved", l.Status)
	}

	p, err = svc.List(ctx, ListFilter{Status: "approved", Page: pagination.Request{Page: 9, PageSize: 10, Requested: true}})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Window.Page)
	assert.Len(t, p.Listings, 2)

	p, err = svc.List(ctx, ListFilter{Status: "all"})
	require.NoError(t, err)
	assert.Nil(t, p.Window)
	assert.Len(t, p.Listings, 23)
}

func TestSeed_ThenApprovePending(t *testing.T) {
	svc, db := setupListingsService(t)
	ctx := context.Background()

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(0), auditCount(t, db))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, l := range all {
		assert.Equal(t, SampleListings[len(SampleListings)-1-i].Title, l.Title)
	}

	counts := map[string]int{}
	var pending *domain.Listing
	for i := range all {
		counts[all[i].Status]++
		if all[i].Status == "pending" && pending == nil {
			pending = &all[i]
		}
	}
	assert.Equal(t, map[string]int{"approved": 2, "pending": 2, "rejected": 1}, counts)

	require.NotNil(t, pending)
	approved, err := svc.Approve(ctx, pending.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, int64(1), auditCount(t, db))
}
