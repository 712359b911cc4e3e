package listings

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	listsvc "carmod-backend/internal/application/listings"
	"carmod-backend/internal/domain"
	"carmod-backend/internal/middleware"
	"carmod-backend/internal/pkg/pagination"
	"carmod-backend/internal/pkg/response"
	"carmod-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service     *listsvc.Service
	SeedEnabled bool
}

// listingBody is the create/update payload. Description and price are kept raw so
// null, numbers and numeric strings can all be told apart.
type listingBody struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Price       json.RawMessage `json:"price"`
	Status      string          `json:"status"`
	Admin       string          `json:"admin"`
}

type adminBody struct {
	Admin string `json:"admin"`
}

// GET /listings: { listings } and, when page or page_size is given, { pagination }
func (h *Handlers) ListListings(c *fiber.Ctx) error {
	page, err := pagination.ParseRequest(c.Query("page"), c.Query("page_size"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	out, err := h.Service.List(c.UserContext(), listsvc.ListFilter{Status: c.Query("status"), Page: page})
	if err != nil {
		return h.fail(c, err)
	}
	body := fiber.Map{"listings": out.Listings}
	if out.Window != nil {
		body["pagination"] = out.Window
	}
	return response.OK(c, body)
}

// GET /listings/:id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.NotFound(c, listsvc.ErrListingNotFound.Error())
	}
	listing, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, fiber.Map{"listing": listing})
}

// POST /listings: { listing }; status defaults to pending
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body listingBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	price, err := validation.ParsePrice(body.Price)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	listing, err := h.Service.Create(c.UserContext(), listsvc.CreateListingInput{
		Title:       body.Title,
		Description: validation.OptionalString(body.Description),
		Price:       price,
		Status:      body.Status,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, fiber.Map{"listing": listing})
}

// PUT /listings/:id: full replace; admin falls back to the session user, then "admin"
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.NotFound(c, listsvc.ErrListingNotFound.Error())
	}
	var body listingBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	price, err := validation.ParsePrice(body.Price)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	listing, err := h.Service.Update(c.UserContext(), id, listsvc.UpdateListingInput{
		Title:       body.Title,
		Description: validation.OptionalString(body.Description),
		Price:       price,
		Status:      body.Status,
		Admin:       actingAdmin(c, body.Admin),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, fiber.Map{"listing": listing})
}

// DELETE /listings/:id: { message }
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.NotFound(c, listsvc.ErrListingNotFound.Error())
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return response.Message(c, "Listing deleted")
}

// POST /listings/:id/approve
func (h *Handlers) ApproveListing(c *fiber.Ctx) error {
	return h.changeStatus(c, h.Service.Approve)
}

// POST /listings/:id/reject
func (h *Handlers) RejectListing(c *fiber.Ctx) error {
	return h.changeStatus(c, h.Service.Reject)
}

// POST /seed: inserts the sample listings. 404 when seeding is disabled.
func (h *Handlers) Seed(c *fiber.Ctx) error {
	if !h.SeedEnabled {
		return fiber.ErrNotFound
	}
	if _, err := h.Service.Seed(c.UserContext()); err != nil {
		return h.fail(c, err)
	}
	return response.Message(c, "Database seeded with sample data")
}

type statusChange func(ctx context.Context, id uint, admin string) (*domain.Listing, error)

func (h *Handlers) changeStatus(c *fiber.Ctx, apply statusChange) error {
	id, ok := listingID(c)
	if !ok {
		return response.NotFound(c, listsvc.ErrListingNotFound.Error())
	}
	var body adminBody
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	listing, err := apply(c.UserContext(), id, actingAdmin(c, body.Admin))
	if err != nil {
		return h.fail(c, err)
	}
	return response.OK(c, fiber.Map{"listing": listing})
}

// fail maps service errors onto responses. Unknown errors are logged and hidden.
func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, listsvc.ErrListingNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, listsvc.ErrTitleRequired):
		return response.BadRequest(c, err.Error())
	}
	log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("Listing request failed")
	return response.Internal(c)
}

// listingID parses the :id route parameter. Ids that cannot exist are reported as not found.
func listingID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// actingAdmin picks the admin identifier for the audit trail: the request body first,
// then the session user. The service falls back to "admin" when both are empty.
func actingAdmin(c *fiber.Ctx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if p := middleware.GetUser(c); p != nil {
		return p.Username
	}
	return ""
}
