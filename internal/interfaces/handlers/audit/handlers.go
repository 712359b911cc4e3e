package audit

import (
	"strconv"

	auditsvc "carmod-backend/internal/application/audit"
	"carmod-backend/internal/middleware"
	"carmod-backend/internal/pkg/pagination"
	"carmod-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *auditsvc.Service
}

// GET /audit-logs: { logs } newest first, each with listing_title (null once the listing is gone).
// Optional filters: listing_id, action, page, page_size.
func (h *Handlers) ListAuditLogs(c *fiber.Ctx) error {
	page, err := pagination.ParseRequest(c.Query("page"), c.Query("page_size"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	f := auditsvc.ListFilter{Action: c.Query("action"), Page: page}
	if raw := c.Query("listing_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid listing_id")
		}
		f.ListingID = uint(id)
	}

	out, err := h.Service.List(c.UserContext(), f)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Audit log read failed")
		return response.Internal(c)
	}
	body := fiber.Map{"logs": out.Logs}
	if out.Window != nil {
		body["pagination"] = out.Window
	}
	return response.OK(c, body)
}
