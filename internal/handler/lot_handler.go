package handler

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/report"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LotHandler struct {
	service service.LotService
	loc     *time.Location
}

// NewLotHandler interprets calendar-day query parameters in loc.
func NewLotHandler(s service.LotService, loc *time.Location) *LotHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LotHandler{service: s, loc: loc}
}

type lotPageResponse struct {
	Success bool `json:"success"`
	*service.LotPage
}

// Query lists the caller's lots
// GET /api/diamondLot
func (h *LotHandler) Query(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return respondError(c, "handler.lot", "Query", err)
	}
	page, err := h.service.QueryLots(c.UserContext(), currentUser(c), q)
	if err != nil {
		return respondError(c, "handler.lot", "Query", err)
	}
	return c.JSON(lotPageResponse{Success: true, LotPage: page})
}

// Export downloads every matching lot as a workbook
// GET /api/diamondLot/export
func (h *LotHandler) Export(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return respondError(c, "handler.lot", "Export", err)
	}
	lots, totals, err := h.service.ExportLots(c.UserContext(), currentUser(c), q)
	if err != nil {
		return respondError(c, "handler.lot", "Export", err)
	}

	c.Set(fiber.HeaderContentType, report.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="diamond-lots.xlsx"`)
	if err := report.WriteLots(c.Response().BodyWriter(), lots, totals, h.loc); err != nil {
		return respondError(c, "handler.lot", "Export", err)
	}
	return nil
}

// Get returns one lot by its uniqueId
// GET /api/diamondLot/lot?uniqueId=
func (h *LotHandler) Get(c *fiber.Ctx) error {
	uniqueID, err := strconv.ParseInt(c.Query("uniqueId"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid uniqueId")
	}
	lot, err := h.service.GetLot(c.UserContext(), currentUser(c), uniqueID)
	if err != nil {
		return respondError(c, "handler.lot", "Get", err)
	}
	return ok(c, fiber.StatusOK, "Diamond lot fetched", lot)
}

// Create stores a batch of lots
// POST /api/diamondLot
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var req service.CreateLotsRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.lot", "Create", err)
	}
	lots, err := h.service.CreateLots(c.UserContext(), currentUser(c), req)
	if err != nil {
		return respondError(c, "handler.lot", "Create", err)
	}
	return ok(c, fiber.StatusOK, "Diamond lots created", lots)
}

// Update patches one lot
// PUT /api/diamondLot/:id
func (h *LotHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.lot", "Update", err)
	}
	var patch service.LotPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, "handler.lot", "Update", err)
	}
	lot, err := h.service.UpdateLot(c.UserContext(), currentUser(c), id, patch)
	if err != nil {
		return respondError(c, "handler.lot", "Update", err)
	}
	return ok(c, fiber.StatusOK, "Diamond lot updated", lot)
}

// Delete removes one lot
// DELETE /api/diamondLot/:id
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.lot", "Delete", err)
	}
	if err := h.service.DeleteLot(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, "handler.lot", "Delete", err)
	}
	return ok(c, fiber.StatusOK, "Diamond lot deleted", nil)
}

// sortParams are checked in order; the first with asc or desc wins.
var sortParams = []struct {
	key    string
	column string
}{
	{"dateReverse", repository.SortByDate},
	{"uniqueIdReverse", repository.SortByUniqueID},
	{"polishDateReverse", repository.SortByPolishDate},
	{"HPHTDateReverse", repository.SortByHPHTDate},
}

func (h *LotHandler) parseQuery(c *fiber.Ctx) (service.LotQuery, error) {
	var q service.LotQuery
	var err error

	if q.Filter.PartyIDs, err = queryIDs(c, "partyId"); err != nil {
		return q, err
	}
	if q.Filter.StatusIDs, err = queryIDs(c, "statusId"); err != nil {
		return q, err
	}
	if q.Filter.PaymentStatusIDs, err = queryIDs(c, "paymentStatusId"); err != nil {
		return q, err
	}
	if q.Filter.KapanNumbers, err = queryList(c, "kapanNumber"); err != nil {
		return q, err
	}

	if raw := c.Query("startDate"); raw != "" {
		t, err := model.ParseDate(raw, h.loc)
		if err != nil {
			return q, apperr.Validation("Invalid startDate")
		}
		from := t.UTC()
		q.Filter.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := model.ParseDate(raw, h.loc)
		if err != nil {
			return q, apperr.Validation("Invalid endDate")
		}
		to := model.EndOfDay(t.In(h.loc)).UTC()
		q.Filter.To = &to
	}
	q.Filter.Search = strings.TrimSpace(c.Query("search"))

	q.Sort = repository.LotSort{Column: repository.SortByUniqueID}
	for _, p := range sortParams {
		switch v := strings.ToLower(c.Query(p.key)); v {
		case "", "default":
			continue
		case "asc", "desc":
			q.Sort = repository.LotSort{Column: p.column, Desc: v == "desc"}
		default:
			return q, apperr.Validation("Invalid %s, use asc, desc or default", p.key)
		}
		break
	}

	if q.Page, err = queryInt(c, "page", 1); err != nil {
		return q, err
	}
	if q.PageSize, err = queryInt(c, "record", service.DefaultLotPageSize); err != nil {
		return q, err
	}
	return q, nil
}

// queryList collects key from repeated parameters, each either a plain value
// or a JSON array of strings.
func queryList(c *fiber.Ctx, key string) ([]string, error) {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		v := strings.TrimSpace(string(raw))
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err != nil {
				return nil, apperr.Validation("Invalid %s array", key)
			}
			for _, a := range arr {
				if a = strings.TrimSpace(a); a != "" {
					out = append(out, a)
				}
			}
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func queryIDs(c *fiber.Ctx, key string) ([]uuid.UUID, error) {
	values, err := queryList(c, key)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, apperr.Validation("Invalid %s in array", key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
