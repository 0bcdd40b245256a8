package handler

import (
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegistryHandler serves one kind of reference data.
type RegistryHandler[T any] struct {
	service service.RegistryService[T]
	module  string
}

func NewRegistryHandler[T any](s service.RegistryService[T]) *RegistryHandler[T] {
	return &RegistryHandler[T]{service: s, module: "handler." + s.Label()}
}

// List pages through entries
// GET /api/<kind>?page=&search=&status=All|Active|Deactive
func (h *RegistryHandler[T]) List(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return respondError(c, h.module, "List", err)
	}
	res, err := h.service.List(c.UserContext(), service.RegistryListQuery{
		Page:   page,
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		return respondError(c, h.module, "List", err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       res.Data,
		"page":       res.Page,
		"totalItems": res.TotalItems,
		"totalPages": res.TotalPages,
	})
}

// All returns every active entry
// GET /api/<kind>/all
func (h *RegistryHandler[T]) All(c *fiber.Ctx) error {
	items, err := h.service.All(c.UserContext())
	if err != nil {
		return respondError(c, h.module, "All", err)
	}
	return ok(c, fiber.StatusOK, h.service.Label()+" list fetched", items)
}

func (h *RegistryHandler[T]) Create(c *fiber.Ctx) error {
	var req service.CreateRegistryRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, h.module, "Create", err)
	}
	item, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.module, "Create", err)
	}
	return ok(c, fiber.StatusCreated, h.service.Label()+" created", item)
}

func (h *RegistryHandler[T]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.module, "Update", err)
	}
	var req service.UpdateRegistryRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.module, "Update", err)
	}
	item, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.module, "Update", err)
	}
	return ok(c, fiber.StatusOK, h.service.Label()+" updated", item)
}

func (h *RegistryHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.module, "Delete", err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.module, "Delete", err)
	}
	return ok(c, fiber.StatusOK, h.service.Label()+" deleted", nil)
}

// PartyHandler lists parties together with the caller's kapan numbers.
type PartyHandler struct {
	*RegistryHandler[model.Party]
	parties service.PartyService
}

func NewPartyHandler(s service.PartyService) *PartyHandler {
	return &PartyHandler{RegistryHandler: NewRegistryHandler[model.Party](s), parties: s}
}

// All returns active parties with kapan numbers
// GET /api/party/all
func (h *PartyHandler) All(c *fiber.Ctx) error {
	parties, err := h.parties.AllWithKapans(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, h.module, "All", err)
	}
	return ok(c, fiber.StatusOK, "Party list fetched", parties)
}
