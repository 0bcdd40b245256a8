package handler

import (
	"go-diamond-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RateHandler struct {
	service service.RateService
}

func NewRateHandler(s service.RateService) *RateHandler {
	return &RateHandler{service: s}
}

// List returns the caller's tiers for a party
// GET /api/rate?partyId=
func (h *RateHandler) List(c *fiber.Ctx) error {
	partyID, err := queryUUID(c, "partyId")
	if err != nil {
		return respondError(c, "handler.rate", "List", err)
	}
	rates, err := h.service.ListRates(c.UserContext(), currentUser(c), partyID)
	if err != nil {
		return respondError(c, "handler.rate", "List", err)
	}
	return ok(c, fiber.StatusOK, "Rates fetched", rates)
}

// Create adds a tier with its first price
// POST /api/rate
func (h *RateHandler) Create(c *fiber.Ctx) error {
	var req service.CreateRateRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.rate", "Create", err)
	}
	rate, err := h.service.CreateRate(c.UserContext(), currentUser(c), req)
	if err != nil {
		return respondError(c, "handler.rate", "Create", err)
	}
	return ok(c, fiber.StatusCreated, "Rate created", rate)
}

// UpsertItem edits or appends a price
// PUT /api/rate/:id
func (h *RateHandler) UpsertItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.rate", "UpsertItem", err)
	}
	var req service.RateItemRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "handler.rate", "UpsertItem", err)
	}
	rate, err := h.service.UpsertRateItem(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return respondError(c, "handler.rate", "UpsertItem", err)
	}
	return ok(c, fiber.StatusOK, "Rate updated", rate)
}

// Delete removes a tier and its prices
// DELETE /api/rate/:id
func (h *RateHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.rate", "Delete", err)
	}
	if err := h.service.DeleteRate(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, "handler.rate", "Delete", err)
	}
	return ok(c, fiber.StatusOK, "Rate deleted", nil)
}

type deleteItemRequest struct {
	ItemID string `json:"itemId"`
}

// DeleteItem removes one price; the tier goes with its last price
// PUT /api/rate/deleteItem/:id
func (h *RateHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.rate", "DeleteItem", err)
	}
	var req deleteItemRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "handler.rate", "DeleteItem", err)
	}
	itemID, err := parseUUIDField(req.ItemID, "itemId")
	if err != nil {
		return respondError(c, "handler.rate", "DeleteItem", err)
	}
	rate, err := h.service.DeleteRateItem(c.UserContext(), currentUser(c), id, itemID)
	if err != nil {
		return respondError(c, "handler.rate", "DeleteItem", err)
	}
	if rate == nil {
		return ok(c, fiber.StatusOK, "Rate deleted", nil)
	}
	return ok(c, fiber.StatusOK, "Rate item deleted", rate)
}
