package handler

import (
	"go-diamond-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// List returns the caller's ledger, optionally for one party
// GET /api/transaction?partyId=
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	partyID, err := queryUUID(c, "partyId")
	if err != nil {
		return respondError(c, "handler.transaction", "List", err)
	}
	list, err := h.service.List(c.UserContext(), currentUser(c), partyID)
	if err != nil {
		return respondError(c, "handler.transaction", "List", err)
	}
	return ok(c, fiber.StatusOK, "Transactions fetched", list)
}

// Summary nets lot value against payments
// GET /api/transaction/summary?partyId=
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	partyID, err := queryUUID(c, "partyId")
	if err != nil {
		return respondError(c, "handler.transaction", "Summary", err)
	}
	summary, err := h.service.Summary(c.UserContext(), currentUser(c), partyID)
	if err != nil {
		return respondError(c, "handler.transaction", "Summary", err)
	}
	return ok(c, fiber.StatusOK, "Summary fetched", summary)
}

// Movement returns daily paid/offset totals
// GET /api/transaction/movement?days=7
func (h *TransactionHandler) Movement(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", 7)
	if err != nil {
		return respondError(c, "handler.transaction", "Movement", err)
	}
	out, err := h.service.Movement(c.UserContext(), currentUser(c), days)
	if err != nil {
		return respondError(c, "handler.transaction", "Movement", err)
	}
	return ok(c, fiber.StatusOK, "Movement fetched", out)
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req service.TransactionRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.transaction", "Create", err)
	}
	tx, err := h.service.Create(c.UserContext(), currentUser(c), req)
	if err != nil {
		return respondError(c, "handler.transaction", "Create", err)
	}
	return ok(c, fiber.StatusCreated, "Transaction created", tx)
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.transaction", "Update", err)
	}
	var req service.TransactionRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.transaction", "Update", err)
	}
	tx, err := h.service.Update(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return respondError(c, "handler.transaction", "Update", err)
	}
	return ok(c, fiber.StatusOK, "Transaction updated", tx)
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "handler.transaction", "Delete", err)
	}
	if err := h.service.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, "handler.transaction", "Delete", err)
	}
	return ok(c, fiber.StatusOK, "Transaction deleted", nil)
}
