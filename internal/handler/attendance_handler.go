package handler

import (
	"go-diamond-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	service service.AttendanceService
}

func NewAttendanceHandler(s service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: s}
}

func (h *AttendanceHandler) All(c *fiber.Ctx) error {
	sheets, err := h.service.All(c.UserContext())
	if err != nil {
		return respondError(c, "handler.attendance", "All", err)
	}
	return ok(c, fiber.StatusOK, "Attendance fetched", sheets)
}

// ForEmployee GET /api/attendance/:employeeId
func (h *AttendanceHandler) ForEmployee(c *fiber.Ctx) error {
	id, err := paramID(c, "employeeId")
	if err != nil {
		return respondError(c, "handler.attendance", "ForEmployee", err)
	}
	sheet, err := h.service.ForEmployee(c.UserContext(), id)
	if err != nil {
		return respondError(c, "handler.attendance", "ForEmployee", err)
	}
	return ok(c, fiber.StatusOK, "Attendance fetched", sheet)
}

// Mark POST /api/attendance
func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	var req service.MarkAttendanceRequest
	if err := parseLooseBody(c, &req); err != nil {
		return respondError(c, "handler.attendance", "Mark", err)
	}
	sheet, err := h.service.Mark(c.UserContext(), req)
	if err != nil {
		return respondError(c, "handler.attendance", "Mark", err)
	}
	return ok(c, fiber.StatusOK, "Attendance marked", sheet)
}

type deleteAttendanceRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
}

// DeleteDate DELETE /api/attendance
func (h *AttendanceHandler) DeleteDate(c *fiber.Ctx) error {
	var req deleteAttendanceRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "handler.attendance", "DeleteDate", err)
	}
	id, err := parseUUIDField(req.EmployeeID, "employeeId")
	if err != nil {
		return respondError(c, "handler.attendance", "DeleteDate", err)
	}
	sheet, err := h.service.DeleteDate(c.UserContext(), id, req.Date)
	if err != nil {
		return respondError(c, "handler.attendance", "DeleteDate", err)
	}
	return ok(c, fiber.StatusOK, "Attendance removed", sheet)
}
