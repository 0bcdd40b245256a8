package service

import (
	"context"
	"strings"
	"time"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/ws"

	"github.com/google/uuid"
)

type MarkAttendanceRequest struct {
	EmployeeID uuid.UUID              `json:"employeeId" validate:"uuid_required"`
	Date       string                 `json:"date" validate:"required"`
	Status     model.AttendanceStatus `json:"status" validate:"required,oneof=Present Halfday Absent"`
	Remarks    *string                `json:"remarks"`
}

type AttendanceService interface {
	All(ctx context.Context) ([]model.Attendance, error)
	ForEmployee(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error)
	Mark(ctx context.Context, req MarkAttendanceRequest) (*model.Attendance, error)
	DeleteDate(ctx context.Context, employeeID uuid.UUID, date string) (*model.Attendance, error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	employees repository.RegistryRepository[model.Employee]
	hub       *ws.Hub
}

func NewAttendanceService(repo repository.AttendanceRepository, employees repository.RegistryRepository[model.Employee], hub *ws.Hub) AttendanceService {
	return &attendanceService{repo: repo, employees: employees, hub: hub}
}

func (s *attendanceService) All(ctx context.Context) ([]model.Attendance, error) {
	sheets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if sheets == nil {
		sheets = []model.Attendance{}
	}
	return sheets, nil
}

func (s *attendanceService) ForEmployee(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error) {
	sheet, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, notFoundOr(err, "Attendance not found")
	}
	return sheet, nil
}

// Mark records the status of one day. An employee created before attendance
// tracking gets a sheet on first use.
func (s *attendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*model.Attendance, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	day, err := normalizeDay(req.Date)
	if err != nil {
		return nil, err
	}
	if err := mustExist(ctx, s.employees, req.EmployeeID, "Employee"); err != nil {
		return nil, err
	}

	sheet, err := s.repo.FindByEmployee(ctx, req.EmployeeID)
	if repository.IsNotFound(err) {
		sheet = &model.Attendance{EmployeeID: req.EmployeeID}
		err = s.repo.Create(ctx, sheet)
	}
	if err != nil {
		return nil, err
	}

	if req.Remarks != nil {
		if err := s.repo.UpdateRemarks(ctx, sheet.ID, strings.TrimSpace(*req.Remarks)); err != nil {
			return nil, err
		}
	}
	entry := &model.AttendanceEntry{AttendanceID: sheet.ID, Day: day, Status: req.Status}
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.publish("marked", req.EmployeeID)
	return s.ForEmployee(ctx, req.EmployeeID)
}

func (s *attendanceService) DeleteDate(ctx context.Context, employeeID uuid.UUID, date string) (*model.Attendance, error) {
	day, err := normalizeDay(date)
	if err != nil {
		return nil, err
	}
	sheet, err := s.ForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteEntry(ctx, sheet.ID, day); err != nil {
		return nil, notFoundOr(err, "No attendance recorded for "+day)
	}
	s.publish("unmarked", employeeID)
	return s.ForEmployee(ctx, employeeID)
}

func (s *attendanceService) publish(action string, employeeID uuid.UUID) {
	s.hub.Publish(ws.Event{Type: "attendance", Action: action, Data: map[string]any{"employeeId": employeeID}})
}

// normalizeDay reduces YYYY-MM-DD or an RFC3339 timestamp to its calendar day.
func normalizeDay(s string) (string, error) {
	t, err := model.ParseDate(s, time.UTC)
	if err != nil {
		return "", apperr.Validation("Invalid date %q", s)
	}
	return t.Format(model.DayLayout), nil
}
