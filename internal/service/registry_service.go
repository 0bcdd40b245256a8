package service

import (
	"context"
	"strings"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistryPageSize is the fixed page size of registry listings.
const RegistryPageSize = 5

// Registry status filters.
const (
	StatusAll      = "All"
	StatusActive   = "Active"
	StatusDeactive = "Deactive"
)

type RegistryListQuery struct {
	Page   int
	Search string
	Status string
}

type RegistryPage[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type CreateRegistryRequest struct {
	Name   string `json:"name" validate:"required"`
	Active *bool  `json:"active"`
	Remark string `json:"remark"`
}

type UpdateRegistryRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
	Remark *string `json:"remark"`
}

// RegistryService manages one kind of reference data.
type RegistryService[T any] interface {
	Label() string
	List(ctx context.Context, q RegistryListQuery) (*RegistryPage[T], error)
	All(ctx context.Context) ([]T, error)
	Create(ctx context.Context, req CreateRegistryRequest) (*T, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRegistryRequest) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// entryPtr lets generic code reach the embedded RegistryEntry of *T.
type entryPtr[T any] interface {
	*T
	Entry() *model.RegistryEntry
}

type remarker interface {
	SetRemark(remark string)
}

type registryService[T any, PT entryPtr[T]] struct {
	repo  repository.RegistryRepository[T]
	label string
	hub   *ws.Hub

	afterCreate func(ctx context.Context, entity PT) repository.TxHook
	afterDelete func(ctx context.Context, id uuid.UUID) repository.TxHook
}

func newRegistryService[T any, PT entryPtr[T]](repo repository.RegistryRepository[T], label string, hub *ws.Hub) *registryService[T, PT] {
	return &registryService[T, PT]{repo: repo, label: label, hub: hub}
}

// NewRegistryService builds the service for a plain registry kind such as Shape or Color.
func NewRegistryService[T any, PT entryPtr[T]](repo repository.RegistryRepository[T], label string, hub *ws.Hub) RegistryService[T] {
	return newRegistryService[T, PT](repo, label, hub)
}

// NewEmployeeService keeps every employee paired with exactly one attendance sheet.
func NewEmployeeService(repo repository.RegistryRepository[model.Employee], attendance repository.AttendanceRepository, hub *ws.Hub) RegistryService[model.Employee] {
	s := newRegistryService[model.Employee](repo, "Employee", hub)
	s.afterCreate = func(ctx context.Context, e *model.Employee) repository.TxHook {
		return func(tx *gorm.DB) error {
			return attendance.WithTx(tx).Create(ctx, &model.Attendance{EmployeeID: e.ID})
		}
	}
	s.afterDelete = func(ctx context.Context, id uuid.UUID) repository.TxHook {
		return func(tx *gorm.DB) error {
			return attendance.WithTx(tx).DeleteByEmployee(ctx, id)
		}
	}
	return s
}

func (s *registryService[T, PT]) Label() string {
	return s.label
}

func (s *registryService[T, PT]) List(ctx context.Context, q RegistryListQuery) (*RegistryPage[T], error) {
	filter := repository.RegistryFilter{
		Search: q.Search,
		Page:   max(q.Page, 1),
		Limit:  RegistryPageSize,
	}
	switch q.Status {
	case "", StatusAll:
	case StatusActive:
		active := true
		filter.Active = &active
	case StatusDeactive:
		active := false
		filter.Active = &active
	default:
		return nil, apperr.Validation("Invalid status filter %q", q.Status)
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &RegistryPage[T]{
		Data:       items,
		Page:       filter.Page,
		TotalItems: total,
		TotalPages: max(1, totalPages(total, RegistryPageSize)),
	}, nil
}

func (s *registryService[T, PT]) All(ctx context.Context) ([]T, error) {
	items, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *registryService[T, PT]) Create(ctx context.Context, req CreateRegistryRequest) (*T, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	entity := PT(new(T))
	entry := entity.Entry()
	entry.Name = name
	entry.Active = req.Active == nil || *req.Active
	if r, ok := any(entity).(remarker); ok {
		r.SetRemark(strings.TrimSpace(req.Remark))
	}

	var hook repository.TxHook
	if s.afterCreate != nil {
		hook = s.afterCreate(ctx, entity)
	}
	if err := s.repo.Create(ctx, (*T)(entity), hook); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Validation("%s already exists", s.label)
		}
		return nil, err
	}

	s.publish("created", entry.ID)
	return (*T)(entity), nil
}

func (s *registryService[T, PT]) Update(ctx context.Context, id uuid.UUID, req UpdateRegistryRequest) (*T, error) {
	if req.Name == nil && req.Active == nil && req.Remark == nil {
		return nil, apperr.Validation("At least one field is required to update")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, s.label+" not found")
	}
	entity := PT(existing)
	entry := entity.Entry()

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("Name is required")
		}
		if name != entry.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		entry.Name = name
	}
	if req.Active != nil {
		entry.Active = *req.Active
	}
	if req.Remark != nil {
		if r, ok := any(entity).(remarker); ok {
			r.SetRemark(strings.TrimSpace(*req.Remark))
		}
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Validation("%s already exists", s.label)
		}
		return nil, err
	}

	s.publish("updated", id)
	return existing, nil
}

func (s *registryService[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	var hook repository.TxHook
	if s.afterDelete != nil {
		hook = s.afterDelete(ctx, id)
	}
	if err := s.repo.Delete(ctx, id, hook); err != nil {
		return notFoundOr(err, s.label+" not found")
	}
	s.publish("deleted", id)
	return nil
}

func (s *registryService[T, PT]) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	found, err := s.repo.FindByName(ctx, name)
	if err != nil && !repository.IsNotFound(err) {
		return err
	}
	if found != nil && PT(found).Entry().ID != self {
		return apperr.Validation("%s already exists", s.label)
	}
	return nil
}

func (s *registryService[T, PT]) publish(action string, id uuid.UUID) {
	s.hub.Publish(ws.Event{
		Type:   "registry",
		Action: action,
		Data:   map[string]any{"kind": s.label, "id": id},
	})
}

// PartyService adds the kapan lookup the lot entry screens need.
type PartyService interface {
	RegistryService[model.Party]
	AllWithKapans(ctx context.Context, ownerID uuid.UUID) ([]model.PartyWithKapans, error)
}

type partyService struct {
	RegistryService[model.Party]
	lots repository.LotRepository
}

func NewPartyService(repo repository.RegistryRepository[model.Party], lots repository.LotRepository, hub *ws.Hub) PartyService {
	return &partyService{
		RegistryService: NewRegistryService[model.Party](repo, "Party", hub),
		lots:            lots,
	}
}

// AllWithKapans lists active parties, each with the kapan numbers the owner has used for it.
func (s *partyService) AllWithKapans(ctx context.Context, ownerID uuid.UUID) ([]model.PartyWithKapans, error) {
	parties, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PartyWithKapans, 0, len(parties))
	for _, p := range parties {
		kapans, err := s.lots.KapanNumbers(ctx, ownerID, p.ID)
		if err != nil {
			return nil, err
		}
		if kapans == nil {
			kapans = []string{}
		}
		out = append(out, model.PartyWithKapans{Party: p, KapanNumbers: kapans})
	}
	return out, nil
}
