package service

import (
	"context"
	"strings"
	"time"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/pricing"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/ws"

	"github.com/google/uuid"
)

// RateResolver prices a polished lot.
type RateResolver interface {
	Resolve(ctx context.Context, partyID uuid.UUID, weight float64, at time.Time) (pricing.Quote, bool, error)
}

// LotRefs are the registries a lot points at.
type LotRefs struct {
	Parties         repository.RegistryRepository[model.Party]
	Shapes          repository.RegistryRepository[model.Shape]
	Colors          repository.RegistryRepository[model.Color]
	Clarities       repository.RegistryRepository[model.Clarity]
	Statuses        repository.RegistryRepository[model.Status]
	PaymentStatuses repository.RegistryRepository[model.PaymentStatus]
}

type CreateLotsRequest struct {
	PartyID     uuid.UUID       `json:"partyId" validate:"uuid_required"`
	KapanNumber string          `json:"kapanNumber" validate:"required"`
	Items       []CreateLotItem `json:"items" validate:"required,min=1,dive"`
}

type CreateLotItem struct {
	PKTNumber       string           `json:"PKTNumber" validate:"required"`
	IssueWeight     *float64         `json:"issueWeight" validate:"required,gt=0"`
	ExpectedWeight  *float64         `json:"expectedWeight" validate:"required,gte=0"`
	ShapeID         uuid.UUID        `json:"shapeId" validate:"uuid_required"`
	Date            *model.DateInput `json:"date" validate:"required"`
	PolishWeight    *float64         `json:"polishWeight" validate:"omitempty,gte=0"`
	PolishDate      *model.DateInput `json:"polishDate"`
	ColorID         *uuid.UUID       `json:"colorId"`
	ClarityID       *uuid.UUID       `json:"clarityId"`
	StatusID        *uuid.UUID       `json:"statusId"`
	PaymentStatusID *uuid.UUID       `json:"paymentStatusId"`
	HPHTWeight      *float64         `json:"HPHTWeight" validate:"omitempty,gte=0"`
	HPHTDate        *model.DateInput `json:"HPHTDate"`
	Remark          string           `json:"remark"`
}

// LotPatch lists every field a lot update may touch.
type LotPatch struct {
	PartyID         Field[uuid.UUID]       `json:"partyId"`
	KapanNumber     Field[string]          `json:"kapanNumber"`
	PKTNumber       Field[string]          `json:"PKTNumber"`
	IssueWeight     Field[float64]         `json:"issueWeight"`
	ExpectedWeight  Field[float64]         `json:"expectedWeight"`
	ShapeID         Field[uuid.UUID]       `json:"shapeId"`
	PolishWeight    Field[float64]         `json:"polishWeight"`
	ColorID         Field[uuid.UUID]       `json:"colorId"`
	ClarityID       Field[uuid.UUID]       `json:"clarityId"`
	PolishDate      Field[model.DateInput] `json:"polishDate"`
	StatusID        Field[uuid.UUID]       `json:"statusId"`
	HPHTWeight      Field[float64]         `json:"HPHTWeight"`
	HPHTDate        Field[model.DateInput] `json:"HPHTDate"`
	PaymentStatusID Field[uuid.UUID]       `json:"paymentStatusId"`
	Remark          Field[string]          `json:"remark"`
	Date            Field[model.DateInput] `json:"date"`
}

func (p *LotPatch) empty() bool {
	return !(p.PartyID.Set || p.KapanNumber.Set || p.PKTNumber.Set || p.IssueWeight.Set ||
		p.ExpectedWeight.Set || p.ShapeID.Set || p.PolishWeight.Set || p.ColorID.Set ||
		p.ClarityID.Set || p.PolishDate.Set || p.StatusID.Set || p.HPHTWeight.Set ||
		p.HPHTDate.Set || p.PaymentStatusID.Set || p.Remark.Set || p.Date.Set)
}

// requiredCleared names the first mandatory field the patch tries to clear.
func (p *LotPatch) requiredCleared() string {
	switch {
	case p.PartyID.Cleared():
		return "partyId"
	case p.KapanNumber.Cleared():
		return "kapanNumber"
	case p.PKTNumber.Cleared():
		return "PKTNumber"
	case p.IssueWeight.Cleared():
		return "issueWeight"
	case p.ExpectedWeight.Cleared():
		return "expectedWeight"
	case p.ShapeID.Cleared():
		return "shapeId"
	case p.Date.Cleared():
		return "date"
	}
	return ""
}

// LotQuery is a parsed lot listing request.
type LotQuery struct {
	Filter   repository.LotFilter
	Sort     repository.LotSort
	Page     int
	PageSize int
}

// LotPage is one page of lots plus totals over the whole filtered set.
type LotPage struct {
	Page int `json:"page"`
	model.LotTotals
	TotalPages int                `json:"totalPages"`
	Data       []model.DiamondLot `json:"data"`
}

const DefaultLotPageSize = 20

type LotService interface {
	CreateLots(ctx context.Context, ownerID uuid.UUID, req CreateLotsRequest) ([]model.DiamondLot, error)
	UpdateLot(ctx context.Context, ownerID, id uuid.UUID, patch LotPatch) (*model.DiamondLot, error)
	DeleteLot(ctx context.Context, ownerID, id uuid.UUID) error
	GetLot(ctx context.Context, ownerID uuid.UUID, uniqueID int64) (*model.DiamondLot, error)
	QueryLots(ctx context.Context, ownerID uuid.UUID, q LotQuery) (*LotPage, error)
	ExportLots(ctx context.Context, ownerID uuid.UUID, q LotQuery) ([]model.DiamondLot, model.LotTotals, error)
}

type lotService struct {
	lots  repository.LotRepository
	refs  LotRefs
	rates RateResolver
	hub   *ws.Hub
}

func NewLotService(lots repository.LotRepository, refs LotRefs, rates RateResolver, hub *ws.Hub) LotService {
	return &lotService{lots: lots, refs: refs, rates: rates, hub: hub}
}

// CreateLots stores a whole batch or nothing.
func (s *lotService) CreateLots(ctx context.Context, ownerID uuid.UUID, req CreateLotsRequest) ([]model.DiamondLot, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	kapan := strings.TrimSpace(req.KapanNumber)
	if kapan == "" {
		return nil, apperr.Validation("Kapan number is required")
	}
	for i, it := range req.Items {
		if *it.ExpectedWeight > *it.IssueWeight {
			return nil, apperr.Validation("Item %d: expected weight cannot be greater than issue weight", i+1)
		}
		if it.PolishWeight != nil && *it.PolishWeight > *it.IssueWeight {
			return nil, apperr.Validation("Item %d: polish weight cannot be greater than issue weight", i+1)
		}
		if it.PolishDate != nil && !positive(it.PolishWeight) {
			return nil, apperr.Validation("Item %d: polish weight is required to calculate rate", i+1)
		}
	}

	if err := mustExist(ctx, s.refs.Parties, req.PartyID, "Party"); err != nil {
		return nil, err
	}
	if err := s.checkItemRefs(ctx, req.Items); err != nil {
		return nil, err
	}

	lots := make([]model.DiamondLot, len(req.Items))
	for i, it := range req.Items {
		lot := model.DiamondLot{
			OwnerID:         ownerID,
			PartyID:         req.PartyID,
			KapanNumber:     kapan,
			PKTNumber:       strings.TrimSpace(it.PKTNumber),
			IssueWeight:     *it.IssueWeight,
			ExpectedWeight:  *it.ExpectedWeight,
			ShapeID:         it.ShapeID,
			PolishWeight:    it.PolishWeight,
			ColorID:         it.ColorID,
			ClarityID:       it.ClarityID,
			PolishDate:      dayPtr(it.PolishDate),
			StatusID:        it.StatusID,
			HPHTWeight:      it.HPHTWeight,
			HPHTDate:        dayPtr(it.HPHTDate),
			PaymentStatusID: it.PaymentStatusID,
			Remark:          strings.TrimSpace(it.Remark),
			Date:            it.Date.UTC(),
		}
		if err := s.price(ctx, &lot); err != nil {
			return nil, err
		}
		lots[i] = lot
	}

	if err := s.lots.CreateBatch(ctx, lots); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(lots))
	for i := range lots {
		ids[i] = lots[i].ID
	}
	created, err := s.lots.FindPopulated(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.publish("created", map[string]any{"count": len(created), "kapanNumber": kapan})
	return created, nil
}

func (s *lotService) checkItemRefs(ctx context.Context, items []CreateLotItem) error {
	seen := map[uuid.UUID]bool{}
	check := func(repo existence, id *uuid.UUID, label string) error {
		if id == nil || seen[*id] {
			return nil
		}
		if err := mustExist(ctx, repo, *id, label); err != nil {
			return err
		}
		seen[*id] = true
		return nil
	}
	for _, it := range items {
		shape := it.ShapeID
		if err := check(s.refs.Shapes, &shape, "Shape"); err != nil {
			return err
		}
		if err := check(s.refs.Colors, it.ColorID, "Color"); err != nil {
			return err
		}
		if err := check(s.refs.Clarities, it.ClarityID, "Clarity"); err != nil {
			return err
		}
		if err := check(s.refs.Statuses, it.StatusID, "Status"); err != nil {
			return err
		}
		if err := check(s.refs.PaymentStatuses, it.PaymentStatusID, "Payment status"); err != nil {
			return err
		}
	}
	return nil
}

// UpdateLot applies a partial update. Checks run in a fixed order so that a
// non-owner is always refused before the payload is looked at.
func (s *lotService) UpdateLot(ctx context.Context, ownerID, id uuid.UUID, patch LotPatch) (*model.DiamondLot, error) {
	lot, err := s.ownedLot(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.empty() {
		return nil, apperr.Validation("At least one field is required to update")
	}
	if name := patch.requiredCleared(); name != "" {
		return nil, apperr.Validation("%s cannot be cleared", name)
	}
	if err := s.checkPatchRefs(ctx, lot, &patch); err != nil {
		return nil, err
	}

	partyChanged := patch.PartyID.HasValue() && patch.PartyID.Value != lot.PartyID
	if patch.PartyID.HasValue() {
		lot.PartyID = patch.PartyID.Value
	}
	if patch.KapanNumber.HasValue() {
		kapan := strings.TrimSpace(patch.KapanNumber.Value)
		if kapan == "" {
			return nil, apperr.Validation("kapanNumber cannot be cleared")
		}
		lot.KapanNumber = kapan
	}
	if patch.PKTNumber.HasValue() {
		pkt := strings.TrimSpace(patch.PKTNumber.Value)
		if pkt == "" {
			return nil, apperr.Validation("PKTNumber cannot be cleared")
		}
		lot.PKTNumber = pkt
	}
	if patch.ShapeID.HasValue() {
		lot.ShapeID = patch.ShapeID.Value
	}
	applyRef(&lot.ColorID, patch.ColorID)
	applyRef(&lot.ClarityID, patch.ClarityID)
	applyRef(&lot.StatusID, patch.StatusID)
	applyRef(&lot.PaymentStatusID, patch.PaymentStatusID)
	if patch.HPHTWeight.Set {
		if patch.HPHTWeight.HasValue() && patch.HPHTWeight.Value < 0 {
			return nil, apperr.Validation("HPHT weight cannot be negative")
		}
		lot.HPHTWeight = valueOrNil(patch.HPHTWeight)
	}
	if patch.HPHTDate.Set {
		lot.HPHTDate = nil
		if patch.HPHTDate.HasValue() {
			lot.HPHTDate = dayPtr(&patch.HPHTDate.Value)
		}
	}
	if patch.Remark.Set {
		lot.Remark = strings.TrimSpace(patch.Remark.Value)
	}
	if patch.Date.HasValue() {
		lot.Date = patch.Date.Value.UTC()
	}

	if err := applyWeights(lot, &patch); err != nil {
		return nil, err
	}

	if patch.PolishDate.HasValue() && !positive(lot.PolishWeight) {
		return nil, apperr.Validation("Polish weight is required to calculate rate")
	}
	repriced := patch.PolishWeight.HasValue() || patch.PolishDate.HasValue() || partyChanged
	if repriced {
		if lot.PolishDate != nil && !positive(lot.PolishWeight) && patch.PolishWeight.HasValue() {
			return nil, apperr.Validation("Polish weight is required to calculate rate")
		}
		if err := s.price(ctx, lot); err != nil {
			return nil, err
		}
	}
	if lot.PolishWeight == nil || lot.PolishDate == nil {
		lot.ClearPricing()
	}

	if err := s.lots.Save(ctx, lot); err != nil {
		return nil, err
	}
	updated, err := s.lots.FindPopulated(ctx, []uuid.UUID{lot.ID})
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, apperr.NotFound("Diamond lot not found")
	}

	s.publish("updated", map[string]any{"id": lot.ID, "uniqueId": lot.UniqueID})
	return &updated[0], nil
}

// applyWeights enforces expected ≤ issue and polish ≤ issue after the patch.
// Lowering issue weight clamps a stored expected weight and drops a stored
// polish weight that no longer fits.
func applyWeights(lot *model.DiamondLot, patch *LotPatch) error {
	issue := lot.IssueWeight
	if patch.IssueWeight.HasValue() {
		issue = patch.IssueWeight.Value
		if issue <= 0 {
			return apperr.Validation("Issue weight must be greater than 0")
		}
	}

	if patch.ExpectedWeight.HasValue() {
		expected := patch.ExpectedWeight.Value
		if expected < 0 {
			return apperr.Validation("Expected weight cannot be negative")
		}
		if expected > issue {
			return apperr.Validation("Expected weight cannot be greater than issue weight")
		}
		lot.ExpectedWeight = expected
	} else if lot.ExpectedWeight > issue {
		lot.ExpectedWeight = issue
	}

	switch {
	case patch.PolishWeight.Cleared():
		lot.PolishWeight = nil
		lot.ClearPricing()
	case patch.PolishWeight.HasValue():
		polish := patch.PolishWeight.Value
		if polish < 0 {
			return apperr.Validation("Polish weight cannot be negative")
		}
		if polish > issue {
			return apperr.Validation("Polish weight cannot be greater than issue weight")
		}
		lot.PolishWeight = &polish
	case lot.PolishWeight != nil && *lot.PolishWeight > issue:
		lot.PolishWeight = nil
		lot.ClearPricing()
	}

	if patch.PolishDate.Cleared() {
		lot.PolishDate = nil
		lot.ClearPricing()
	} else if patch.PolishDate.HasValue() {
		lot.PolishDate = dayPtr(&patch.PolishDate.Value)
	}

	lot.IssueWeight = issue
	return nil
}

// checkPatchRefs verifies only the references the patch actually changes.
func (s *lotService) checkPatchRefs(ctx context.Context, lot *model.DiamondLot, patch *LotPatch) error {
	if patch.PartyID.HasValue() && patch.PartyID.Value != lot.PartyID {
		if err := mustExist(ctx, s.refs.Parties, patch.PartyID.Value, "Party"); err != nil {
			return err
		}
	}
	if patch.ShapeID.HasValue() && patch.ShapeID.Value != lot.ShapeID {
		if err := mustExist(ctx, s.refs.Shapes, patch.ShapeID.Value, "Shape"); err != nil {
			return err
		}
	}
	optional := []struct {
		repo    existence
		current *uuid.UUID
		next    Field[uuid.UUID]
		label   string
	}{
		{s.refs.Colors, lot.ColorID, patch.ColorID, "Color"},
		{s.refs.Clarities, lot.ClarityID, patch.ClarityID, "Clarity"},
		{s.refs.Statuses, lot.StatusID, patch.StatusID, "Status"},
		{s.refs.PaymentStatuses, lot.PaymentStatusID, patch.PaymentStatusID, "Payment status"},
	}
	for _, ref := range optional {
		if !ref.next.HasValue() || (ref.current != nil && *ref.current == ref.next.Value) {
			continue
		}
		if err := mustExist(ctx, ref.repo, ref.next.Value, ref.label); err != nil {
			return err
		}
	}
	return nil
}

// price sets rate and amount from the party's tiers, or clears them when no
// tier applies. Lots without both polish weight and date are left alone.
// positive reports whether a polish weight can be priced; zero counts as missing.
func positive(w *float64) bool {
	return w != nil && *w > 0
}

func (s *lotService) price(ctx context.Context, lot *model.DiamondLot) error {
	if lot.PolishWeight == nil || lot.PolishDate == nil {
		return nil
	}
	quote, ok, err := s.rates.Resolve(ctx, lot.PartyID, *lot.PolishWeight, *lot.PolishDate)
	if err != nil {
		return err
	}
	if !ok {
		lot.ClearPricing()
		return nil
	}
	rate, amount := quote.Rate, quote.Amount
	lot.Rate = &rate
	lot.Amount = &amount
	return nil
}

func (s *lotService) DeleteLot(ctx context.Context, ownerID, id uuid.UUID) error {
	lot, err := s.ownedLot(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.lots.Delete(ctx, lot.ID); err != nil {
		return notFoundOr(err, "Diamond lot not found")
	}
	s.publish("deleted", map[string]any{"id": lot.ID, "uniqueId": lot.UniqueID})
	return nil
}

func (s *lotService) GetLot(ctx context.Context, ownerID uuid.UUID, uniqueID int64) (*model.DiamondLot, error) {
	lot, err := s.lots.FindByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, notFoundOr(err, "Diamond lot not found")
	}
	if lot.OwnerID != ownerID {
		return nil, apperr.Forbidden("You are not allowed to view this lot")
	}
	return lot, nil
}

func (s *lotService) QueryLots(ctx context.Context, ownerID uuid.UUID, q LotQuery) (*LotPage, error) {
	q.Filter.OwnerID = ownerID
	page := max(q.Page, 1)
	size := q.PageSize
	if size <= 0 {
		size = DefaultLotPageSize
	}

	lots, totals, err := s.lots.Query(ctx, q.Filter, q.Sort, page, size)
	if err != nil {
		return nil, err
	}
	if lots == nil {
		lots = []model.DiamondLot{}
	}
	return &LotPage{
		Page:       page,
		LotTotals:  totals,
		TotalPages: totalPages(totals.TotalItems, size),
		Data:       lots,
	}, nil
}

// ExportLots returns every lot matching the query, ignoring pagination.
func (s *lotService) ExportLots(ctx context.Context, ownerID uuid.UUID, q LotQuery) ([]model.DiamondLot, model.LotTotals, error) {
	q.Filter.OwnerID = ownerID
	return s.lots.QueryAll(ctx, q.Filter, q.Sort)
}

func (s *lotService) ownedLot(ctx context.Context, ownerID, id uuid.UUID) (*model.DiamondLot, error) {
	lot, err := s.lots.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Diamond lot not found")
	}
	if lot.OwnerID != ownerID {
		return nil, apperr.Forbidden("You are not allowed to modify this lot")
	}
	return lot, nil
}

func (s *lotService) publish(action string, data any) {
	s.hub.Publish(ws.Event{Type: "diamondLot", Action: action, Data: data})
}

func applyRef(dst **uuid.UUID, f Field[uuid.UUID]) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	id := f.Value
	*dst = &id
}

func valueOrNil[T any](f Field[T]) *T {
	if !f.HasValue() {
		return nil
	}
	v := f.Value
	return &v
}

func dayPtr(d *model.DateInput) *time.Time {
	if d == nil {
		return nil
	}
	t := d.UTC()
	return &t
}
