package service

import (
	"context"
	"time"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/pricing"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/ws"

	"github.com/google/uuid"
)

type CreateRateRequest struct {
	PartyID       uuid.UUID        `json:"partyId" validate:"uuid_required"`
	StartingValue *float64         `json:"startingValue" validate:"required,gte=0"`
	EndingValue   *float64         `json:"endingValue" validate:"required,gt=0"`
	Rate          *float64         `json:"rate" validate:"required,gte=0"`
	Date          *model.DateInput `json:"date" validate:"required"`
}

// RateItemRequest edits the item named by ItemID, or appends one when ItemID is nil.
type RateItemRequest struct {
	ItemID *uuid.UUID       `json:"itemId"`
	Rate   *float64         `json:"rate" validate:"required,gte=0"`
	Date   *model.DateInput `json:"date" validate:"required"`
}

type RateService interface {
	ListRates(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Rate, error)
	CreateRate(ctx context.Context, ownerID uuid.UUID, req CreateRateRequest) (*model.Rate, error)
	UpsertRateItem(ctx context.Context, ownerID, rateID uuid.UUID, req RateItemRequest) (*model.Rate, error)
	DeleteRate(ctx context.Context, ownerID, rateID uuid.UUID) error
	DeleteRateItem(ctx context.Context, ownerID, rateID, itemID uuid.UUID) (*model.Rate, error)
	Resolve(ctx context.Context, partyID uuid.UUID, weight float64, at time.Time) (pricing.Quote, bool, error)
}

type rateService struct {
	rates   repository.RateRepository
	parties repository.RegistryRepository[model.Party]
	hub     *ws.Hub
}

func NewRateService(rates repository.RateRepository, parties repository.RegistryRepository[model.Party], hub *ws.Hub) RateService {
	return &rateService{rates: rates, parties: parties, hub: hub}
}

// ListRates returns nothing until a party is chosen.
func (s *rateService) ListRates(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Rate, error) {
	if partyID == nil {
		return []model.Rate{}, nil
	}
	rates, err := s.rates.FindByOwner(ctx, ownerID, partyID)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []model.Rate{}
	}
	return rates, nil
}

func (s *rateService) CreateRate(ctx context.Context, ownerID uuid.UUID, req CreateRateRequest) (*model.Rate, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	start, end := *req.StartingValue, *req.EndingValue
	if end <= start {
		return nil, apperr.Validation("Ending value must be greater than starting value")
	}
	if err := mustExist(ctx, s.parties, req.PartyID, "Party"); err != nil {
		return nil, err
	}

	existing, err := s.rates.FindByOwner(ctx, ownerID, &req.PartyID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return nil, apperr.Validation("Range %g-%g overlaps existing range %g-%g",
				start, end, existing[i].StartingValue, existing[i].EndingValue)
		}
	}

	rate := &model.Rate{
		OwnerID:       ownerID,
		PartyID:       req.PartyID,
		StartingValue: start,
		EndingValue:   end,
		Items:         []model.RateItem{{Rate: *req.Rate, Date: req.Date.UTC()}},
	}
	if err := s.rates.Create(ctx, rate); err != nil {
		return nil, err
	}

	s.publish("created", rate.ID)
	return rate, nil
}

func (s *rateService) UpsertRateItem(ctx context.Context, ownerID, rateID uuid.UUID, req RateItemRequest) (*model.Rate, error) {
	rate, err := s.ownedRate(ctx, ownerID, rateID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	item := &model.RateItem{RateID: rate.ID}
	if req.ItemID != nil {
		item = nil
		for i := range rate.Items {
			if rate.Items[i].ID == *req.ItemID {
				item = &rate.Items[i]
				break
			}
		}
		if item == nil {
			return nil, apperr.NotFound("Rate item not found")
		}
	}
	item.Rate = *req.Rate
	item.Date = req.Date.UTC()

	if err := s.rates.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	s.publish("updated", rate.ID)
	return s.reload(ctx, rate.ID)
}

func (s *rateService) DeleteRate(ctx context.Context, ownerID, rateID uuid.UUID) error {
	if _, err := s.ownedRate(ctx, ownerID, rateID); err != nil {
		return err
	}
	if err := s.rates.Delete(ctx, rateID); err != nil {
		return notFoundOr(err, "Rate not found")
	}
	s.publish("deleted", rateID)
	return nil
}

// DeleteRateItem returns the remaining tier, or nil when its last item was removed.
func (s *rateService) DeleteRateItem(ctx context.Context, ownerID, rateID, itemID uuid.UUID) (*model.Rate, error) {
	if _, err := s.ownedRate(ctx, ownerID, rateID); err != nil {
		return nil, err
	}
	tierDeleted, err := s.rates.DeleteItem(ctx, rateID, itemID)
	if err != nil {
		return nil, notFoundOr(err, "Rate item not found")
	}
	if tierDeleted {
		s.publish("deleted", rateID)
		return nil, nil
	}
	s.publish("updated", rateID)
	return s.reload(ctx, rateID)
}

// Resolve prices a polished lot from every tier recorded for the party.
func (s *rateService) Resolve(ctx context.Context, partyID uuid.UUID, weight float64, at time.Time) (pricing.Quote, bool, error) {
	if partyID == uuid.Nil {
		return pricing.Quote{}, false, apperr.Validation("Party is required to calculate rate")
	}
	if err := mustExist(ctx, s.parties, partyID, "Party"); err != nil {
		return pricing.Quote{}, false, err
	}
	tiers, err := s.rates.FindByParty(ctx, partyID)
	if err != nil {
		return pricing.Quote{}, false, err
	}
	quote, ok := pricing.Resolve(tiers, weight, at)
	return quote, ok, nil
}

func (s *rateService) ownedRate(ctx context.Context, ownerID, rateID uuid.UUID) (*model.Rate, error) {
	rate, err := s.rates.FindByID(ctx, rateID)
	if err != nil {
		return nil, notFoundOr(err, "Rate not found")
	}
	if rate.OwnerID != ownerID {
		return nil, apperr.Forbidden("You are not allowed to modify this rate")
	}
	return rate, nil
}

func (s *rateService) reload(ctx context.Context, rateID uuid.UUID) (*model.Rate, error) {
	rate, err := s.rates.FindByID(ctx, rateID)
	if err != nil {
		return nil, notFoundOr(err, "Rate not found")
	}
	return rate, nil
}

func (s *rateService) publish(action string, id uuid.UUID) {
	s.hub.Publish(ws.Event{Type: "rate", Action: action, Data: map[string]any{"id": id}})
}
