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
	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	PartyID uuid.UUID             `json:"partyId" validate:"uuid_required"`
	Amount  *float64              `json:"amount" validate:"required,gt=0"`
	Date    *model.DateInput      `json:"date" validate:"required"`
	Type    model.TransactionType `json:"type" validate:"required,oneof=Paid Offset"`
	Remark  string                `json:"remark"`
}

// DailyMovement is the ledger activity of one calendar day.
type DailyMovement struct {
	Date   string  `json:"date"`
	Paid   float64 `json:"paid"`
	Offset float64 `json:"offset"`
}

type TransactionService interface {
	List(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Transaction, error)
	Create(ctx context.Context, ownerID uuid.UUID, req TransactionRequest) (*model.Transaction, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, req TransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Summary(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) (*model.PartySummary, error)
	Movement(ctx context.Context, ownerID uuid.UUID, days int) ([]DailyMovement, error)
}

type transactionService struct {
	txRepo  repository.TransactionRepository
	lots    repository.LotRepository
	parties repository.RegistryRepository[model.Party]
	hub     *ws.Hub
	now     func() time.Time
}

func NewTransactionService(txRepo repository.TransactionRepository, lots repository.LotRepository, parties repository.RegistryRepository[model.Party], hub *ws.Hub) TransactionService {
	return &transactionService{txRepo: txRepo, lots: lots, parties: parties, hub: hub, now: time.Now}
}

func (s *transactionService) List(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Transaction, error) {
	list, err := s.txRepo.FindByOwner(ctx, ownerID, partyID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Transaction{}
	}
	return list, nil
}

func (s *transactionService) Create(ctx context.Context, ownerID uuid.UUID, req TransactionRequest) (*model.Transaction, error) {
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}
	tx := &model.Transaction{OwnerID: ownerID}
	fillTransaction(tx, req)
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.publish("created", tx.ID)
	return s.reload(ctx, tx.ID)
}

func (s *transactionService) Update(ctx context.Context, ownerID, id uuid.UUID, req TransactionRequest) (*model.Transaction, error) {
	tx, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}
	fillTransaction(tx, req)
	tx.Party = nil
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.publish("updated", tx.ID)
	return s.reload(ctx, tx.ID)
}

func (s *transactionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.txRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Transaction not found")
	}
	s.publish("deleted", id)
	return nil
}

// Summary nets the value of the owner's lots against payments and offsets.
func (s *transactionService) Summary(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) (*model.PartySummary, error) {
	lotAmount, err := s.lots.SumAmount(ctx, ownerID, partyID)
	if err != nil {
		return nil, err
	}
	paid, offset, err := s.txRepo.GetTotals(ctx, ownerID, partyID)
	if err != nil {
		return nil, err
	}

	lot := decimal.NewFromFloat(lotAmount)
	p := decimal.NewFromFloat(paid)
	o := decimal.NewFromFloat(offset)
	return &model.PartySummary{
		PartyID:        partyID,
		TotalLotAmount: lot.InexactFloat64(),
		TotalPaid:      p.InexactFloat64(),
		TotalOffset:    o.InexactFloat64(),
		Balance:        lot.Sub(p).Sub(o).InexactFloat64(),
	}, nil
}

// Movement buckets the last days of ledger entries per calendar day (UTC).
func (s *transactionService) Movement(ctx context.Context, ownerID uuid.UUID, days int) ([]DailyMovement, error) {
	if days <= 0 {
		days = 7
	}
	end := s.now().UTC()
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	entries, err := s.txRepo.FindBetween(ctx, ownerID, start, model.EndOfDay(end))
	if err != nil {
		return nil, err
	}

	type bucket struct{ paid, offset decimal.Decimal }
	byDay := make(map[string]*bucket, days)
	out := make([]DailyMovement, 0, days)
	for d := 0; d < days; d++ {
		key := start.AddDate(0, 0, d).Format(model.DayLayout)
		byDay[key] = &bucket{}
		out = append(out, DailyMovement{Date: key})
	}
	for _, e := range entries {
		b, ok := byDay[e.Date.UTC().Format(model.DayLayout)]
		if !ok {
			continue
		}
		amt := decimal.NewFromFloat(e.Amount)
		if e.Type == model.TxPaid {
			b.paid = b.paid.Add(amt)
		} else {
			b.offset = b.offset.Add(amt)
		}
	}
	for i := range out {
		b := byDay[out[i].Date]
		out[i].Paid = b.paid.InexactFloat64()
		out[i].Offset = b.offset.InexactFloat64()
	}
	return out, nil
}

func (s *transactionService) check(ctx context.Context, req TransactionRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	return mustExist(ctx, s.parties, req.PartyID, "Party")
}

func (s *transactionService) owned(ctx context.Context, ownerID, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Transaction not found")
	}
	if tx.OwnerID != ownerID {
		return nil, apperr.Forbidden("You are not allowed to modify this transaction")
	}
	return tx, nil
}

func (s *transactionService) reload(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Transaction not found")
	}
	return tx, nil
}

func (s *transactionService) publish(action string, id uuid.UUID) {
	s.hub.Publish(ws.Event{Type: "transaction", Action: action, Data: map[string]any{"id": id}})
}

func fillTransaction(tx *model.Transaction, req TransactionRequest) {
	tx.PartyID = req.PartyID
	tx.Amount = *req.Amount
	tx.Date = req.Date.UTC()
	tx.Type = req.Type
	tx.Remark = strings.TrimSpace(req.Remark)
}
