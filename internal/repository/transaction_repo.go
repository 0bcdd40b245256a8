package repository

import (
	"context"
	"time"

	"go-diamond-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]model.Transaction, error)
	Create(ctx context.Context, tx *model.Transaction) error
	Save(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetTotals(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) (paid, offset float64, err error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Party").Where("owner_id = ?", ownerID)
	if partyID != nil {
		q = q.Where("party_id = ?", *partyID)
	}
	var transactions []model.Transaction
	err := q.Order("date DESC").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.WithContext(ctx).Preload("Party").First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindBetween returns the owner's entries dated within [from, to], oldest first.
func (r *transactionRepo) FindBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date >= ? AND date <= ?", ownerID, from, to).
		Order("date ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
}

func (r *transactionRepo) Save(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tx).Error
}

func (r *transactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetTotals sums Paid and Offset entries of the owner, optionally for one party.
func (r *transactionRepo) GetTotals(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) (float64, float64, error) {
	sum := func(kind model.TransactionType) (float64, error) {
		q := r.db.WithContext(ctx).Model(&model.Transaction{}).
			Where("owner_id = ? AND type = ?", ownerID, kind)
		if partyID != nil {
			q = q.Where("party_id = ?", *partyID)
		}
		var total float64
		err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
		return total, err
	}

	paid, err := sum(model.TxPaid)
	if err != nil {
		return 0, 0, err
	}
	offset, err := sum(model.TxOffset)
	if err != nil {
		return 0, 0, err
	}
	return paid, offset, nil
}
