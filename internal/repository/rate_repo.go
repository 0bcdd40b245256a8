package repository

import (
	"context"

	"go-diamond-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateRepository interface {
	// FindByParty returns every tier of the party with its items, regardless of owner.
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]model.Rate, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Rate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rate, error)
	Create(ctx context.Context, rate *model.Rate) error
	UpsertItem(ctx context.Context, item *model.RateItem) error
	// DeleteItem removes one item and, when it was the last, the tier too.
	DeleteItem(ctx context.Context, rateID, itemID uuid.UUID) (tierDeleted bool, err error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type rateRepo struct {
	db *gorm.DB
}

func NewRateRepo(db *gorm.DB) RateRepository {
	return &rateRepo{db}
}

func itemsByDate(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC")
}

func (r *rateRepo) FindByParty(ctx context.Context, partyID uuid.UUID) ([]model.Rate, error) {
	var rates []model.Rate
	err := r.db.WithContext(ctx).
		Preload("Items", itemsByDate).
		Where("party_id = ?", partyID).
		Order("starting_value ASC").
		Find(&rates).Error
	return rates, err
}

func (r *rateRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) ([]model.Rate, error) {
	q := r.db.WithContext(ctx).
		Preload("Party").
		Preload("Items", itemsByDate).
		Where("owner_id = ?", ownerID)
	if partyID != nil {
		q = q.Where("party_id = ?", *partyID)
	}
	var rates []model.Rate
	err := q.Order("starting_value ASC").Find(&rates).Error
	return rates, err
}

func (r *rateRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rate, error) {
	var rate model.Rate
	if err := r.db.WithContext(ctx).Preload("Items", itemsByDate).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// Create inserts the tier and its items.
func (r *rateRepo) Create(ctx context.Context, rate *model.Rate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rate).Error; err != nil {
			return err
		}
		for i := range rate.Items {
			rate.Items[i].RateID = rate.ID
		}
		if len(rate.Items) == 0 {
			return nil
		}
		return tx.Create(&rate.Items).Error
	})
}

func (r *rateRepo) UpsertItem(ctx context.Context, item *model.RateItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *rateRepo) DeleteItem(ctx context.Context, rateID, itemID uuid.UUID) (bool, error) {
	tierDeleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("rate_id = ?", rateID).Delete(&model.RateItem{}, "id = ?", itemID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var remaining int64
		if err := tx.Model(&model.RateItem{}).Where("rate_id = ?", rateID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		tierDeleted = true
		return tx.Delete(&model.Rate{}, "id = ?", rateID).Error
	})
	return tierDeleted, err
}

func (r *rateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rate_id = ?", id).Delete(&model.RateItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Rate{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
