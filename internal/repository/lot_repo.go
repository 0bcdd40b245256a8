package repository

import (
	"context"
	"strings"
	"time"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LotFilter selects lots of one owner. Empty slices and nil bounds match everything.
type LotFilter struct {
	OwnerID          uuid.UUID
	PartyIDs         []uuid.UUID
	StatusIDs        []uuid.UUID
	PaymentStatusIDs []uuid.UUID
	KapanNumbers     []string
	From             *time.Time
	To               *time.Time
	// Search matches lots whose uniqueId, as decimal text, starts with it.
	Search string
}

// Sortable lot columns.
const (
	SortByUniqueID   = "unique_id"
	SortByDate       = "date"
	SortByPolishDate = "polish_date"
	SortByHPHTDate   = "hpht_date"
)

var sortColumns = map[string]bool{
	SortByUniqueID:   true,
	SortByDate:       true,
	SortByPolishDate: true,
	SortByHPHTDate:   true,
}

type LotSort struct {
	Column string
	Desc   bool
}

func (s LotSort) clause() string {
	col := s.Column
	if !sortColumns[col] {
		col = SortByUniqueID
	}
	if s.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

type LotRepository interface {
	CreateBatch(ctx context.Context, lots []model.DiamondLot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DiamondLot, error)
	FindByUniqueID(ctx context.Context, uniqueID int64) (*model.DiamondLot, error)
	FindPopulated(ctx context.Context, ids []uuid.UUID) ([]model.DiamondLot, error)
	Save(ctx context.Context, lot *model.DiamondLot) error
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, f LotFilter, sort LotSort, page, size int) ([]model.DiamondLot, model.LotTotals, error)
	QueryAll(ctx context.Context, f LotFilter, sort LotSort) ([]model.DiamondLot, model.LotTotals, error)
	KapanNumbers(ctx context.Context, ownerID, partyID uuid.UUID) ([]string, error)
	SumAmount(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) (float64, error)
}

type lotRepo struct {
	db *gorm.DB
}

func NewLotRepo(db *gorm.DB) LotRepository {
	return &lotRepo{db}
}

// CreateBatch inserts all lots in one transaction and assigns them consecutive
// unique ids in input order.
func (r *lotRepo) CreateBatch(ctx context.Context, lots []model.DiamondLot) error {
	if len(lots) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, err := reserveUniqueIDs(tx, int64(len(lots)))
		if err != nil {
			return err
		}
		for i := range lots {
			lots[i].UniqueID = first + int64(i)
		}
		return tx.Omit(clause.Associations).Create(&lots).Error
	})
	if IsDuplicate(err) {
		return apperr.Conflict("Unique id already taken, please retry")
	}
	return err
}

// reserveUniqueIDs locks the lot counter and advances it by n. The counter never
// falls behind the largest id already stored.
func reserveUniqueIDs(tx *gorm.DB, n int64) (int64, error) {
	var seq model.Sequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", model.LotSequence).
		Take(&seq).Error
	if IsNotFound(err) {
		seq = model.Sequence{Name: model.LotSequence}
		err = tx.Create(&seq).Error
	}
	if err != nil {
		return 0, err
	}

	var maxID int64
	if err := tx.Model(&model.DiamondLot{}).Select("COALESCE(MAX(unique_id), 0)").Scan(&maxID).Error; err != nil {
		return 0, err
	}
	base := max(seq.Value, maxID)

	err = tx.Model(&model.Sequence{}).
		Where("name = ?", model.LotSequence).
		Update("value", base+n).Error
	if err != nil {
		return 0, err
	}
	return base + 1, nil
}

func (r *lotRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DiamondLot, error) {
	var lot model.DiamondLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// FindByUniqueID loads one lot with its references.
func (r *lotRepo) FindByUniqueID(ctx context.Context, uniqueID int64) (*model.DiamondLot, error) {
	var lot model.DiamondLot
	if err := r.db.WithContext(ctx).Scopes(preloadLotRefs).Where("unique_id = ?", uniqueID).First(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// FindPopulated loads lots with their references, ordered by unique id.
func (r *lotRepo) FindPopulated(ctx context.Context, ids []uuid.UUID) ([]model.DiamondLot, error) {
	var lots []model.DiamondLot
	err := r.db.WithContext(ctx).
		Scopes(preloadLotRefs).
		Where("id IN ?", ids).
		Order("unique_id ASC").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// Save writes every column of the lot, including cleared optionals.
func (r *lotRepo) Save(ctx context.Context, lot *model.DiamondLot) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(lot).Error
}

func (r *lotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.DiamondLot{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lotRepo) Query(ctx context.Context, f LotFilter, sort LotSort, page, size int) ([]model.DiamondLot, model.LotTotals, error) {
	totals, err := r.totals(ctx, f)
	if err != nil {
		return nil, totals, err
	}
	if size < 1 {
		size = 1
	}
	// Pages past the end are empty; this also keeps the offset from overflowing.
	if int64(page-1) >= (totals.TotalItems+int64(size)-1)/int64(size) {
		return []model.DiamondLot{}, totals, nil
	}

	var lots []model.DiamondLot
	err = r.db.WithContext(ctx).
		Scopes(f.scope, preloadLotRefs).
		Order(sort.clause()).
		Order("unique_id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&lots).Error
	if err != nil {
		return nil, totals, err
	}
	return lots, totals, nil
}

// QueryAll is Query without pagination, used for exports.
func (r *lotRepo) QueryAll(ctx context.Context, f LotFilter, sort LotSort) ([]model.DiamondLot, model.LotTotals, error) {
	totals, err := r.totals(ctx, f)
	if err != nil {
		return nil, totals, err
	}

	var lots []model.DiamondLot
	err = r.db.WithContext(ctx).
		Scopes(f.scope, preloadLotRefs).
		Order(sort.clause()).
		Order("unique_id ASC").
		Find(&lots).Error
	if err != nil {
		return nil, totals, err
	}
	return lots, totals, nil
}

func (r *lotRepo) totals(ctx context.Context, f LotFilter) (model.LotTotals, error) {
	var totals model.LotTotals
	err := r.db.WithContext(ctx).
		Model(&model.DiamondLot{}).
		Scopes(f.scope).
		Select(`COUNT(*) AS total_items,
			COALESCE(SUM(issue_weight), 0) AS total_issue_weight,
			COALESCE(SUM(polish_weight), 0) AS total_polish_weight,
			COALESCE(SUM(expected_weight), 0) AS total_expected_weight,
			COALESCE(SUM(hpht_weight), 0) AS total_hpht_weight,
			COALESCE(SUM(amount), 0) AS total_amount`).
		Scan(&totals).Error
	return totals, err
}

// KapanNumbers lists the distinct kapan numbers of the owner's lots for a party.
func (r *lotRepo) KapanNumbers(ctx context.Context, ownerID, partyID uuid.UUID) ([]string, error) {
	var kapans []string
	err := r.db.WithContext(ctx).
		Model(&model.DiamondLot{}).
		Where("owner_id = ? AND party_id = ?", ownerID, partyID).
		Distinct("kapan_number").
		Order("kapan_number ASC").
		Pluck("kapan_number", &kapans).Error
	if err != nil {
		return nil, err
	}
	return kapans, nil
}

func (r *lotRepo) SumAmount(ctx context.Context, ownerID uuid.UUID, partyID *uuid.UUID) (float64, error) {
	q := r.db.WithContext(ctx).Model(&model.DiamondLot{}).Where("owner_id = ?", ownerID)
	if partyID != nil {
		q = q.Where("party_id = ?", *partyID)
	}
	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (f LotFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("owner_id = ?", f.OwnerID)
	if len(f.PartyIDs) > 0 {
		db = db.Where("party_id IN ?", f.PartyIDs)
	}
	if len(f.StatusIDs) > 0 {
		db = db.Where("status_id IN ?", f.StatusIDs)
	}
	if len(f.PaymentStatusIDs) > 0 {
		db = db.Where("payment_status_id IN ?", f.PaymentStatusIDs)
	}
	if len(f.KapanNumbers) > 0 {
		db = db.Where("kapan_number IN ?", f.KapanNumbers)
	}
	if f.From != nil {
		db = db.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("date <= ?", *f.To)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		db = db.Where(`LOWER(CAST(unique_id AS TEXT)) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(s))+"%")
	}
	return db
}

func preloadLotRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Party").
		Preload("Shape").
		Preload("Color").
		Preload("Clarity").
		Preload("Status").
		Preload("PaymentStatus")
}
