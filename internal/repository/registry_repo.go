package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistryFilter narrows a paginated registry listing.
type RegistryFilter struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

// TxHook runs inside the transaction of a registry create or delete.
type TxHook func(tx *gorm.DB) error

// RegistryRepository stores one kind of reference data (party, shape, color ...).
type RegistryRepository[T any] interface {
	List(ctx context.Context, f RegistryFilter) ([]T, int64, error)
	FindActive(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, entity *T, hooks ...TxHook) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID, hooks ...TxHook) error
}

type registryRepo[T any] struct {
	db *gorm.DB
}

func NewRegistryRepo[T any](db *gorm.DB) RegistryRepository[T] {
	return &registryRepo[T]{db: db}
}

func (r *registryRepo[T]) List(ctx context.Context, f RegistryFilter) ([]T, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *registryRepo[T]) FindActive(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *registryRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *registryRepo[T]) FindByName(ctx context.Context, name string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *registryRepo[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *registryRepo[T]) Create(ctx context.Context, entity *T, hooks ...TxHook) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return runHooks(tx, hooks)
	})
}

func (r *registryRepo[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete removes the row; gorm.ErrRecordNotFound when nothing matched.
func (r *registryRepo[T]) Delete(ctx context.Context, id uuid.UUID, hooks ...TxHook) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(new(T), "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return runHooks(tx, hooks)
	})
}

func runHooks(tx *gorm.DB, hooks []TxHook) error {
	for _, h := range hooks {
		if h == nil {
			continue
		}
		if err := h(tx); err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
