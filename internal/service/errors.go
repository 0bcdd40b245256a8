package service

import (
	"context"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/pkg/validator"

	"github.com/google/uuid"
)

// validate runs struct validation and wraps the first failure as a validation error.
func validate(req any) error {
	if msg := validator.FirstError(req); msg != "" {
		return apperr.Validation("%s", msg)
	}
	return nil
}

// existence is satisfied by every registry repository.
type existence interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// mustExist returns a validation error naming label when id is not stored.
func mustExist(ctx context.Context, repo existence, id uuid.UUID, label string) error {
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("%s not found", label)
	}
	return nil
}

// notFoundOr turns gorm's missing-row error into a NotFound with msg.
func notFoundOr(err error, msg string) error {
	if repository.IsNotFound(err) {
		return apperr.NotFound("%s", msg)
	}
	return err
}

func totalPages(total int64, size int) int {
	if size <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
