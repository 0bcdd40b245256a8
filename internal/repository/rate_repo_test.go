package repository_test

import (
	"context"
	"testing"
	"time"

	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRepo_DeleteLastItemRemovesTier(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewRateRepo(db)
	ctx := context.Background()

	rate := &model.Rate{
		OwnerID:       uuid.New(),
		PartyID:       uuid.New(),
		StartingValue: 10,
		EndingValue:   20,
		Items: []model.RateItem{
			{Rate: 5, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Rate: 8, Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	require.NoError(t, repo.Create(ctx, rate))

	loaded, err := repo.FindByID(ctx, rate.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, 8.0, loaded.Items[0].Rate, "items newest first")

	deleted, err := repo.DeleteItem(ctx, rate.ID, loaded.Items[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteItem(ctx, rate.ID, loaded.Items[1].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.FindByID(ctx, rate.ID)
	assert.True(t, repository.IsNotFound(err))
}

func TestRateRepo_FindByPartyIgnoresOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewRateRepo(db)
	ctx := context.Background()
	party := uuid.New()

	for _, owner := range []uuid.UUID{uuid.New(), uuid.New()} {
		require.NoError(t, repo.Create(ctx, &model.Rate{OwnerID: owner, PartyID: party, StartingValue: 0, EndingValue: 1}))
	}
	require.NoError(t, repo.Create(ctx, &model.Rate{OwnerID: uuid.New(), PartyID: uuid.New(), StartingValue: 0, EndingValue: 1}))

	rates, err := repo.FindByParty(ctx, party)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}
