package service_test

import (
	"testing"
	"time"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateService_ResolveExample(t *testing.T) {
	f := newFixture(t)
	f.seedRates(t, f.party)

	quote, ok, err := f.rates.Resolve(f.ctx, f.party, 12, day(2024, 7, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8.0, quote.Rate)
	assert.Equal(t, 96.0, quote.Amount)

	_, ok, err = f.rates.Resolve(f.ctx, f.party, 25, day(2024, 7, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = f.rates.Resolve(f.ctx, uuid.New(), 12, time.Now())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRateService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seedRates(t, f.party)

	tests := []struct {
		name string
		req  service.CreateRateRequest
	}{
		{"ending not above starting", service.CreateRateRequest{PartyID: f.party, StartingValue: f64(30), EndingValue: f64(30), Rate: f64(1), Date: dateIn(day(2024, 1, 1))}},
		{"overlap", service.CreateRateRequest{PartyID: f.party, StartingValue: f64(15), EndingValue: f64(25), Rate: f64(1), Date: dateIn(day(2024, 1, 1))}},
		{"unknown party", service.CreateRateRequest{PartyID: uuid.New(), StartingValue: f64(0), EndingValue: f64(1), Rate: f64(1), Date: dateIn(day(2024, 1, 1))}},
		{"missing rate", service.CreateRateRequest{PartyID: f.party, StartingValue: f64(30), EndingValue: f64(40), Date: dateIn(day(2024, 1, 1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.rates.CreateRate(f.ctx, f.owner, tt.req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	_, err := f.rates.CreateRate(f.ctx, f.owner, service.CreateRateRequest{
		PartyID: f.party, StartingValue: f64(20), EndingValue: f64(30), Rate: f64(1), Date: dateIn(day(2024, 1, 1)),
	})
	assert.NoError(t, err, "adjacent range does not overlap")
}

func TestRateService_ItemsAndOwnership(t *testing.T) {
	f := newFixture(t)
	rate, err := f.rates.CreateRate(f.ctx, f.owner, service.CreateRateRequest{
		PartyID: f.party, StartingValue: f64(0), EndingValue: f64(10), Rate: f64(5), Date: dateIn(day(2024, 1, 1)),
	})
	require.NoError(t, err)
	stranger := uuid.New()

	_, err = f.rates.UpsertRateItem(f.ctx, stranger, rate.ID, service.RateItemRequest{Rate: f64(6), Date: dateIn(day(2024, 2, 1))})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, f.rates.DeleteRate(f.ctx, stranger, rate.ID), apperr.ErrForbidden)

	updated, err := f.rates.UpsertRateItem(f.ctx, f.owner, rate.ID, service.RateItemRequest{Rate: f64(6), Date: dateIn(day(2024, 2, 1))})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)

	first := updated.Items[1].ID
	edited, err := f.rates.UpsertRateItem(f.ctx, f.owner, rate.ID, service.RateItemRequest{ItemID: &first, Rate: f64(4.5), Date: dateIn(day(2024, 1, 1))})
	require.NoError(t, err)
	require.Len(t, edited.Items, 2)
	assert.Equal(t, 4.5, edited.Items[1].Rate)

	missing := uuid.New()
	_, err = f.rates.UpsertRateItem(f.ctx, f.owner, rate.ID, service.RateItemRequest{ItemID: &missing, Rate: f64(1), Date: dateIn(day(2024, 1, 1))})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	left, err := f.rates.DeleteRateItem(f.ctx, f.owner, rate.ID, edited.Items[0].ID)
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.Len(t, left.Items, 1)

	left, err = f.rates.DeleteRateItem(f.ctx, f.owner, rate.ID, left.Items[0].ID)
	require.NoError(t, err)
	assert.Nil(t, left)

	list, err := f.rates.ListRates(f.ctx, f.owner, &f.party)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRateService_ListNeedsParty(t *testing.T) {
	f := newFixture(t)
	f.seedRates(t, f.party)

	list, err := f.rates.ListRates(f.ctx, f.owner, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.rates.ListRates(f.ctx, f.owner, &f.party)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 0.0, list[0].StartingValue)
	require.NotNil(t, list[0].Party)

	other, err := f.rates.ListRates(f.ctx, uuid.New(), &f.party)
	require.NoError(t, err)
	assert.Empty(t, other)
}
