package pricing

import (
	"testing"
	"time"

	"go-diamond-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTiers() []model.Rate {
	return []model.Rate{
		{StartingValue: 0, EndingValue: 10, Items: []model.RateItem{
			{Rate: 5, Date: day(2024, 1, 1)},
		}},
		{StartingValue: 10, EndingValue: 20, Items: []model.RateItem{
			{Rate: 8, Date: day(2024, 6, 1)},
			{Rate: 7, Date: day(2024, 1, 1)},
		}},
	}
}

func TestResolvePicksLatestApplicablePrice(t *testing.T) {
	q, ok := Resolve(sampleTiers(), 12, day(2024, 7, 1))
	require.True(t, ok)
	assert.Equal(t, 8.0, q.Rate)
	assert.Equal(t, 96.0, q.Amount)
	assert.Equal(t, 10.0, q.Tier.StartingValue)
}

func TestResolveIgnoresFuturePrices(t *testing.T) {
	q, ok := Resolve(sampleTiers(), 12, day(2024, 3, 1))
	require.True(t, ok)
	assert.Equal(t, 7.0, q.Rate)
	assert.Equal(t, 84.0, q.Amount)
}

func TestResolvePriceEffectiveOnPolishDay(t *testing.T) {
	q, ok := Resolve(sampleTiers(), 12, day(2024, 6, 1))
	require.True(t, ok)
	assert.Equal(t, 8.0, q.Rate)
}

func TestResolveRangeIsHalfOpen(t *testing.T) {
	q, ok := Resolve(sampleTiers(), 10, day(2024, 7, 1))
	require.True(t, ok)
	assert.Equal(t, 8.0, q.Rate)

	_, ok = Resolve(sampleTiers(), 20, day(2024, 7, 1))
	assert.False(t, ok)
}

func TestResolveOutsideAllRanges(t *testing.T) {
	_, ok := Resolve(sampleTiers(), 25, day(2024, 7, 1))
	assert.False(t, ok)

	_, ok = Resolve(nil, 5, day(2024, 7, 1))
	assert.False(t, ok)
}

func TestResolveNoPriceYet(t *testing.T) {
	_, ok := Resolve(sampleTiers(), 5, day(2023, 12, 31))
	assert.False(t, ok)
}

func TestSelectTierPrefersGreatestStart(t *testing.T) {
	tiers := []model.Rate{
		{StartingValue: 0, EndingValue: 50},
		{StartingValue: 10, EndingValue: 20},
		{StartingValue: 5, EndingValue: 30},
	}
	tier := SelectTier(tiers, 12)
	require.NotNil(t, tier)
	assert.Equal(t, 10.0, tier.StartingValue)
}

func TestAmountAvoidsBinaryNoise(t *testing.T) {
	assert.Equal(t, 0.3, Amount(0.1, 3))
	assert.Equal(t, 1.5, Amount(0.5, 3))
}
