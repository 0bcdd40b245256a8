// Package pricing picks the price of a polished lot from a party's rate tiers.
package pricing

import (
	"time"

	"go-diamond-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// Quote is a resolved price for one lot.
type Quote struct {
	Rate   float64
	Amount float64
	// Tier and Item identify the rate entry that produced the quote.
	Tier *model.Rate
	Item *model.RateItem
}

// SelectTier returns the tier containing weight. When several tiers contain it,
// the one with the greatest StartingValue wins.
func SelectTier(tiers []model.Rate, weight float64) *model.Rate {
	var best *model.Rate
	for i := range tiers {
		t := &tiers[i]
		if !t.Contains(weight) {
			continue
		}
		if best == nil || t.StartingValue > best.StartingValue {
			best = t
		}
	}
	return best
}

// SelectItem returns the most recent item effective on or before at.
func SelectItem(items []model.RateItem, at time.Time) *model.RateItem {
	var best *model.RateItem
	for i := range items {
		it := &items[i]
		if it.Date.After(at) {
			continue
		}
		if best == nil || it.Date.After(best.Date) {
			best = it
		}
	}
	return best
}

// Amount is weight × rate.
func Amount(weight, rate float64) float64 {
	return decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
}

// Resolve prices a lot of polishWeight polished on polishDate. The boolean is
// false when no tier contains the weight or the tier has no price in effect yet.
func Resolve(tiers []model.Rate, polishWeight float64, polishDate time.Time) (Quote, bool) {
	tier := SelectTier(tiers, polishWeight)
	if tier == nil {
		return Quote{}, false
	}
	item := SelectItem(tier.Items, polishDate)
	if item == nil {
		return Quote{}, false
	}
	return Quote{
		Rate:   item.Rate,
		Amount: Amount(polishWeight, item.Rate),
		Tier:   tier,
		Item:   item,
	}, true
}
