package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rate is a price tier: a weight range [StartingValue, EndingValue) for one party,
// with a dated list of prices.
type Rate struct {
	BaseModel
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	PartyID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"partyId"`
	Party         *Party     `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	StartingValue float64    `gorm:"not null" json:"startingValue"`
	EndingValue   float64    `gorm:"not null" json:"endingValue"`
	Items         []RateItem `gorm:"foreignKey:RateID" json:"items"`
}

// Contains reports whether weight falls in the half-open range of the tier.
func (r *Rate) Contains(weight float64) bool {
	return r.StartingValue <= weight && weight < r.EndingValue
}

// Overlaps reports whether two half-open ranges share any weight.
func (r *Rate) Overlaps(start, end float64) bool {
	return r.StartingValue < end && start < r.EndingValue
}

// RateItem is one price effective from Date.
type RateItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RateID uuid.UUID `gorm:"type:uuid;not null;index" json:"rateId"`
	Rate   float64   `gorm:"not null" json:"rate"`
	Date   time.Time `gorm:"not null" json:"date"`
}

func (i *RateItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
