package model

import (
	"time"

	"github.com/google/uuid"
)

// DiamondLot is a single parcel tracked from issue through polish and HPHT.
// Rate and Amount are derived from the party's rate tiers and are only set
// when both PolishWeight and PolishDate are.
type DiamondLot struct {
	BaseModel
	OwnerID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner           *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	PartyID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"partyId"`
	Party           *Party         `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	KapanNumber     string         `gorm:"type:varchar(100);not null;index" json:"kapanNumber"`
	UniqueID        int64          `gorm:"column:unique_id;not null;uniqueIndex" json:"uniqueId"`
	PKTNumber       string         `gorm:"column:pkt_number;type:varchar(100);not null" json:"PKTNumber"`
	IssueWeight     float64        `gorm:"not null" json:"issueWeight"`
	ExpectedWeight  float64        `gorm:"not null" json:"expectedWeight"`
	ShapeID         uuid.UUID      `gorm:"type:uuid;not null" json:"shapeId"`
	Shape           *Shape         `gorm:"foreignKey:ShapeID" json:"shape,omitempty"`
	PolishWeight    *float64       `json:"polishWeight"`
	ColorID         *uuid.UUID     `gorm:"type:uuid" json:"colorId"`
	Color           *Color         `gorm:"foreignKey:ColorID" json:"color,omitempty"`
	ClarityID       *uuid.UUID     `gorm:"type:uuid" json:"clarityId"`
	Clarity         *Clarity       `gorm:"foreignKey:ClarityID" json:"clarity,omitempty"`
	PolishDate      *time.Time     `json:"polishDate"`
	Rate            *float64       `json:"rate"`
	Amount          *float64       `json:"amount"`
	StatusID        *uuid.UUID     `gorm:"type:uuid;index" json:"statusId"`
	Status          *Status        `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	HPHTWeight      *float64       `gorm:"column:hpht_weight" json:"HPHTWeight"`
	HPHTDate        *time.Time     `gorm:"column:hpht_date" json:"HPHTDate"`
	PaymentStatusID *uuid.UUID     `gorm:"type:uuid;index" json:"paymentStatusId"`
	PaymentStatus   *PaymentStatus `gorm:"foreignKey:PaymentStatusID" json:"paymentStatus,omitempty"`
	Remark          string         `gorm:"type:text" json:"remark"`
	Date            time.Time      `gorm:"not null;index" json:"date"`
}

// ClearPricing drops the derived rate and amount.
func (l *DiamondLot) ClearPricing() {
	l.Rate = nil
	l.Amount = nil
}

// LotTotals are the aggregate sums over a filtered lot set.
type LotTotals struct {
	TotalItems          int64   `json:"totalItems"`
	TotalIssueWeight    float64 `json:"totalIssueWeight"`
	TotalPolishWeight   float64 `json:"totalPolishWeight"`
	TotalExpectedWeight float64 `json:"totalExpectedWeight"`
	TotalHphtWeight     float64 `json:"totalHphtWeight"`
	TotalAmount         float64 `json:"totalAmount"`
}

// Sequence is a named monotonically increasing counter.
type Sequence struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null"`
}

// LotSequence names the counter behind DiamondLot.UniqueID.
const LotSequence = "diamond_lot"
