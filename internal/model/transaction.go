package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxPaid   TransactionType = "Paid"
	TxOffset TransactionType = "Offset"
)

// Transaction is a payment ledger entry between the owner and a party.
type Transaction struct {
	BaseModel
	OwnerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"ownerId"`
	PartyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"partyId"`
	Party   *Party          `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	Amount  float64         `gorm:"not null" json:"amount"`
	Date    time.Time       `gorm:"not null" json:"date"`
	Type    TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Remark  string          `gorm:"type:text" json:"remark"`
}

// PartySummary nets lot value against ledger entries for one party (or all).
type PartySummary struct {
	PartyID        *uuid.UUID `json:"partyId,omitempty"`
	TotalLotAmount float64    `json:"totalLotAmount"`
	TotalPaid      float64    `json:"totalPaid"`
	TotalOffset    float64    `json:"totalOffset"`
	Balance        float64    `json:"balance"`
}
