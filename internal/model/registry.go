package model

// RegistryEntry is the shared shape of reference data: a unique display name and an active flag.
type RegistryEntry struct {
	BaseModel
	Name   string `gorm:"type:varchar(150);not null;uniqueIndex" json:"name"`
	Active bool   `gorm:"not null" json:"active"`
}

// Entry exposes the embedded entry to generic registry code.
func (e *RegistryEntry) Entry() *RegistryEntry { return e }

type Party struct {
	RegistryEntry
}

type Shape struct {
	RegistryEntry
}

type Color struct {
	RegistryEntry
}

type Clarity struct {
	RegistryEntry
}

type Status struct {
	RegistryEntry
}

type PaymentStatus struct {
	RegistryEntry
}

// Employee is reference data with a free-text remark; each employee owns one Attendance record.
type Employee struct {
	RegistryEntry
	Remark string `gorm:"type:text" json:"remark"`
}

func (e *Employee) SetRemark(remark string) { e.Remark = remark }

// PartyWithKapans is a party plus the distinct kapan numbers of the caller's lots for it.
type PartyWithKapans struct {
	Party
	KapanNumbers []string `json:"kapanNumbers"`
}
