package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceHalfday AttendanceStatus = "Halfday"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// Attendance is the single attendance sheet of an employee.
type Attendance struct {
	BaseModel
	EmployeeID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"employeeId"`
	Employee   *Employee         `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Remarks    string            `gorm:"type:text" json:"remarks"`
	Entries    []AttendanceEntry `gorm:"foreignKey:AttendanceID" json:"attendance"`
}

// AttendanceEntry records one calendar day; Day is YYYY-MM-DD.
type AttendanceEntry struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"-"`
	AttendanceID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_day" json:"-"`
	Day          string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_day" json:"date"`
	Status       AttendanceStatus `gorm:"type:varchar(10);not null" json:"status"`
}

func (e *AttendanceEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
