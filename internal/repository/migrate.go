package repository

import (
	"strings"

	"go-diamond-ledger/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Party{},
		&model.Shape{},
		&model.Color{},
		&model.Clarity{},
		&model.Status{},
		&model.PaymentStatus{},
		&model.Employee{},
		&model.Rate{},
		&model.RateItem{},
		&model.DiamondLot{},
		&model.Sequence{},
		&model.Transaction{},
		&model.Attendance{},
		&model.AttendanceEntry{},
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s safe to embed in a LIKE pattern that uses ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
