package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Role names accepted at sign-up.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleOperator   = "Operator"
)

// User is an account that owns lots, rate tiers and ledger entries.
type User struct {
	BaseModel
	UserName     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"userName"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	Role         string `gorm:"type:varchar(20);not null" json:"role"`
	TokenVersion string `gorm:"type:varchar(64);default:''" json:"-"` // rotated on login/logout
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user may manage reference data.
func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleAdmin
}
