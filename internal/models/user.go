package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

type AccountState string

const (
	AccountActive   AccountState = "ACTIVE"
	AccountInactive AccountState = "INACTIVE"
	AccountBlocked  AccountState = "BLOCKED"
)

type User struct {
	gorm.Model
	Name         string       `json:"name" gorm:"column:name;not null"`
	Email        string       `json:"email" gorm:"column:email;unique;not null"`
	Password     string       `json:"-" gorm:"-:migration"` // plaintext in flight only, never persisted
	PasswordHash string       `json:"-" gorm:"column:password_hash;not null"`
	Role         Role         `json:"role" gorm:"column:role;not null;default:rider"`
	PhoneNumber  string       `json:"phoneNumber" gorm:"column:phone_number"`
	Address      string       `json:"address" gorm:"column:address"`
	State        AccountState `json:"accountState" gorm:"column:account_state;default:ACTIVE"`
	IsVerified   bool         `json:"isVerified" gorm:"column:is_verified;default:false"`
	IsDeleted    bool         `json:"isDeleted" gorm:"column:is_deleted;default:false"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// CanAct reports whether the account may perform authenticated actions.
// Blocked and deleted accounts are locked out everywhere.
func (u *User) CanAct() bool {
	return !u.IsDeleted && u.State != AccountBlocked
}
