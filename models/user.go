package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCreator Role = "CREATOR"
	RoleCompany Role = "COMPANY"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCreator, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// User is an account. Waitlist-only users have no password yet.
type User struct {
	ID           string    `gorm:"primaryKey;type:char(36);column:id" json:"id"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash *string   `gorm:"column:password;size:255" json:"-"`
	Name         *string   `gorm:"column:name;size:100" json:"name"`
	Role         Role      `gorm:"column:role;size:20;not null" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
