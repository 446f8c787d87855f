package models

import (
	"time"

	"gorm.io/gorm"
)

type WaitlistType string

const (
	WaitlistCreator WaitlistType = "CREATOR"
	WaitlistCompany WaitlistType = "COMPANY"
)

func (t WaitlistType) Valid() bool {
	return t == WaitlistCreator || t == WaitlistCompany
}

// Role is the account role given to a user created from a waitlist signup.
func (t WaitlistType) Role() Role {
	if t == WaitlistCompany {
		return RoleCompany
	}
	return RoleCreator
}

func (t WaitlistType) Label() string {
	if t == WaitlistCompany {
		return "Company"
	}
	return "Creator"
}

// WaitlistEntry records pre-launch interest. One per user, enforced by the
// unique index on user_id.
type WaitlistEntry struct {
	ID        string       `gorm:"primaryKey;type:char(36);column:id" json:"id"`
	UserID    string       `gorm:"column:user_id;type:char(36);uniqueIndex;not null" json:"userId"`
	Email     string       `gorm:"column:email;size:255;index;not null" json:"email"`
	Name      *string      `gorm:"column:name;size:100" json:"name"`
	Type      WaitlistType `gorm:"column:type;size:20;index;not null" json:"type"`
	Company   *string      `gorm:"column:company;size:200" json:"company"`
	Message   *string      `gorm:"column:message;type:text" json:"message"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

type WaitlistStats struct {
	Creators  int64 `json:"creators"`
	Companies int64 `json:"companies"`
	Total     int64 `json:"total"`
}
