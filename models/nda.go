package models

import (
	"time"

	"gorm.io/gorm"
)

// NDA is attached to an idea. No operation writes it yet; it is only
// loaded alongside ideas.
type NDA struct {
	ID        string     `gorm:"primaryKey;type:char(36);column:id" json:"id"`
	IdeaID    string     `gorm:"column:idea_id;type:char(36);uniqueIndex;not null" json:"ideaId"`
	CompanyID *string    `gorm:"column:company_id;type:char(36)" json:"companyId"`
	Status    string     `gorm:"column:status;size:20" json:"status"`
	SignedAt  *time.Time `gorm:"column:signed_at" json:"signedAt"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (NDA) TableName() string {
	return "ndas"
}

func (n *NDA) BeforeCreate(tx *gorm.DB) error {
	assignID(&n.ID)
	return nil
}
