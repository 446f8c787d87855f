package models

import (
	"time"

	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewInterested    ReviewStatus = "interested"
	ReviewNotInterested ReviewStatus = "not_interested"
	ReviewNeedsRevision ReviewStatus = "needs_revision"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewInterested, ReviewNotInterested, ReviewNeedsRevision:
		return true
	}
	return false
}

// IdeaOutcome is the status an idea moves to once this review is recorded.
func (s ReviewStatus) IdeaOutcome() IdeaStatus {
	switch s {
	case ReviewInterested:
		return IdeaInNegotiation
	case ReviewNotInterested:
		return IdeaRejected
	default:
		return IdeaUnderReview
	}
}

// Review is a company's verdict on an idea. Rows are never updated.
type Review struct {
	ID         string       `gorm:"primaryKey;type:char(36);column:id" json:"id"`
	IdeaID     string       `gorm:"column:idea_id;type:char(36);index;not null" json:"ideaId"`
	ReviewerID *string      `gorm:"column:reviewer_id;type:char(36);index" json:"reviewerId"`
	Rating     *int         `gorm:"column:rating" json:"rating"`
	Feedback   *string      `gorm:"column:feedback;type:text" json:"feedback"`
	Status     ReviewStatus `gorm:"column:status;size:20;not null" json:"status"`
	ReviewedAt time.Time    `gorm:"column:reviewed_at" json:"reviewedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
