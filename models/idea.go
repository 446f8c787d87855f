package models

import (
	"time"

	"gorm.io/gorm"
)

type IdeaStatus string

const (
	IdeaDraft         IdeaStatus = "DRAFT"
	IdeaSubmitted     IdeaStatus = "SUBMITTED"
	IdeaUnderReview   IdeaStatus = "UNDER_REVIEW"
	IdeaInNegotiation IdeaStatus = "IN_NEGOTIATION"
	IdeaAccepted      IdeaStatus = "ACCEPTED"
	IdeaRejected      IdeaStatus = "REJECTED"
)

// ideaTransitions lists the forward moves out of each status. ACCEPTED and
// REJECTED are terminal. Nothing leads back to DRAFT.
var ideaTransitions = map[IdeaStatus][]IdeaStatus{
	IdeaDraft:         {IdeaSubmitted},
	IdeaSubmitted:     {IdeaUnderReview, IdeaInNegotiation, IdeaRejected},
	IdeaUnderReview:   {IdeaUnderReview, IdeaInNegotiation, IdeaRejected},
	IdeaInNegotiation: {IdeaAccepted, IdeaRejected},
}

var (
	// ReviewableStatuses are the statuses a company may review from.
	ReviewableStatuses = []IdeaStatus{IdeaSubmitted, IdeaUnderReview}
	// CompanyVisibleStatuses is the default listing scope for companies and admins.
	CompanyVisibleStatuses = []IdeaStatus{IdeaSubmitted, IdeaUnderReview, IdeaAccepted}
)

func (s IdeaStatus) Valid() bool {
	switch s {
	case IdeaDraft, IdeaSubmitted, IdeaUnderReview, IdeaInNegotiation, IdeaAccepted, IdeaRejected:
		return true
	}
	return false
}

func (s IdeaStatus) CanTransitionTo(next IdeaStatus) bool {
	for _, allowed := range ideaTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s IdeaStatus) Reviewable() bool {
	return s == IdeaSubmitted || s == IdeaUnderReview
}

func (s IdeaStatus) Terminal() bool {
	return len(ideaTransitions[s]) == 0
}

// SourcesFor returns every status that may move to target.
func SourcesFor(target IdeaStatus) []IdeaStatus {
	var sources []IdeaStatus
	for _, from := range []IdeaStatus{IdeaDraft, IdeaSubmitted, IdeaUnderReview, IdeaInNegotiation} {
		if from.CanTransitionTo(target) {
			sources = append(sources, from)
		}
	}
	return sources
}

type Idea struct {
	ID          string     `gorm:"primaryKey;type:char(36);column:id" json:"id"`
	Title       string     `gorm:"column:title;size:200;not null" json:"title"`
	Description string     `gorm:"column:description;type:text;not null" json:"description"`
	Category    *string    `gorm:"column:category;size:100" json:"category"`
	Tags        string     `gorm:"column:tags;size:500" json:"tags"`
	CreatorID   string     `gorm:"column:creator_id;type:char(36);index;not null" json:"creatorId"`
	Status      IdeaStatus `gorm:"column:status;size:20;index;not null" json:"status"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submittedAt"`
	CreatedAt   time.Time  `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updatedAt"`

	// Filled by listing queries only.
	ReviewCount int64 `gorm:"column:review_count;->;-:migration" json:"reviewCount"`

	// Relations
	Creator *User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Reviews []Review `gorm:"foreignKey:IdeaID" json:"reviews,omitempty"`
	NDA     *NDA     `gorm:"foreignKey:IdeaID" json:"nda"`
}

func (Idea) TableName() string {
	return "ideas"
}

func (i *Idea) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
