package services

import (
	"time"

	"postulate-api/models"
)

// Routing keys for domain events.
const (
	EventWaitlistJoined = "waitlist.joined"
	EventIdeaSubmitted  = "idea.submitted"
	EventIdeaReviewed   = "idea.reviewed"
)

type WaitlistJoinedEvent struct {
	EntryID   string              `json:"entryId"`
	UserID    string              `json:"userId"`
	Email     string              `json:"email"`
	Type      models.WaitlistType `json:"type"`
	CreatedAt time.Time           `json:"createdAt"`
}

type IdeaSubmittedEvent struct {
	IdeaID      string    `json:"ideaId"`
	CreatorID   string    `json:"creatorId"`
	Title       string    `json:"title"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type IdeaReviewedEvent struct {
	IdeaID     string              `json:"ideaId"`
	ReviewID   string              `json:"reviewId"`
	ReviewerID string              `json:"reviewerId"`
	Review     models.ReviewStatus `json:"review"`
	IdeaStatus models.IdeaStatus   `json:"ideaStatus"`
	ReviewedAt time.Time           `json:"reviewedAt"`
}
