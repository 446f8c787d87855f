package services

import (
	"context"

	"postulate-api/models"
	"postulate-api/utils"
)

type ReviewInput struct {
	Status   models.ReviewStatus
	Rating   *int
	Feedback *string
}

// Review records a company's verdict and moves the idea to the outcome
// status. The status change and the review row are written together or not
// at all.
func (s *IdeaService) Review(ctx context.Context, actor Actor, id string, in ReviewInput) (*models.Review, error) {
	if actor.Role != models.RoleCompany && !actor.IsAdmin() {
		return nil, AuthorizationError("Insufficient permissions")
	}

	var problems fieldErrors
	if !in.Status.Valid() {
		problems.add("status", "Status must be one of interested, not_interested, needs_revision")
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		problems.add("rating", "Rating must be between 1 and 5")
	}
	feedback := utils.OptionalText(in.Feedback)
	if feedback != nil && !utils.LengthBetween(*feedback, 0, 5000) {
		problems.add("feedback", "Feedback must be at most 5000 characters")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	idea, err := s.ideas.ByID(ctx, id)
	if err != nil {
		return nil, ideaLookupError(err)
	}
	if !idea.Status.Reviewable() {
		return nil, StateError("Idea is not available for review")
	}

	outcome := in.Status.IdeaOutcome()
	reviewer := actor.UserID
	review := &models.Review{
		IdeaID:     id,
		ReviewerID: &reviewer,
		Rating:     in.Rating,
		Feedback:   feedback,
		Status:     in.Status,
		ReviewedAt: s.now(),
	}

	ok, err := s.ideas.RecordReview(ctx, review, models.ReviewableStatuses, outcome)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, StateError("Idea is not available for review")
	}

	s.publish(ctx, EventIdeaReviewed, IdeaReviewedEvent{
		IdeaID:     id,
		ReviewID:   review.ID,
		ReviewerID: reviewer,
		Review:     in.Status,
		IdeaStatus: outcome,
		ReviewedAt: review.ReviewedAt,
	})
	return review, nil
}
