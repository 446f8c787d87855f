package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postulate-api/models"

	"gorm.io/gorm"
)

// IdeaFilter narrows List. Empty fields do not filter.
type IdeaFilter struct {
	CreatorID string
	Statuses  []models.IdeaStatus
}

var errStaleStatus = errors.New("idea status changed")

const ideaWithReviewCount = "ideas.*, (SELECT COUNT(*) FROM reviews WHERE reviews.idea_id = ideas.id) AS review_count"

type IdeaRepo struct{ db *gorm.DB }

func NewIdeaRepo(db *gorm.DB) *IdeaRepo {
	return &IdeaRepo{db: db}
}

func (r *IdeaRepo) Create(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Create(idea).Error; err != nil {
		return fmt.Errorf("create idea: %w", translate(err))
	}
	return nil
}

// ByID loads the bare idea row.
func (r *IdeaRepo) ByID(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &idea, nil
}

// Detail loads an idea with its creator, reviews, NDA and review count.
func (r *IdeaRepo) Detail(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	err := r.db.WithContext(ctx).
		Select(ideaWithReviewCount).
		Preload("Creator").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviewed_at DESC")
		}).
		Preload("NDA").
		Where("ideas.id = ?", id).
		First(&idea).Error
	if err != nil {
		return nil, translate(err)
	}
	return &idea, nil
}

func (r *IdeaRepo) List(ctx context.Context, f IdeaFilter) ([]models.Idea, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Select(ideaWithReviewCount).
		Preload("Creator").
		Preload("NDA")

	if f.CreatorID != "" {
		q = q.Where("ideas.creator_id = ?", f.CreatorID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("ideas.status IN ?", f.Statuses)
	}

	var ideas []models.Idea
	if err := q.Order("ideas.created_at DESC").Find(&ideas).Error; err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

// ListByCreator returns a creator's ideas with reviews and NDA attached.
func (r *IdeaRepo) ListByCreator(ctx context.Context, creatorID string) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).
		Select(ideaWithReviewCount).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviewed_at DESC")
		}).
		Preload("NDA").
		Where("ideas.creator_id = ?", creatorID).
		Order("ideas.created_at DESC").
		Find(&ideas).Error
	if err != nil {
		return nil, fmt.Errorf("list ideas by creator: %w", err)
	}
	return ideas, nil
}

// UpdateContent writes the editable columns only. Status is never touched
// here so a concurrent transition cannot be overwritten.
func (r *IdeaRepo) UpdateContent(ctx context.Context, idea *models.Idea) error {
	idea.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(idea).
		Select("title", "description", "category", "tags", "updated_at").
		Updates(idea)
	if res.Error != nil {
		return fmt.Errorf("update idea: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition moves an idea to status `to` only if its current status is one
// of `from`. It reports false when no row matched.
func (r *IdeaRepo) Transition(ctx context.Context, id string, from []models.IdeaStatus, to models.IdeaStatus, submittedAt *time.Time) (bool, error) {
	return conditionalStatusUpdate(r.db.WithContext(ctx), id, from, to, submittedAt)
}

// RecordReview moves the idea to `to` (guarded by `from`) and inserts the
// review in one transaction. Nothing is written when the guard fails.
func (r *IdeaRepo) RecordReview(ctx context.Context, review *models.Review, from []models.IdeaStatus, to models.IdeaStatus) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := conditionalStatusUpdate(tx, review.IdeaID, from, to, nil)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleStatus
		}
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("create review: %w", translate(err))
		}
		return nil
	})
	if errors.Is(err, errStaleStatus) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes an idea together with its reviews and NDA.
func (r *IdeaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Where("idea_id = ?", id).Delete(&models.NDA{}).Error; err != nil {
			return fmt.Errorf("delete nda: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Idea{})
		if res.Error != nil {
			return fmt.Errorf("delete idea: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func conditionalStatusUpdate(db *gorm.DB, id string, from []models.IdeaStatus, to models.IdeaStatus, submittedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if submittedAt != nil {
		updates["submitted_at"] = *submittedAt
	}

	res := db.Model(&models.Idea{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update idea status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
