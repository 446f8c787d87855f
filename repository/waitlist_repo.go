package repository

import (
	"context"
	"fmt"

	"postulate-api/models"

	"gorm.io/gorm"
)

type WaitlistRepo struct{ db *gorm.DB }

func NewWaitlistRepo(db *gorm.DB) *WaitlistRepo {
	return &WaitlistRepo{db: db}
}

func (r *WaitlistRepo) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WaitlistEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check waitlist entry: %w", err)
	}
	return count > 0, nil
}

// Create inserts the entry, and newUser first when it is not nil, in one
// transaction. Unique violations surface as ErrDuplicate.
func (r *WaitlistRepo) Create(ctx context.Context, entry *models.WaitlistEntry, newUser *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newUser != nil {
			if err := tx.Create(newUser).Error; err != nil {
				return fmt.Errorf("create waitlist user: %w", translate(err))
			}
			entry.UserID = newUser.ID
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("create waitlist entry: %w", translate(err))
		}
		return nil
	})
}

func (r *WaitlistRepo) Stats(ctx context.Context) (models.WaitlistStats, error) {
	var rows []struct {
		Type  models.WaitlistType
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.WaitlistEntry{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return models.WaitlistStats{}, fmt.Errorf("waitlist stats: %w", err)
	}

	var stats models.WaitlistStats
	for _, row := range rows {
		switch row.Type {
		case models.WaitlistCreator:
			stats.Creators = row.Count
		case models.WaitlistCompany:
			stats.Companies = row.Count
		}
		stats.Total += row.Count
	}
	return stats, nil
}

func (r *WaitlistRepo) List(ctx context.Context, limit, offset int) ([]models.WaitlistEntry, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&models.WaitlistEntry{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.WaitlistEntry
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// All streams every entry into fn in batches of 500, in primary key order.
func (r *WaitlistRepo) All(ctx context.Context, fn func([]models.WaitlistEntry) error) error {
	var batch []models.WaitlistEntry
	res := r.db.WithContext(ctx).
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	return res.Error
}
