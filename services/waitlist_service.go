package services

import (
	"context"
	"errors"

	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/utils"
)

// WaitlistStore persists waitlist entries. Create inserts newUser first when
// it is not nil, in the same transaction as the entry.
type WaitlistStore interface {
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, entry *models.WaitlistEntry, newUser *models.User) error
	Stats(ctx context.Context) (models.WaitlistStats, error)
	List(ctx context.Context, limit, offset int) ([]models.WaitlistEntry, int64, error)
}

type UserLookup interface {
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

type JoinInput struct {
	Email   string
	Type    models.WaitlistType
	Name    *string
	Company *string
	Message *string
}

const (
	DefaultWaitlistPageSize = 50
	MaxWaitlistPageSize     = 200
)

type WaitlistPage struct {
	Entries []models.WaitlistEntry `json:"entries"`
	Total   int64                  `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

type WaitlistService struct {
	users    UserLookup
	entries  WaitlistStore
	notifier Notifier
}

func NewWaitlistService(users UserLookup, entries WaitlistStore, notifier Notifier) *WaitlistService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &WaitlistService{users: users, entries: entries, notifier: notifier}
}

// Join records a signup. The notifier runs after the entry is committed and
// cannot change the outcome.
func (s *WaitlistService) Join(ctx context.Context, in JoinInput) (*models.WaitlistEntry, error) {
	email := utils.NormalizeEmail(in.Email)

	var problems fieldErrors
	if !utils.ValidateEmail(email) {
		problems.add("email", "Invalid email")
	}
	if !in.Type.Valid() {
		problems.add("type", "Type must be CREATOR or COMPANY")
	}
	name := optionalBounded(&problems, "name", in.Name, 100, "Name must be between 1 and 100 characters")
	company := optionalBounded(&problems, "company", in.Company, 200, "Company must be between 1 and 200 characters")
	message := utils.OptionalText(in.Message)
	if message != nil && !utils.LengthBetween(*message, 0, 1000) {
		problems.add("message", "Message must be at most 1000 characters")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	entry := &models.WaitlistEntry{
		Email:   email,
		Name:    name,
		Type:    in.Type,
		Company: company,
		Message: message,
	}

	var newUser *models.User
	user, err := s.users.ByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		newUser = &models.User{Email: email, Name: name, Role: in.Type.Role()}
	case err != nil:
		return nil, err
	default:
		exists, err := s.entries.ExistsForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ConflictError("Email already registered on waitlist")
		}
		entry.UserID = user.ID
	}

	if err := s.entries.Create(ctx, entry, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ConflictError("Email already registered on waitlist")
		}
		return nil, err
	}

	s.notifier.WaitlistJoined(ctx, *entry)
	return entry, nil
}

func (s *WaitlistService) Stats(ctx context.Context) (models.WaitlistStats, error) {
	return s.entries.Stats(ctx)
}

// List pages through entries, newest first. Out-of-range limits are clamped.
func (s *WaitlistService) List(ctx context.Context, limit, offset int) (*WaitlistPage, error) {
	if limit <= 0 {
		limit = DefaultWaitlistPageSize
	}
	if limit > MaxWaitlistPageSize {
		limit = MaxWaitlistPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := s.entries.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}
	return &WaitlistPage{Entries: entries, Total: total, Limit: limit, Offset: offset}, nil
}

// optionalBounded trims an optional field. Present values must be 1..max
// characters after trimming.
func optionalBounded(p *fieldErrors, param string, v *string, max int, msg string) *string {
	if v == nil {
		return nil
	}
	trimmed := utils.SanitizeInput(*v)
	if !utils.LengthBetween(trimmed, 1, max) {
		p.add(param, msg)
		return nil
	}
	return &trimmed
}
