package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/utils"
)

// IdeaStore is the idea persistence used by the idea and review services.
type IdeaStore interface {
	Create(ctx context.Context, idea *models.Idea) error
	ByID(ctx context.Context, id string) (*models.Idea, error)
	Detail(ctx context.Context, id string) (*models.Idea, error)
	List(ctx context.Context, f repository.IdeaFilter) ([]models.Idea, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Idea, error)
	UpdateContent(ctx context.Context, idea *models.Idea) error
	Transition(ctx context.Context, id string, from []models.IdeaStatus, to models.IdeaStatus, submittedAt *time.Time) (bool, error)
	RecordReview(ctx context.Context, review *models.Review, from []models.IdeaStatus, to models.IdeaStatus) (bool, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher delivers domain events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Actor is the authenticated caller.
type Actor struct {
	UserID string
	Role   models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

type IdeaInput struct {
	Title       string
	Description string
	Category    *string
	Tags        string
}

// IdeaPatch carries only the fields present in the request.
// Category and Tags set to "" clear the stored value.
type IdeaPatch struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *string
}

func (p IdeaPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Tags == nil
}

type IdeaService struct {
	ideas  IdeaStore
	events EventPublisher
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewIdeaService wires the store. events may be nil.
func NewIdeaService(ideas IdeaStore, events EventPublisher) *IdeaService {
	return &IdeaService{ideas: ideas, events: events, now: time.Now}
}

func (s *IdeaService) Create(ctx context.Context, actor Actor, in IdeaInput) (*models.Idea, error) {
	if actor.Role != models.RoleCreator && !actor.IsAdmin() {
		return nil, AuthorizationError("Insufficient permissions")
	}

	var problems fieldErrors
	title := utils.SanitizeInput(in.Title)
	description := utils.SanitizeInput(in.Description)
	checkTitle(&problems, title)
	checkDescription(&problems, description)
	category := utils.OptionalText(in.Category)
	if category != nil {
		checkCategory(&problems, *category)
	}
	tags := utils.NormalizeTags(in.Tags)
	checkTags(&problems, tags)
	if err := problems.err(); err != nil {
		return nil, err
	}

	idea := &models.Idea{
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
		CreatorID:   actor.UserID,
		Status:      models.IdeaDraft,
	}
	if err := s.ideas.Create(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *IdeaService) MyIdeas(ctx context.Context, actor Actor) ([]models.Idea, error) {
	ideas, err := s.ideas.ListByCreator(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if ideas == nil {
		ideas = []models.Idea{}
	}
	return ideas, nil
}

// List scopes results by role. A status filter replaces the role's default
// status set; creators still only see their own ideas and companies never
// see drafts.
func (s *IdeaService) List(ctx context.Context, actor Actor, status string) ([]models.Idea, error) {
	filter := repository.IdeaFilter{}
	switch actor.Role {
	case models.RoleCreator:
		filter.CreatorID = actor.UserID
	default:
		filter.Statuses = models.CompanyVisibleStatuses
	}

	if status != "" {
		st := models.IdeaStatus(status)
		if !st.Valid() {
			return nil, ValidationError("Validation failed", FieldError{Param: "status", Msg: "Invalid status"})
		}
		if actor.Role == models.RoleCompany && st == models.IdeaDraft {
			return []models.Idea{}, nil
		}
		filter.Statuses = []models.IdeaStatus{st}
	}

	ideas, err := s.ideas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if ideas == nil {
		ideas = []models.Idea{}
	}
	return ideas, nil
}

func (s *IdeaService) Get(ctx context.Context, actor Actor, id string) (*models.Idea, error) {
	idea, err := s.ideas.Detail(ctx, id)
	if err != nil {
		return nil, ideaLookupError(err)
	}
	switch actor.Role {
	case models.RoleCreator:
		if idea.CreatorID != actor.UserID {
			return nil, AuthorizationError("Access denied")
		}
	case models.RoleCompany:
		if idea.Status == models.IdeaDraft {
			return nil, AuthorizationError("Access denied")
		}
	}
	return idea, nil
}

func (s *IdeaService) Update(ctx context.Context, actor Actor, id string, patch IdeaPatch) (*models.Idea, error) {
	if patch.Empty() {
		return nil, ValidationError("No fields to update")
	}

	var problems fieldErrors
	if patch.Title != nil {
		v := utils.SanitizeInput(*patch.Title)
		checkTitle(&problems, v)
		patch.Title = &v
	}
	if patch.Description != nil {
		v := utils.SanitizeInput(*patch.Description)
		checkDescription(&problems, v)
		patch.Description = &v
	}
	if patch.Category != nil {
		v := utils.SanitizeInput(*patch.Category)
		checkCategory(&problems, v)
		patch.Category = &v
	}
	if patch.Tags != nil {
		v := utils.NormalizeTags(*patch.Tags)
		checkTags(&problems, v)
		patch.Tags = &v
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	idea, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		idea.Title = *patch.Title
	}
	if patch.Description != nil {
		idea.Description = *patch.Description
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			idea.Category = nil
		} else {
			idea.Category = patch.Category
		}
	}
	if patch.Tags != nil {
		idea.Tags = *patch.Tags
	}

	if err := s.ideas.UpdateContent(ctx, idea); err != nil {
		return nil, ideaLookupError(err)
	}
	return s.detail(ctx, id)
}

// Submit moves a draft to SUBMITTED. The status guard is applied by the
// store, so two concurrent submits cannot both succeed.
func (s *IdeaService) Submit(ctx context.Context, actor Actor, id string) (*models.Idea, error) {
	idea, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if idea.Status != models.IdeaDraft {
		return nil, StateError("Idea has already been submitted")
	}

	now := s.now()
	ok, err := s.ideas.Transition(ctx, id, models.SourcesFor(models.IdeaSubmitted), models.IdeaSubmitted, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, StateError("Idea has already been submitted")
	}

	s.publish(ctx, EventIdeaSubmitted, IdeaSubmittedEvent{
		IdeaID:      id,
		CreatorID:   idea.CreatorID,
		Title:       idea.Title,
		SubmittedAt: now,
	})
	return s.detail(ctx, id)
}

func (s *IdeaService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.ideas.Delete(ctx, id); err != nil {
		return ideaLookupError(err)
	}
	return nil
}

// owned loads the idea and checks the caller is its creator or an admin.
func (s *IdeaService) owned(ctx context.Context, actor Actor, id string) (*models.Idea, error) {
	idea, err := s.ideas.ByID(ctx, id)
	if err != nil {
		return nil, ideaLookupError(err)
	}
	if idea.CreatorID != actor.UserID && !actor.IsAdmin() {
		return nil, AuthorizationError("Access denied")
	}
	return idea, nil
}

func (s *IdeaService) detail(ctx context.Context, id string) (*models.Idea, error) {
	idea, err := s.ideas.Detail(ctx, id)
	if err != nil {
		return nil, ideaLookupError(err)
	}
	return idea, nil
}

// publish hands the event to a goroutine so a slow broker never holds up
// the request. Failures are only logged.
func (s *IdeaService) publish(ctx context.Context, key string, payload any) {
	if s.events == nil {
		return
	}
	ctx = persistentContext(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.events.Publish(ctx, key, payload); err != nil {
			log.Printf("[events] publish %s failed: %v", key, err)
		}
	}()
}

// Wait blocks until every queued event has been attempted.
func (s *IdeaService) Wait() {
	s.wg.Wait()
}

func ideaLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError("Idea not found")
	}
	return err
}

func checkTitle(p *fieldErrors, v string) {
	if !utils.LengthBetween(v, 3, 200) {
		p.add("title", "Title must be between 3 and 200 characters")
	}
}

func checkDescription(p *fieldErrors, v string) {
	if !utils.LengthBetween(v, 10, 10000) {
		p.add("description", "Description must be between 10 and 10000 characters")
	}
}

func checkCategory(p *fieldErrors, v string) {
	if !utils.LengthBetween(v, 0, 100) {
		p.add("category", "Category must be at most 100 characters")
	}
}

func checkTags(p *fieldErrors, v string) {
	if !utils.LengthBetween(v, 0, 500) {
		p.add("tags", "Tags must be at most 500 characters")
	}
}
