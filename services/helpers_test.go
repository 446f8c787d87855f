package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/repository/repotest"

	"gorm.io/gorm"
)

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

// blockingPublisher holds every Publish until release is closed.
type blockingPublisher struct {
	recordingPublisher
	release chan struct{}
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{release: make(chan struct{})}
}

func (p *blockingPublisher) Publish(ctx context.Context, key string, payload any) error {
	<-p.release
	return p.recordingPublisher.Publish(ctx, key, payload)
}

type fixture struct {
	t      *testing.T
	db     *gorm.DB
	users  *repository.UserRepo
	store  *repository.IdeaRepo
	ideas  *IdeaService
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	db := repotest.Open(t)
	store := repository.NewIdeaRepo(db)
	events := &recordingPublisher{}
	return &fixture{
		t:      t,
		db:     db,
		users:  repository.NewUserRepo(db),
		store:  store,
		ideas:  NewIdeaService(store, events),
		events: events,
	}
}

func (f *fixture) user(role models.Role, email string) Actor {
	u := &models.User{Email: email, Role: role}
	if err := f.users.Create(context.Background(), u); err != nil {
		f.t.Fatalf("create user %s: %v", email, err)
	}
	return Actor{UserID: u.ID, Role: role}
}

func (f *fixture) stored(id string) *models.Idea {
	idea, err := f.store.ByID(context.Background(), id)
	if err != nil {
		f.t.Fatalf("load idea %s: %v", id, err)
	}
	return idea
}

func (f *fixture) reviewCount() int {
	return repotest.Count(f.t, f.db, &models.Review{})
}

func (f *fixture) draft(creator Actor) *models.Idea {
	idea, err := f.ideas.Create(context.Background(), creator, IdeaInput{
		Title:       "Solar kiosk",
		Description: "Pay-as-you-go solar charging for markets.",
		Tags:        "energy, retail",
	})
	if err != nil {
		f.t.Fatalf("create draft: %v", err)
	}
	return idea
}

func (f *fixture) submitted(creator Actor) *models.Idea {
	idea := f.draft(creator)
	if _, err := f.ideas.Submit(context.Background(), creator, idea.ID); err != nil {
		f.t.Fatalf("submit: %v", err)
	}
	return idea
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
