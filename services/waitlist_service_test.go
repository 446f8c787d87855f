package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu      sync.Mutex
	entries []models.WaitlistEntry
}

func (n *recordingNotifier) WaitlistJoined(_ context.Context, entry models.WaitlistEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, entry)
}

type waitlistFixture struct {
	t     *testing.T
	db    *gorm.DB
	users *repository.UserRepo
}

func (f waitlistFixture) entries() int { return repotest.Count(f.t, f.db, &models.WaitlistEntry{}) }
func (f waitlistFixture) accounts() int { return repotest.Count(f.t, f.db, &models.User{}) }

func newWaitlistWith(t *testing.T, n Notifier) (*WaitlistService, waitlistFixture) {
	db := repotest.Open(t)
	users := repository.NewUserRepo(db)
	return NewWaitlistService(users, repository.NewWaitlistRepo(db), n), waitlistFixture{t: t, db: db, users: users}
}

func newWaitlist(t *testing.T) (*WaitlistService, waitlistFixture, *recordingNotifier) {
	n := &recordingNotifier{}
	svc, f := newWaitlistWith(t, n)
	return svc, f, n
}

func TestJoinCreatesUserAndEntry(t *testing.T) {
	svc, f, n := newWaitlist(t)
	ctx := context.Background()

	entry, err := svc.Join(ctx, JoinInput{Email: "Co@X.com", Type: models.WaitlistCompany, Company: strPtr("  Acme ")})
	require.NoError(t, err)
	assert.Equal(t, "co@x.com", entry.Email)
	assert.Equal(t, "Acme", *entry.Company)
	assert.NotEmpty(t, entry.ID)

	user, err := f.users.ByEmail(ctx, "co@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCompany, user.Role)
	assert.False(t, user.HasPassword())
	assert.Equal(t, user.ID, entry.UserID)

	require.Len(t, n.entries, 1)
	assert.Equal(t, entry.ID, n.entries[0].ID)
}

func TestJoinTwiceConflicts(t *testing.T) {
	svc, f, n := newWaitlist(t)
	ctx := context.Background()

	_, err := svc.Join(ctx, JoinInput{Email: "a@x.com", Type: models.WaitlistCreator})
	require.NoError(t, err)
	_, err = svc.Join(ctx, JoinInput{Email: "A@x.com", Type: models.WaitlistCompany})
	assert.EqualError(t, err, "conflict: Email already registered on waitlist")

	assert.Equal(t, 1, f.entries())
	assert.Equal(t, 1, f.accounts())
	assert.Len(t, n.entries, 1)
}

func TestConcurrentJoinsLeaveOneEntry(t *testing.T) {
	svc, f, _ := newWaitlist(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Join(ctx, JoinInput{Email: "race@x.com", Type: models.WaitlistCreator})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.Equal(t, KindConflict, KindOf(err))
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, f.entries())
}

func TestJoinExistingAccount(t *testing.T) {
	svc, f, _ := newWaitlist(t)
	ctx := context.Background()
	existing := &models.User{Email: "reg@x.com", Role: models.RoleCreator}
	require.NoError(t, f.users.Create(ctx, existing))

	entry, err := svc.Join(ctx, JoinInput{Email: "reg@x.com", Type: models.WaitlistCreator})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, entry.UserID)
	assert.Equal(t, 1, f.accounts())
}

func TestJoinValidation(t *testing.T) {
	svc, f, n := newWaitlist(t)
	_, err := svc.Join(context.Background(), JoinInput{Email: "bad", Type: "INVESTOR", Name: strPtr("  ")})
	require.Error(t, err)
	appErr := err.(*AppError)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 3)
	assert.Equal(t, 0, f.entries())
	assert.Empty(t, n.entries)
}

func TestStatsAndList(t *testing.T) {
	svc, _, _ := newWaitlist(t)
	ctx := context.Background()
	for _, in := range []JoinInput{
		{Email: "a@x.com", Type: models.WaitlistCreator},
		{Email: "b@x.com", Type: models.WaitlistCreator},
		{Email: "c@x.com", Type: models.WaitlistCompany},
	} {
		_, err := svc.Join(ctx, in)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.WaitlistStats{Creators: 2, Companies: 1, Total: 3}, stats)

	page, err := svc.List(ctx, 1000, -5)
	require.NoError(t, err)
	assert.Equal(t, MaxWaitlistPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Entries, 3)

	page, err = svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, DefaultWaitlistPageSize, page.Limit)
	assert.Empty(t, page.Entries)
	assert.NotNil(t, page.Entries)
}

func TestJoinDoesNotWaitForBroker(t *testing.T) {
	pub := newBlockingPublisher()
	events := NewEventNotifier(pub)
	svc, _ := newWaitlistWith(t, MultiNotifier{LogNotifier{}, events})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Join(context.Background(), JoinInput{Email: "slow@x.com", Type: models.WaitlistCreator})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Join waited for the broker")
	}

	close(pub.release)
	events.Wait()
	assert.Equal(t, []string{EventWaitlistJoined}, pub.keys())
}
