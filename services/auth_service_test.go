package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/repository/repotest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authFixture struct {
	auth   *AuthService
	db     *gorm.DB
	users  *repository.UserRepo
	tokens *TokenService
}

func newAuth(t *testing.T) *authFixture {
	db := repotest.Open(t)
	users := repository.NewUserRepo(db)
	tokens := NewTokenService("test-secret", time.Hour)
	return &authFixture{
		auth:   NewAuthService(users, tokens, bcrypt.MinCost),
		db:     db,
		users:  users,
		tokens: tokens,
	}
}

func TestRegisterDefaultsToCreator(t *testing.T) {
	f := newAuth(t)
	auth, tokens := f.auth, f.tokens
	ctx := context.Background()

	res, err := auth.Register(ctx, RegisterInput{Email: " A@X.com ", Password: "longpass1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCreator, res.User.Role)
	assert.Equal(t, "a@x.com", res.User.Email)

	claims, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, models.RoleCreator, claims.Role)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "anotherpass"})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	auth := newAuth(t).auth
	_, err := auth.Register(context.Background(), RegisterInput{
		Email:    "nope",
		Password: "short",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)
	appErr := err.(*AppError)
	assert.Equal(t, KindValidation, appErr.Kind)

	params := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		params = append(params, f.Param)
	}
	assert.ElementsMatch(t, []string{"email", "password", "role"}, params)
}

func TestRegisterRejectsWaitlistEmail(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()
	stub := &models.User{Email: "w@x.com", Role: models.RoleCreator}
	require.NoError(t, f.users.Create(ctx, stub))

	_, err := f.auth.Register(ctx, RegisterInput{Email: "W@x.com", Password: "longpass1", Name: strPtr("Wen"), Role: models.RoleCompany})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.EqualError(t, err, "conflict: Email already registered")

	stored, err := f.users.ByID(ctx, stub.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasPassword())
	assert.Nil(t, stored.Name)
	assert.Equal(t, models.RoleCreator, stored.Role)
	assert.Equal(t, 1, repotest.Count(t, f.db, &models.User{}))

	_, err = f.auth.Login(ctx, "w@x.com", "longpass1")
	assert.Equal(t, KindAuthentication, KindOf(err))
}

func TestConcurrentRegisterCreatesOneAccount(t *testing.T) {
	f := newAuth(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.auth.Register(ctx, RegisterInput{Email: "race@x.com", Password: "longpass1"})
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
	assert.Equal(t, 1, repotest.Count(t, f.db, &models.User{}))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuth(t)
	auth := f.auth
	ctx := context.Background()
	_, err := auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "longpass1"})
	require.NoError(t, err)
	require.NoError(t, f.users.Create(ctx, &models.User{Email: "stub@x.com", Role: models.RoleCreator}))

	for _, tc := range []struct{ email, password string }{
		{"a@x.com", "wrongpass"},
		{"missing@x.com", "longpass1"},
		{"stub@x.com", "longpass1"},
	} {
		_, err := auth.Login(ctx, tc.email, tc.password)
		assert.Equal(t, KindAuthentication, KindOf(err), tc.email)
		assert.EqualError(t, err, "authentication: Invalid credentials")
	}

	res, err := auth.Login(ctx, "A@X.COM", "longpass1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestMe(t *testing.T) {
	auth := newAuth(t).auth
	ctx := context.Background()
	res, err := auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "longpass1"})
	require.NoError(t, err)

	u, err := auth.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = auth.Me(ctx, "gone")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "a@x.com", Role: models.RoleCompany}

	expired := NewTokenService("test-secret", -time.Minute)
	token, err := expired.Issue(user)
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	assert.EqualError(t, err, "authentication: Token has expired")

	other := NewTokenService("other-secret", time.Hour)
	token, err = other.Issue(user)
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	assert.Equal(t, KindAuthentication, KindOf(err))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(unsigned)
	assert.Equal(t, KindAuthentication, KindOf(err))

	_, err = tokens.Verify("")
	assert.Equal(t, KindAuthentication, KindOf(err))
}
