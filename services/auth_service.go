package services

import (
	"context"
	"errors"

	"postulate-api/models"
	"postulate-api/repository"
	"postulate-api/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of user persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id string) (*models.User, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     *string
	Role     models.Role
}

type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	users      UserStore
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *TokenService, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates an account. Any existing user with the email, including
// a password-less waitlist signup, is a conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = utils.NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleCreator
	}

	var problems fieldErrors
	if !utils.ValidateEmail(in.Email) {
		problems.add("email", "Invalid email")
	}
	if ok, msg := utils.ValidatePassword(in.Password); !ok {
		problems.add("password", msg)
	}
	if in.Name != nil {
		name := utils.SanitizeInput(*in.Name)
		if !utils.LengthBetween(name, 1, 100) {
			problems.add("name", "Name must be between 1 and 100 characters")
		}
		in.Name = &name
	}
	if in.Role != models.RoleCreator && in.Role != models.RoleCompany {
		problems.add("role", "Role must be CREATOR or COMPANY")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	if _, err := s.users.ByEmail(ctx, in.Email); err == nil {
		return nil, ConflictError("Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: in.Email, PasswordHash: &hash, Name: in.Name, Role: in.Role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ConflictError("Email already registered")
		}
		return nil, err
	}

	return s.issue(user)
}

// Login never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = utils.NormalizeEmail(email)

	var problems fieldErrors
	if !utils.ValidateEmail(email) {
		problems.add("email", "Invalid email")
	}
	if password == "" {
		problems.add("password", "Password is required")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	user, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, AuthenticationError("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() || !CheckPasswordHash(password, *user.PasswordHash) {
		return nil, AuthenticationError("Invalid credentials")
	}

	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundError("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// HashPassword hashes password using bcrypt
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
