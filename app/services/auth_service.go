package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/auth"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
)

// LoginInput is an email/password pair.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is a signed token and the principal it encodes.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      rbac.Principal `json:"user"`
}

// UserInput provisions a back-office account.
type UserInput struct {
	Name     string `json:"name"     validate:"max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required"`
	StoreID  string `json:"storeId"`
}

type AuthService struct {
	repos *repositories.Repos
	ttl   time.Duration
}

func NewAuthService(repos *repositories.Repos, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{repos: repos, ttl: ttl}
}

// Login checks credentials and signs a token carrying {id,email,role,storeId}.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}

	user, err := s.repos.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if database.IsNotFound(err) {
			// Burn the same bcrypt time as a wrong password.
			auth.CheckPassword(dummyHash(), in.Password)
			return nil, apperr.New(apperr.Unauthenticated, "Invalid email or password")
		}
		return nil, storeErr(err, "User")
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid email or password")
	}

	return s.issue(user)
}

// IssueToken signs a token for an existing account without a password. It
// backs the token:issue CLI command.
func (s *AuthService) IssueToken(ctx context.Context, email string, ttl time.Duration) (*LoginResult, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, "User")
	}
	if ttl > 0 {
		return (&AuthService{repos: s.repos, ttl: ttl}).issue(user)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	p := rbac.Principal{ID: user.ID, Email: user.Email, Role: rbac.ParseRole(user.Role), StoreID: user.StoreID}
	expires := time.Now().Add(s.ttl)
	token, err := auth.GenerateToken(p, s.ttl)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "could not sign token")
	}
	return &LoginResult{Token: token, ExpiresAt: expires, User: p}, nil
}

// CreateUser provisions an account. SUPER_ADMIN accounts have no store;
// every other role must be bound to an existing one.
func (s *AuthService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}
	role := rbac.ParseRole(in.Role)
	if !role.Valid() {
		return nil, apperr.WithFields("Validation failed", map[string]string{"role": "role must be one of SUPER_ADMIN, ADMIN, STAFF, CUSTOMER"})
	}

	storeID := strings.TrimSpace(in.StoreID)
	switch {
	case role == rbac.RoleSuperAdmin && storeID != "":
		return nil, apperr.New(apperr.Validation, "SUPER_ADMIN accounts cannot be bound to a store")
	case role != rbac.RoleSuperAdmin && storeID == "":
		return nil, apperr.Newf(apperr.Configuration, "%s accounts must be bound to a store", role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "could not hash password")
	}
	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         string(role),
	}
	if storeID != "" {
		user.StoreID = &storeID
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		if storeID != "" {
			if _, err := loadStore(ctx, tx, storeID); err != nil {
				return err
			}
		}
		return storeErr(tx.Users.Create(ctx, user), "User")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("storehub-timing-equaliser")
	return h
})
