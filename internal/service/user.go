package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/models"
)

var (
	ErrEmailInUse         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role selected")
)

// UserService covers registration, login checks and the admin-side user
// moderation actions.
type UserService struct {
	Store Store
	Now   func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Register creates a restaurant or NGO account. NGOs start unverified
// and available; verification is granted later by an admin.
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (models.User, error) {
	if role != models.RoleRestaurant && role != models.RoleNgo {
		return models.User{}, ErrInvalidRole
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.Store.UserByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailInUse
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:                 uuid.NewString(),
		Name:               name,
		Email:              email,
		Password:           hashed,
		Role:               role,
		IsVerified:         role == models.RoleRestaurant,
		AvailabilityStatus: models.AvailabilityAvailable,
		CreatedAt:          s.now(),
	}
	if err := s.Store.InsertUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate checks credentials for login.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.Store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !auth.CheckPasswordHash(password, user.Password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.Store.UserByID(ctx, id)
}

// List returns all users for the admin table, newest first is left to
// the caller's ordering needs.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Store.Users(ctx)
}

// SetAvailability toggles an NGO's own available/busy flag.
func (s *UserService) SetAvailability(ctx context.Context, ngoID, status string) error {
	if status != models.AvailabilityAvailable && status != models.AvailabilityBusy {
		return ErrInvalidTransition
	}
	user, err := s.Store.UserByID(ctx, ngoID)
	if err != nil {
		return err
	}
	if user.Role != models.RoleNgo {
		return ErrUnauthorized
	}
	user.AvailabilityStatus = status
	return s.Store.SaveUser(ctx, user)
}

// SetRole is the admin role change. Moving a user into the NGO role
// resets verification unless they already were an NGO; any other role is
// implicitly verified.
func (s *UserService) SetRole(ctx context.Context, userID, role string) error {
	if role != models.RoleRestaurant && role != models.RoleNgo && role != models.RoleAdmin {
		return ErrInvalidRole
	}
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return err
	}

	wasNgo := user.Role == models.RoleNgo
	user.Role = role
	if role == models.RoleNgo {
		if !wasNgo {
			user.IsVerified = false
		}
		if !wasNgo || user.AvailabilityStatus != models.AvailabilityBusy {
			user.AvailabilityStatus = models.AvailabilityAvailable
		}
	} else {
		user.IsVerified = true
		user.AvailabilityStatus = models.AvailabilityAvailable
	}
	return s.Store.SaveUser(ctx, user)
}

// SetVerification grants or revokes an NGO's claiming eligibility.
func (s *UserService) SetVerification(ctx context.Context, userID string, verified bool) error {
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsVerified = verified
	return s.Store.SaveUser(ctx, user)
}

// Delete removes a user account. Admin only; enforced at the route.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.Store.DeleteUser(ctx, userID)
}
