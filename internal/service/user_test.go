package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"foodbridge-api-server/internal/models"
)

func newUserService() (*MemoryStore, *UserService) {
	store := NewMemoryStore()
	return store, &UserService{Store: store, Now: fixedNow}
}

func TestRegister(t *testing.T) {
	t.Run("restaurant starts verified", func(t *testing.T) {
		_, svc := newUserService()
		user, err := svc.Register(context.Background(), "Tasty Corner", "owner@tasty.example", "secret123", models.RoleRestaurant)
		require.NoError(t, err)
		require.True(t, user.IsVerified)
		require.Equal(t, models.AvailabilityAvailable, user.AvailabilityStatus)
	})

	t.Run("ngo starts unverified", func(t *testing.T) {
		_, svc := newUserService()
		user, err := svc.Register(context.Background(), "Food Angels", "contact@angels.example", "secret123", models.RoleNgo)
		require.NoError(t, err)
		require.False(t, user.IsVerified)
	})

	t.Run("admin cannot self-register", func(t *testing.T) {
		_, svc := newUserService()
		_, err := svc.Register(context.Background(), "Sneaky", "admin@evil.example", "secret123", models.RoleAdmin)
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("email is normalized and unique", func(t *testing.T) {
		_, svc := newUserService()
		_, err := svc.Register(context.Background(), "First", "Owner@Tasty.example", "secret123", models.RoleRestaurant)
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), "Second", " owner@tasty.example ", "secret123", models.RoleNgo)
		require.ErrorIs(t, err, ErrEmailInUse)
	})
}

func TestAuthenticate(t *testing.T) {
	_, svc := newUserService()
	registered, err := svc.Register(context.Background(), "Tasty Corner", "owner@tasty.example", "secret123", models.RoleRestaurant)
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "OWNER@tasty.example", "secret123")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(context.Background(), "owner@tasty.example", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@tasty.example", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetAvailability(t *testing.T) {
	store, svc := newUserService()
	seedUser(t, store, "ngo-1", models.RoleNgo, true, models.AvailabilityAvailable)
	seedUser(t, store, "rest-1", models.RoleRestaurant, true, models.AvailabilityAvailable)

	require.NoError(t, svc.SetAvailability(context.Background(), "ngo-1", models.AvailabilityBusy))
	user, err := store.UserByID(context.Background(), "ngo-1")
	require.NoError(t, err)
	require.Equal(t, models.AvailabilityBusy, user.AvailabilityStatus)

	require.ErrorIs(t, svc.SetAvailability(context.Background(), "ngo-1", "sleeping"), ErrInvalidTransition)
	require.ErrorIs(t, svc.SetAvailability(context.Background(), "rest-1", models.AvailabilityBusy), ErrUnauthorized)
}

func TestSetRoleNormalization(t *testing.T) {
	t.Run("restaurant to ngo resets verification", func(t *testing.T) {
		store, svc := newUserService()
		seedUser(t, store, "user-1", models.RoleRestaurant, true, models.AvailabilityAvailable)

		require.NoError(t, svc.SetRole(context.Background(), "user-1", models.RoleNgo))
		user, err := store.UserByID(context.Background(), "user-1")
		require.NoError(t, err)
		require.Equal(t, models.RoleNgo, user.Role)
		require.False(t, user.IsVerified)
		require.Equal(t, models.AvailabilityAvailable, user.AvailabilityStatus)
	})

	t.Run("ngo keeps verification and busy flag on no-op role set", func(t *testing.T) {
		store, svc := newUserService()
		seedUser(t, store, "ngo-1", models.RoleNgo, true, models.AvailabilityBusy)

		require.NoError(t, svc.SetRole(context.Background(), "ngo-1", models.RoleNgo))
		user, err := store.UserByID(context.Background(), "ngo-1")
		require.NoError(t, err)
		require.True(t, user.IsVerified)
		require.Equal(t, models.AvailabilityBusy, user.AvailabilityStatus)
	})

	t.Run("ngo to restaurant becomes verified", func(t *testing.T) {
		store, svc := newUserService()
		seedUser(t, store, "ngo-1", models.RoleNgo, false, models.AvailabilityBusy)

		require.NoError(t, svc.SetRole(context.Background(), "ngo-1", models.RoleRestaurant))
		user, err := store.UserByID(context.Background(), "ngo-1")
		require.NoError(t, err)
		require.True(t, user.IsVerified)
		require.Equal(t, models.AvailabilityAvailable, user.AvailabilityStatus)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		store, svc := newUserService()
		seedUser(t, store, "user-1", models.RoleRestaurant, true, models.AvailabilityAvailable)
		require.ErrorIs(t, svc.SetRole(context.Background(), "user-1", "moderator"), ErrInvalidRole)
	})
}

func TestSetVerification(t *testing.T) {
	store, svc := newUserService()
	seedUser(t, store, "ngo-1", models.RoleNgo, false, models.AvailabilityAvailable)

	require.NoError(t, svc.SetVerification(context.Background(), "ngo-1", true))
	user, err := store.UserByID(context.Background(), "ngo-1")
	require.NoError(t, err)
	require.True(t, user.IsVerified)

	require.ErrorIs(t, svc.SetVerification(context.Background(), "ghost", true), ErrNotFound)
}
