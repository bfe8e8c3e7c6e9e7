package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodbridge-api-server/internal/models"
)

func newDonationService(store *MemoryStore, notifier *RecordingNotifier) *DonationService {
	return &DonationService{
		Store:    store,
		Notifier: notifier,
		Analyzer: &StaticAnalyzer{},
		Now:      fixedNow,
	}
}

func TestCreateDonation(t *testing.T) {
	store := NewMemoryStore()
	notifier := &RecordingNotifier{}
	svc := newDonationService(store, notifier)

	donation, err := svc.Create(context.Background(), "rest-1", CreateDonationInput{
		FoodName:      "Paneer Curry",
		Quantity:      "8 portions",
		Address:       "12 Market Street",
		Description:   "Cooked this afternoon",
		AvailableTill: testTime.Add(6 * time.Hour),
	})
	require.NoError(t, err)
	require.NotEmpty(t, donation.ID)
	require.Equal(t, models.DonationAvailable, donation.Status)
	require.Equal(t, models.RiskMedium, donation.FreshnessRiskLevel)
	require.Equal(t, 3, donation.PickupPriorityScore)
	require.Nil(t, donation.CompletedAt)

	// All NGOs are told about the new donation via a role broadcast.
	require.Len(t, notifier.Sent, 1)
	require.Equal(t, "role:ngo", notifier.Sent[0].RecipientKey)
	require.Equal(t, models.NotifyNewDonation, notifier.Sent[0].Type)
}

func TestListAvailableTriageOrder(t *testing.T) {
	store := NewMemoryStore()
	svc := newDonationService(store, &RecordingNotifier{})

	insert := func(id string, priority int, till time.Time, createdAt time.Time) {
		tillCopy := till
		require.NoError(t, store.InsertDonation(context.Background(), models.Donation{
			ID:                  id,
			RestaurantID:        "rest-1",
			FoodName:            id,
			PickupPriorityScore: priority,
			AvailableTill:       &tillCopy,
			Status:              models.DonationAvailable,
			CreatedAt:           createdAt,
		}))
	}

	// A and B share the top priority; B's deadline is sooner. C has the
	// most urgent deadline but a lower priority.
	insert("A", 5, testTime.Add(2*time.Hour), testTime)
	insert("B", 5, testTime.Add(1*time.Hour), testTime)
	insert("C", 3, testTime.Add(30*time.Minute), testTime)

	donations, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, donations, 3)
	require.Equal(t, "B", donations[0].ID)
	require.Equal(t, "A", donations[1].ID)
	require.Equal(t, "C", donations[2].ID)
}

func TestListAvailableNilDeadlineSortsLast(t *testing.T) {
	store := NewMemoryStore()
	svc := newDonationService(store, &RecordingNotifier{})

	till := testTime.Add(time.Hour)
	require.NoError(t, store.InsertDonation(context.Background(), models.Donation{
		ID: "with-deadline", PickupPriorityScore: 3, AvailableTill: &till,
		Status: models.DonationAvailable, CreatedAt: testTime,
	}))
	require.NoError(t, store.InsertDonation(context.Background(), models.Donation{
		ID: "no-deadline", PickupPriorityScore: 3,
		Status: models.DonationAvailable, CreatedAt: testTime.Add(time.Minute),
	}))

	donations, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Equal(t, "with-deadline", donations[0].ID)
	require.Equal(t, "no-deadline", donations[1].ID)
}

func TestListAvailableExcludesNonAvailable(t *testing.T) {
	store := NewMemoryStore()
	svc := newDonationService(store, &RecordingNotifier{})

	seedDonation(t, store, "don-avail", "rest-1", models.DonationAvailable)
	seedDonation(t, store, "don-claimed", "rest-1", models.DonationClaimed)
	seedDonation(t, store, "don-done", "rest-1", models.DonationCompleted)

	donations, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, donations, 1)
	require.Equal(t, "don-avail", donations[0].ID)
}

func TestSetStatusValidatesValue(t *testing.T) {
	store := NewMemoryStore()
	svc := newDonationService(store, &RecordingNotifier{})
	seedDonation(t, store, "don-1", "rest-1", models.DonationCompleted)

	require.ErrorIs(t, svc.SetStatus(context.Background(), "don-1", "archived"), ErrInvalidTransition)

	// The override may move status backwards.
	require.NoError(t, svc.SetStatus(context.Background(), "don-1", models.DonationAvailable))
	donation, err := store.DonationByID(context.Background(), "don-1")
	require.NoError(t, err)
	require.Equal(t, models.DonationAvailable, donation.Status)
}

func TestDeleteDonationOwnership(t *testing.T) {
	store := NewMemoryStore()
	svc := newDonationService(store, &RecordingNotifier{})
	seedDonation(t, store, "don-1", "rest-1", models.DonationAvailable)

	err := svc.Delete(context.Background(), "don-1", "rest-2", models.RoleRestaurant)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Delete(context.Background(), "don-1", "rest-1", models.RoleRestaurant))
	_, err = store.DonationByID(context.Background(), "don-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDonationAdminBypass(t *testing.T) {
	store := NewMemoryStore()
	svc := newDonationService(store, &RecordingNotifier{})
	seedDonation(t, store, "don-1", "rest-1", models.DonationAvailable)

	require.NoError(t, svc.Delete(context.Background(), "don-1", "admin-1", models.RoleAdmin))
}
