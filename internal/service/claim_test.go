package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodbridge-api-server/internal/models"
)

var testTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testTime }

func seedUser(t *testing.T, store *MemoryStore, id, role string, verified bool, availability string) {
	t.Helper()
	require.NoError(t, store.InsertUser(context.Background(), models.User{
		ID:                 id,
		Name:               id,
		Email:              id + "@example.com",
		Role:               role,
		IsVerified:         verified,
		AvailabilityStatus: availability,
		CreatedAt:          testTime,
	}))
}

func seedDonation(t *testing.T, store *MemoryStore, id, restaurantID, status string) {
	t.Helper()
	till := testTime.Add(6 * time.Hour)
	require.NoError(t, store.InsertDonation(context.Background(), models.Donation{
		ID:            id,
		RestaurantID:  restaurantID,
		FoodName:      "Vegetable Biryani",
		Quantity:      "10 kg",
		Address:       "12 Market Street",
		AvailableTill: &till,
		Status:        status,
		CreatedAt:     testTime,
	}))
}

func newClaimService(store *MemoryStore, notifier *RecordingNotifier) *ClaimService {
	return &ClaimService{Store: store, Notifier: notifier, Now: fixedNow}
}

func TestClaimHappyPath(t *testing.T) {
	store := NewMemoryStore()
	notifier := &RecordingNotifier{}
	svc := newClaimService(store, notifier)

	seedUser(t, store, "rest-1", models.RoleRestaurant, true, models.AvailabilityAvailable)
	seedUser(t, store, "ngo-1", models.RoleNgo, true, models.AvailabilityAvailable)
	seedDonation(t, store, "don-1", "rest-1", models.DonationAvailable)

	claim, err := svc.Claim(context.Background(), "don-1", "ngo-1")
	require.NoError(t, err)
	require.Equal(t, "don-1", claim.DonationID)
	require.Equal(t, "ngo-1", claim.NgoID)
	require.Equal(t, models.PickupClaimed, claim.PickupStatus)

	donation, err := store.DonationByID(context.Background(), "don-1")
	require.NoError(t, err)
	require.Equal(t, models.DonationClaimed, donation.Status)

	// Both NGO and restaurant are notified.
	require.Len(t, notifier.Sent, 2)
	require.Equal(t, "ngo-1", notifier.Sent[0].RecipientKey)
	require.Equal(t, "rest-1", notifier.Sent[1].RecipientKey)
}

func TestClaimEligibilityGates(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})

	seedUser(t, store, "rest-1", models.RoleRestaurant, true, models.AvailabilityAvailable)
	seedUser(t, store, "ngo-unverified", models.RoleNgo, false, models.AvailabilityAvailable)
	seedUser(t, store, "ngo-busy", models.RoleNgo, true, models.AvailabilityBusy)
	seedDonation(t, store, "don-1", "rest-1", models.DonationAvailable)

	_, err := svc.Claim(context.Background(), "don-1", "ngo-unverified")
	require.ErrorIs(t, err, ErrVerificationRequired)

	_, err = svc.Claim(context.Background(), "don-1", "ngo-busy")
	require.ErrorIs(t, err, ErrNgoBusy)

	_, err = svc.Claim(context.Background(), "don-1", "rest-1")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Claim(context.Background(), "don-1", "nobody")
	require.ErrorIs(t, err, ErrNotFound)

	// None of the failures touched the donation.
	donation, err := store.DonationByID(context.Background(), "don-1")
	require.NoError(t, err)
	require.Equal(t, models.DonationAvailable, donation.Status)
	require.Empty(t, store.ClaimsByDonation("don-1"))
}

func TestClaimNonAvailableDonation(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})

	seedUser(t, store, "ngo-1", models.RoleNgo, true, models.AvailabilityAvailable)
	seedDonation(t, store, "don-claimed", "rest-1", models.DonationClaimed)
	seedDonation(t, store, "don-done", "rest-1", models.DonationCompleted)

	_, err := svc.Claim(context.Background(), "don-claimed", "ngo-1")
	require.ErrorIs(t, err, ErrAlreadyClaimed)

	_, err = svc.Claim(context.Background(), "don-done", "ngo-1")
	require.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestClaimSingleWinnerUnderContention(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})

	seedUser(t, store, "rest-1", models.RoleRestaurant, true, models.AvailabilityAvailable)
	const ngoCount = 20
	ngoIDs := make([]string, ngoCount)
	for i := range ngoIDs {
		ngoIDs[i] = "ngo-" + string(rune('a'+i))
		seedUser(t, store, ngoIDs[i], models.RoleNgo, true, models.AvailabilityAvailable)
	}
	seedDonation(t, store, "don-1", "rest-1", models.DonationAvailable)

	var wg sync.WaitGroup
	errs := make([]error, ngoCount)
	for i, ngoID := range ngoIDs {
		wg.Add(1)
		go func(i int, ngoID string) {
			defer wg.Done()
			_, errs[i] = svc.Claim(context.Background(), "don-1", ngoID)
		}(i, ngoID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, ErrAlreadyClaimed)
		}
	}
	require.Equal(t, 1, winners)
	require.Len(t, store.ClaimsByDonation("don-1"), 1)

	donation, err := store.DonationByID(context.Background(), "don-1")
	require.NoError(t, err)
	require.Equal(t, models.DonationClaimed, donation.Status)
}

// seedClaimedLifecycle sets up a claimed donation with its claim and,
// optionally, a schedule in the given status.
func seedClaimedLifecycle(t *testing.T, store *MemoryStore, scheduleStatus string) (claimID string) {
	t.Helper()
	seedUser(t, store, "rest-1", models.RoleRestaurant, true, models.AvailabilityAvailable)
	seedUser(t, store, "ngo-1", models.RoleNgo, true, models.AvailabilityAvailable)
	seedDonation(t, store, "don-1", "rest-1", models.DonationClaimed)

	claimID = "claim-1"
	require.NoError(t, store.InTransaction(context.Background(), func(tx Tx) error {
		return tx.InsertClaim(models.Claim{
			ID:           claimID,
			DonationID:   "don-1",
			NgoID:        "ngo-1",
			ClaimedAt:    testTime,
			PickupStatus: models.PickupClaimed,
		})
	}))

	if scheduleStatus != "" {
		require.NoError(t, store.SaveSchedule(context.Background(), models.PickupSchedule{
			ID:           claimID,
			ClaimID:      claimID,
			DonationID:   "don-1",
			NgoID:        "ngo-1",
			RestaurantID: "rest-1",
			PickupTime:   testTime.Add(2 * time.Hour),
			Status:       scheduleStatus,
			RequestedAt:  testTime,
		}))
	}
	return claimID
}

func TestAdvancePickupRequiresApprovedSchedule(t *testing.T) {
	cases := []struct {
		name           string
		scheduleStatus string
		wantErr        error
	}{
		{"no schedule", "", ErrScheduleMissing},
		{"pending schedule", models.SchedulePending, ErrScheduleNotApproved},
		{"rejected schedule", models.ScheduleRejected, ErrScheduleNotApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			svc := newClaimService(store, &RecordingNotifier{})
			claimID := seedClaimedLifecycle(t, store, tc.scheduleStatus)

			err := svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupInProgress, "")
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAdvancePickupForwardOnly(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})
	claimID := seedClaimedLifecycle(t, store, models.ScheduleApproved)

	// Cannot jump straight to completed.
	err := svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupCompleted, "https://cdn.example.com/proof.jpg")
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupInProgress, ""))

	// No going back.
	err = svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupInProgress, "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	// Unknown target.
	err = svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", "cancelled", "")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvancePickupOwnershipAndProof(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})
	claimID := seedClaimedLifecycle(t, store, models.ScheduleApproved)
	seedUser(t, store, "ngo-2", models.RoleNgo, true, models.AvailabilityAvailable)

	err := svc.AdvancePickupStatus(context.Background(), claimID, "ngo-2", models.PickupInProgress, "")
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupInProgress, ""))

	// Completion without proof fails before anything is written.
	err = svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupCompleted, "")
	require.ErrorIs(t, err, ErrProofRequired)

	require.NoError(t, svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupCompleted, "https://cdn.example.com/proof.jpg"))

	claim, err := store.ClaimByID(context.Background(), claimID)
	require.NoError(t, err)
	require.Equal(t, models.PickupCompleted, claim.PickupStatus)
	require.Equal(t, "https://cdn.example.com/proof.jpg", claim.ProofImageURL)
	require.NotNil(t, claim.CompletedAt)

	// Donation mirrors the claim.
	donation, err := store.DonationByID(context.Background(), "don-1")
	require.NoError(t, err)
	require.Equal(t, models.DonationCompleted, donation.Status)
	require.Equal(t, "https://cdn.example.com/proof.jpg", donation.ProofImageURL)
	require.NotNil(t, donation.CompletedAt)
}

func TestAdvancePickupSurvivesDeletedDonation(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})
	claimID := seedClaimedLifecycle(t, store, models.ScheduleApproved)

	require.NoError(t, store.DeleteDonation(context.Background(), "don-1"))

	require.NoError(t, svc.AdvancePickupStatus(context.Background(), claimID, "ngo-1", models.PickupInProgress, ""))

	claim, err := store.ClaimByID(context.Background(), claimID)
	require.NoError(t, err)
	require.Equal(t, models.PickupInProgress, claim.PickupStatus)
}

func TestListByNgoOrdersNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	svc := newClaimService(store, &RecordingNotifier{})

	for i, id := range []string{"claim-old", "claim-mid", "claim-new"} {
		claimedAt := testTime.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.InTransaction(context.Background(), func(tx Tx) error {
			return tx.InsertClaim(models.Claim{
				ID:           id,
				DonationID:   "don-" + id,
				NgoID:        "ngo-1",
				ClaimedAt:    claimedAt,
				PickupStatus: models.PickupClaimed,
			})
		}))
	}

	claims, err := svc.ListByNgo(context.Background(), "ngo-1")
	require.NoError(t, err)
	require.Len(t, claims, 3)
	require.Equal(t, "claim-new", claims[0].ID)
	require.Equal(t, "claim-mid", claims[1].ID)
	require.Equal(t, "claim-old", claims[2].ID)
}
