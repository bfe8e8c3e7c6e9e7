package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodbridge-api-server/internal/models"
)

// TestFullDonationLifecycle walks one donation through the whole state
// machine: post, contested claim, rejected then approved schedule,
// pickup with proof, rating and re-rating.
func TestFullDonationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	notifier := &RecordingNotifier{}

	donations := newDonationService(store, notifier)
	claims := newClaimService(store, notifier)
	schedules := &ScheduleService{Store: store, Notifier: notifier, Now: fixedNow}
	ratings := &RatingService{Store: store, Now: fixedNow}

	seedUser(t, store, "rest-1", models.RoleRestaurant, true, models.AvailabilityAvailable)
	seedUser(t, store, "ngo-1", models.RoleNgo, true, models.AvailabilityAvailable)
	seedUser(t, store, "ngo-2", models.RoleNgo, true, models.AvailabilityAvailable)

	donation, err := donations.Create(ctx, "rest-1", CreateDonationInput{
		FoodName:      "Dal and Rice",
		Quantity:      "20 portions",
		Address:       "12 Market Street",
		AvailableTill: testTime.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	// Two NGOs race for the donation; exactly one wins.
	var wg sync.WaitGroup
	results := make(map[string]error, 2)
	claimsByNgo := make(map[string]models.Claim, 2)
	var mu sync.Mutex
	for _, ngoID := range []string{"ngo-1", "ngo-2"} {
		wg.Add(1)
		go func(ngoID string) {
			defer wg.Done()
			claim, err := claims.Claim(ctx, donation.ID, ngoID)
			mu.Lock()
			results[ngoID] = err
			claimsByNgo[ngoID] = claim
			mu.Unlock()
		}(ngoID)
	}
	wg.Wait()

	var winner string
	for ngoID, err := range results {
		if err == nil {
			require.Empty(t, winner, "two claims committed")
			winner = ngoID
		} else {
			require.ErrorIs(t, err, ErrAlreadyClaimed)
		}
	}
	require.NotEmpty(t, winner)
	require.Len(t, store.ClaimsByDonation(donation.ID), 1)
	claim := claimsByNgo[winner]

	// Pickup cannot start before a schedule exists and is approved.
	err = claims.AdvancePickupStatus(ctx, claim.ID, winner, models.PickupInProgress, "")
	require.ErrorIs(t, err, ErrScheduleMissing)

	_, err = schedules.Request(ctx, claim.ID, winner, testTime.Add(1*time.Hour).Format(time.RFC3339))
	require.NoError(t, err)

	err = claims.AdvancePickupStatus(ctx, claim.ID, winner, models.PickupInProgress, "")
	require.ErrorIs(t, err, ErrScheduleNotApproved)

	// Restaurant rejects the first slot; the NGO proposes a later one.
	require.NoError(t, schedules.Review(ctx, claim.ID, "rest-1", models.ScheduleRejected, "too early"))
	_, err = schedules.Request(ctx, claim.ID, winner, testTime.Add(2*time.Hour).Format(time.RFC3339))
	require.NoError(t, err)
	require.NoError(t, schedules.Review(ctx, claim.ID, "rest-1", models.ScheduleApproved, ""))

	require.NoError(t, claims.AdvancePickupStatus(ctx, claim.ID, winner, models.PickupInProgress, ""))
	require.NoError(t, claims.AdvancePickupStatus(ctx, claim.ID, winner, models.PickupCompleted, "https://cdn.example.com/proof.jpg"))

	final, err := store.DonationByID(ctx, donation.ID)
	require.NoError(t, err)
	require.Equal(t, models.DonationCompleted, final.Status)
	require.NotNil(t, final.CompletedAt)

	// Rating works now that the donation is completed, and a re-submit
	// overwrites the first value.
	in := SubmitRatingInput{
		DonationID:   donation.ID,
		ClaimID:      claim.ID,
		NgoID:        winner,
		RestaurantID: "rest-1",
		Rating:       4,
	}
	require.NoError(t, ratings.Submit(ctx, in))
	in.Rating = 5
	require.NoError(t, ratings.Submit(ctx, in))

	summary, err := ratings.SummaryForNgo(ctx, winner)
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalRatings)
	require.Equal(t, 5.0, summary.AverageRating)

	// The donation is no longer claimable.
	_, err = claims.Claim(ctx, donation.ID, winner)
	require.ErrorIs(t, err, ErrAlreadyClaimed)
}
