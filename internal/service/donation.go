package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"foodbridge-api-server/internal/models"
)

// Analysis is the freshness triage result attached to a new donation.
type Analysis struct {
	FreshnessRiskLevel  string
	PickupPriorityScore int
	Reason              string
}

// Analyzer scores a donation before it is written. Implementations must
// always return a usable result; oracle failures degrade to defaults
// internally and never surface here.
type Analyzer interface {
	Analyze(ctx context.Context, foodName, description string, availableTill time.Time) Analysis
}

// DonationService owns donation records and the available-donations view.
type DonationService struct {
	Store    Store
	Notifier Notifier
	Analyzer Analyzer
	Now      func() time.Time
}

func (s *DonationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

type CreateDonationInput struct {
	FoodName      string
	Quantity      string
	Address       string
	Latitude      *float64
	Longitude     *float64
	Description   string
	AvailableTill time.Time
	ImageURL      string
	VideoURL      string
}

// Create persists a new available donation. Media uploads and AI scoring
// happen before the write; the scoring falls back to defaults rather
// than blocking creation.
func (s *DonationService) Create(ctx context.Context, restaurantID string, in CreateDonationInput) (models.Donation, error) {
	analysis := s.Analyzer.Analyze(ctx, in.FoodName, in.Description, in.AvailableTill)

	till := in.AvailableTill
	donation := models.Donation{
		ID:                  uuid.NewString(),
		RestaurantID:        restaurantID,
		FoodName:            in.FoodName,
		Quantity:            in.Quantity,
		Address:             in.Address,
		Latitude:            in.Latitude,
		Longitude:           in.Longitude,
		Description:         in.Description,
		FreshnessRiskLevel:  analysis.FreshnessRiskLevel,
		PickupPriorityScore: analysis.PickupPriorityScore,
		AiAnalysisReason:    analysis.Reason,
		ImageURL:            in.ImageURL,
		VideoURL:            in.VideoURL,
		ProofImageURL:       "",
		AvailableTill:       &till,
		Status:              models.DonationAvailable,
		CompletedAt:         nil,
		CreatedAt:           s.now(),
	}

	if err := s.Store.InsertDonation(ctx, donation); err != nil {
		return models.Donation{}, err
	}

	s.Notifier.Notify(ctx, NotificationInput{
		RecipientKey: "role:ngo",
		ActorID:      restaurantID,
		ActorRole:    models.RoleRestaurant,
		DonationID:   donation.ID,
		Type:         models.NotifyNewDonation,
		Title:        "New Food Donation Available",
		Message:      fmt.Sprintf("%s is available for pickup at %s.", in.FoodName, in.Address),
	})

	return donation, nil
}

// ListAvailable returns claimable donations ordered for NGO triage:
// highest pickup priority first, then soonest deadline (donations with
// no deadline sort last), then newest first.
func (s *DonationService) ListAvailable(ctx context.Context) ([]models.Donation, error) {
	donations, err := s.Store.AvailableDonations(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(donations, func(i, j int) bool {
		a, b := donations[i], donations[j]
		if a.PickupPriorityScore != b.PickupPriorityScore {
			return a.PickupPriorityScore > b.PickupPriorityScore
		}
		aTill, bTill := deadlineOrMax(a.AvailableTill), deadlineOrMax(b.AvailableTill)
		if !aTill.Equal(bTill) {
			return aTill.Before(bTill)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return donations, nil
}

var farFuture = time.Unix(1<<62-1, 0)

func deadlineOrMax(t *time.Time) time.Time {
	if t == nil {
		return farFuture
	}
	return *t
}

// ListByRestaurant returns a restaurant's own donations, newest first.
func (s *DonationService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Donation, error) {
	donations, err := s.Store.DonationsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	sortDonationsByCreatedAtDesc(donations)
	return donations, nil
}

// ListAll is the admin view of every donation, newest first.
func (s *DonationService) ListAll(ctx context.Context) ([]models.Donation, error) {
	donations, err := s.Store.AllDonations(ctx)
	if err != nil {
		return nil, err
	}
	sortDonationsByCreatedAtDesc(donations)
	return donations, nil
}

func sortDonationsByCreatedAtDesc(donations []models.Donation) {
	sort.SliceStable(donations, func(i, j int) bool {
		return donations[i].CreatedAt.After(donations[j].CreatedAt)
	})
}

// SetStatus is the admin moderation override. It writes the status
// unconditionally, bypassing the claim coordinator's guards and the
// forward-only rule.
func (s *DonationService) SetStatus(ctx context.Context, donationID, status string) error {
	if !models.IsValidDonationStatus(status) {
		return ErrInvalidTransition
	}
	return s.Store.SetDonationStatus(ctx, donationID, status)
}

// Delete removes a donation. Only the posting restaurant or an admin may
// delete.
func (s *DonationService) Delete(ctx context.Context, donationID, actorID, actorRole string) error {
	donation, err := s.Store.DonationByID(ctx, donationID)
	if err != nil {
		return err
	}
	if actorRole != models.RoleAdmin && donation.RestaurantID != actorID {
		return ErrUnauthorized
	}
	return s.Store.DeleteDonation(ctx, donationID)
}
