package service

import (
	"context"
	"errors"
	"math"
	"time"

	"foodbridge-api-server/internal/models"
)

// RatingService lets a restaurant rate the NGO that completed one of its
// donations. The rating document is keyed by donation id, so exactly one
// rating exists per donation; a re-submit replaces it.
type RatingService struct {
	Store Store
	Now   func() time.Time
}

func (s *RatingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

type SubmitRatingInput struct {
	DonationID   string
	ClaimID      string
	NgoID        string
	RestaurantID string
	Rating       int
}

// Submit validates and writes the rating in one atomic transaction. The
// donation must be completed and the claim's schedule must match the
// supplied donation/NGO/restaurant triple exactly.
func (s *RatingService) Submit(ctx context.Context, in SubmitRatingInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return ErrInvalidRating
	}

	return s.Store.InTransaction(ctx, func(tx Tx) error {
		donation, err := tx.Donation(in.DonationID)
		if err != nil {
			return err
		}

		schedule, err := tx.Schedule(in.ClaimID)
		if errors.Is(err, ErrNotFound) {
			return ErrScheduleMissing
		}
		if err != nil {
			return err
		}

		if donation.RestaurantID != in.RestaurantID {
			return ErrUnauthorized
		}
		if donation.Status != models.DonationCompleted {
			return ErrDonationNotCompleted
		}
		if schedule.DonationID != in.DonationID || schedule.NgoID != in.NgoID {
			return ErrInvalidMapping
		}
		if schedule.RestaurantID != in.RestaurantID {
			return ErrInvalidMapping
		}

		now := s.now()
		return tx.SaveRating(models.NgoRating{
			ID:           in.DonationID,
			DonationID:   in.DonationID,
			ClaimID:      in.ClaimID,
			NgoID:        in.NgoID,
			RestaurantID: in.RestaurantID,
			Rating:       in.Rating,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
}

// ListByRestaurant returns the ratings a restaurant has given.
func (s *RatingService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.NgoRating, error) {
	return s.Store.RatingsByRestaurant(ctx, restaurantID)
}

// SummaryForNgo aggregates the ratings an NGO has received. The average
// is rounded to one decimal.
func (s *RatingService) SummaryForNgo(ctx context.Context, ngoID string) (models.NgoRatingSummary, error) {
	ratings, err := s.Store.RatingsByNgo(ctx, ngoID)
	if err != nil {
		return models.NgoRatingSummary{}, err
	}
	if len(ratings) == 0 {
		return models.NgoRatingSummary{}, nil
	}

	total := 0
	for _, r := range ratings {
		total += r.Rating
	}
	average := float64(total) / float64(len(ratings))
	return models.NgoRatingSummary{
		AverageRating: math.Round(average*10) / 10,
		TotalRatings:  len(ratings),
	}, nil
}
