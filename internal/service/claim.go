package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"foodbridge-api-server/internal/models"
)

// ClaimService runs the donation lifecycle state machine. Both of its
// mutations are single atomic transactions; preconditions are evaluated
// against the transaction snapshot, never against caller-supplied state.
type ClaimService struct {
	Store    Store
	Notifier Notifier
	Now      func() time.Time
}

func (s *ClaimService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Claim atomically marks an available donation as claimed by one NGO and
// creates the claim record. When several NGOs race for the same
// donation, exactly one transaction observes status "available" and
// commits; the rest fail with ErrAlreadyClaimed.
func (s *ClaimService) Claim(ctx context.Context, donationID, ngoID string) (models.Claim, error) {
	var claim models.Claim
	var donation models.Donation

	err := s.Store.InTransaction(ctx, func(tx Tx) error {
		ngo, err := tx.User(ngoID)
		if err != nil {
			return err
		}
		if ngo.Role != models.RoleNgo {
			return ErrUnauthorized
		}
		if !ngo.IsVerified {
			return ErrVerificationRequired
		}
		if ngo.AvailabilityStatus == models.AvailabilityBusy {
			return ErrNgoBusy
		}

		donation, err = tx.Donation(donationID)
		if err != nil {
			return err
		}
		if donation.Status != models.DonationAvailable {
			return ErrAlreadyClaimed
		}

		// Clear stale completion fields from any prior lifecycle.
		donation.Status = models.DonationClaimed
		donation.CompletedAt = nil
		donation.ProofImageURL = ""
		if err := tx.SaveDonation(donation); err != nil {
			return err
		}

		claim = models.Claim{
			ID:           uuid.NewString(),
			DonationID:   donationID,
			NgoID:        ngoID,
			ClaimedAt:    s.now(),
			PickupStatus: models.PickupClaimed,
		}
		return tx.InsertClaim(claim)
	})
	if err != nil {
		return models.Claim{}, err
	}

	s.Notifier.Notify(ctx, NotificationInput{
		RecipientKey: ngoID,
		ActorID:      ngoID,
		ActorRole:    models.RoleNgo,
		DonationID:   donationID,
		Type:         models.NotifyClaimConfirmed,
		Title:        "Donation Claim Confirmed",
		Message:      fmt.Sprintf("You claimed %s. Coordinate pickup at %s.", donation.FoodName, donation.Address),
	})
	s.Notifier.Notify(ctx, NotificationInput{
		RecipientKey: donation.RestaurantID,
		ActorID:      ngoID,
		ActorRole:    models.RoleNgo,
		DonationID:   donationID,
		Type:         models.NotifyDonationClaimed,
		Title:        "Donation Claimed",
		Message:      fmt.Sprintf("%s has been claimed by an NGO.", donation.FoodName),
	})

	return claim, nil
}

// AdvancePickupStatus moves a claim to in_progress or completed. Both
// steps require an approved pickup schedule for the claim; completion
// additionally requires a proof image URL uploaded before the
// transaction opens. The donation's status is kept mirror-consistent
// with the claim in the same transaction.
func (s *ClaimService) AdvancePickupStatus(ctx context.Context, claimID, ngoID, target, proofImageURL string) error {
	if target == models.PickupCompleted && proofImageURL == "" {
		return ErrProofRequired
	}

	var donation models.Donation
	var donationFound bool

	err := s.Store.InTransaction(ctx, func(tx Tx) error {
		claim, err := tx.Claim(claimID)
		if err != nil {
			return err
		}
		if claim.NgoID != ngoID {
			return ErrUnauthorized
		}

		switch target {
		case models.PickupInProgress:
			if claim.PickupStatus != models.PickupClaimed {
				return ErrInvalidTransition
			}
		case models.PickupCompleted:
			if claim.PickupStatus != models.PickupInProgress {
				return ErrInvalidTransition
			}
		default:
			return ErrInvalidTransition
		}

		schedule, err := tx.Schedule(claimID)
		if errors.Is(err, ErrNotFound) {
			return ErrScheduleMissing
		}
		if err != nil {
			return err
		}
		if schedule.NgoID != ngoID {
			return ErrUnauthorized
		}
		if schedule.Status != models.ScheduleApproved {
			return ErrScheduleNotApproved
		}

		now := s.now()
		claim.PickupStatus = target
		if target == models.PickupCompleted {
			claim.ProofImageURL = proofImageURL
			claim.CompletedAt = &now
		}
		if err := tx.SaveClaim(claim); err != nil {
			return err
		}

		donation, err = tx.Donation(claim.DonationID)
		if errors.Is(err, ErrNotFound) {
			// Donation removed by admin; the claim still advances.
			donationFound = false
			return nil
		}
		if err != nil {
			return err
		}
		donationFound = true

		donation.Status = target
		if target == models.PickupCompleted {
			donation.ProofImageURL = proofImageURL
			donation.CompletedAt = &now
		}
		return tx.SaveDonation(donation)
	})
	if err != nil {
		return err
	}

	if !donationFound {
		return nil
	}

	switch target {
	case models.PickupInProgress:
		s.Notifier.Notify(ctx, NotificationInput{
			RecipientKey: donation.RestaurantID,
			ActorID:      ngoID,
			ActorRole:    models.RoleNgo,
			DonationID:   donation.ID,
			Type:         models.NotifyDonationClaimed,
			Title:        "Pickup In Progress",
			Message:      fmt.Sprintf("%s pickup is in progress.", donation.FoodName),
		})
	case models.PickupCompleted:
		s.Notifier.Notify(ctx, NotificationInput{
			RecipientKey: ngoID,
			ActorID:      ngoID,
			ActorRole:    models.RoleNgo,
			DonationID:   donation.ID,
			Type:         models.NotifyPickupCompleted,
			Title:        "Pickup Completed",
			Message:      fmt.Sprintf("Pickup completed for %s.", donation.FoodName),
		})
		s.Notifier.Notify(ctx, NotificationInput{
			RecipientKey: donation.RestaurantID,
			ActorID:      ngoID,
			ActorRole:    models.RoleNgo,
			DonationID:   donation.ID,
			Type:         models.NotifyPickupCompleted,
			Title:        "Donation Completed with Proof",
			Message:      fmt.Sprintf("%s donation marked completed with proof image uploaded.", donation.FoodName),
		})
	}

	return nil
}

// ListByNgo returns an NGO's claims, most recent first.
func (s *ClaimService) ListByNgo(ctx context.Context, ngoID string) ([]models.Claim, error) {
	claims, err := s.Store.ClaimsByNgo(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].ClaimedAt.After(claims[j].ClaimedAt)
	})
	return claims, nil
}
