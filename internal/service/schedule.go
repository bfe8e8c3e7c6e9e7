package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"foodbridge-api-server/internal/models"
)

// ScheduleService negotiates pickup times between NGO and restaurant.
// Per claim: pending -> approved | rejected, and only a rejected (or
// absent) schedule can be replaced by a fresh proposal.
type ScheduleService struct {
	Store    Store
	Notifier Notifier
	Now      func() time.Time
}

func (s *ScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Layouts accepted for proposed pickup times. The first two carry
// seconds; the rest are minute-precision form inputs.
var pickupTimeLayouts = []struct {
	layout     string
	hasSeconds bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", false},
	{"02/01/2006 15:04", false},
	{"02-01-2006 15:04", false},
}

// ParsePickupTime parses a proposed pickup time and verifies it lies in
// the future. Minute-precision inputs are treated as the last second of
// that minute, so picking the current minute does not spuriously fail.
func ParsePickupTime(raw string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, candidate := range pickupTimeLayouts {
		parsed, err := time.ParseInLocation(candidate.layout, trimmed, time.Local)
		if err != nil {
			continue
		}
		if !candidate.hasSeconds {
			parsed = parsed.Add(59*time.Second + 999*time.Millisecond)
		}
		if !parsed.After(now) {
			return time.Time{}, ErrInvalidTime
		}
		return parsed, nil
	}
	return time.Time{}, ErrInvalidTime
}

// Request proposes a pickup time for a claim. The schedule document is
// keyed by the claim id, so a resubmission after rejection overwrites
// the old proposal and clears its rejection reason.
func (s *ScheduleService) Request(ctx context.Context, claimID, ngoID, rawPickupTime string) (models.PickupSchedule, error) {
	pickupTime, err := ParsePickupTime(rawPickupTime, s.now())
	if err != nil {
		return models.PickupSchedule{}, err
	}

	claim, err := s.Store.ClaimByID(ctx, claimID)
	if err != nil {
		return models.PickupSchedule{}, err
	}
	if claim.NgoID != ngoID {
		return models.PickupSchedule{}, ErrUnauthorized
	}

	donation, err := s.Store.DonationByID(ctx, claim.DonationID)
	if err != nil {
		return models.PickupSchedule{}, err
	}
	if donation.Status == models.DonationCompleted {
		return models.PickupSchedule{}, ErrDonationAlreadyCompleted
	}

	existing, err := s.Store.ScheduleByClaimID(ctx, claimID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.PickupSchedule{}, err
	}
	if err == nil && existing.NgoID == ngoID {
		switch existing.Status {
		case models.SchedulePending:
			return models.PickupSchedule{}, ErrScheduleAlreadyPending
		case models.ScheduleApproved:
			return models.PickupSchedule{}, ErrScheduleAlreadyApproved
		}
	}

	schedule := models.PickupSchedule{
		ID:              claimID,
		ClaimID:         claimID,
		DonationID:      claim.DonationID,
		NgoID:           ngoID,
		RestaurantID:    donation.RestaurantID,
		PickupTime:      pickupTime,
		Status:          models.SchedulePending,
		RejectionReason: "",
		RequestedAt:     s.now(),
		DecidedAt:       nil,
	}
	if err := s.Store.SaveSchedule(ctx, schedule); err != nil {
		return models.PickupSchedule{}, err
	}

	s.Notifier.Notify(ctx, NotificationInput{
		RecipientKey: donation.RestaurantID,
		ActorID:      ngoID,
		ActorRole:    models.RoleNgo,
		DonationID:   claim.DonationID,
		Type:         models.NotifyScheduleRequested,
		Title:        "Pickup Slot Requested",
		Message:      fmt.Sprintf("NGO requested pickup for %s. Review the schedule request.", donation.FoodName),
	})

	return schedule, nil
}

// Review records the restaurant's decision on a pending schedule in one
// atomic transaction. Decided schedules cannot be re-reviewed.
func (s *ScheduleService) Review(ctx context.Context, scheduleID, restaurantID, decision, rejectionReason string) error {
	if decision != models.ScheduleApproved && decision != models.ScheduleRejected {
		return ErrInvalidTransition
	}

	var schedule models.PickupSchedule

	err := s.Store.InTransaction(ctx, func(tx Tx) error {
		var err error
		schedule, err = tx.Schedule(scheduleID)
		if err != nil {
			return err
		}
		if schedule.RestaurantID != restaurantID {
			return ErrUnauthorized
		}
		if schedule.Status != models.SchedulePending {
			return ErrNotPending
		}

		now := s.now()
		schedule.Status = decision
		schedule.DecidedAt = &now
		if decision == models.ScheduleRejected {
			schedule.RejectionReason = strings.TrimSpace(rejectionReason)
		} else {
			schedule.RejectionReason = ""
		}
		return tx.SaveSchedule(schedule)
	})
	if err != nil {
		return err
	}

	donation, err := s.Store.DonationByID(ctx, schedule.DonationID)
	if err != nil {
		// Schedule decision stands even if the donation vanished.
		return nil
	}

	title := "Pickup Slot Approved"
	message := fmt.Sprintf("Restaurant approved your pickup slot for %s.", donation.FoodName)
	notifType := models.NotifyScheduleApproved
	if decision == models.ScheduleRejected {
		title = "Pickup Slot Rejected"
		message = fmt.Sprintf("Restaurant rejected your pickup slot for %s.", donation.FoodName)
		notifType = models.NotifyScheduleRejected
	}
	s.Notifier.Notify(ctx, NotificationInput{
		RecipientKey: schedule.NgoID,
		ActorID:      restaurantID,
		ActorRole:    models.RoleRestaurant,
		DonationID:   schedule.DonationID,
		Type:         notifType,
		Title:        title,
		Message:      message,
	})

	return nil
}

// ListByNgo returns an NGO's schedules, most recently requested first.
func (s *ScheduleService) ListByNgo(ctx context.Context, ngoID string) ([]models.PickupSchedule, error) {
	schedules, err := s.Store.SchedulesByNgo(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	sortSchedulesByRequestedAtDesc(schedules)
	return schedules, nil
}

// ListByRestaurant returns the schedules awaiting or holding a
// restaurant's decision, most recently requested first.
func (s *ScheduleService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.PickupSchedule, error) {
	schedules, err := s.Store.SchedulesByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	sortSchedulesByRequestedAtDesc(schedules)
	return schedules, nil
}

func sortSchedulesByRequestedAtDesc(schedules []models.PickupSchedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		return schedules[i].RequestedAt.After(schedules[j].RequestedAt)
	})
}
