package service

import "errors"

// Terminal errors surfaced by the lifecycle services. Handlers map these
// to HTTP statuses; none of them are retried automatically.
var (
	ErrNotFound     = errors.New("referenced entity does not exist")
	ErrUnauthorized = errors.New("you are not authorized to perform this action")

	// NGO eligibility gates checked inside the claim transaction.
	ErrVerificationRequired = errors.New("NGO verification is pending or rejected, contact admin")
	ErrNgoBusy              = errors.New("set your NGO status to available before claiming donations")

	// State-machine guards.
	ErrAlreadyClaimed    = errors.New("donation has already been claimed")
	ErrInvalidTransition = errors.New("pickup status cannot move backwards or skip a step")
	ErrNotPending        = errors.New("only pending schedules can be reviewed")

	// Cross-entity schedule gating.
	ErrScheduleMissing         = errors.New("pickup schedule is required before updating pickup progress")
	ErrScheduleNotApproved     = errors.New("restaurant approval is required before pickup can start")
	ErrScheduleAlreadyPending  = errors.New("pickup schedule is already pending restaurant approval")
	ErrScheduleAlreadyApproved = errors.New("pickup schedule is already approved by restaurant")

	// Input validation.
	ErrInvalidTime    = errors.New("pickup time must be a valid moment in the future")
	ErrInvalidRating  = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidMapping = errors.New("invalid donation and NGO mapping for rating")
	ErrProofRequired  = errors.New("proof image is required before marking completed")

	// Lifecycle mismatches.
	ErrDonationAlreadyCompleted = errors.New("completed donations cannot be scheduled")
	ErrDonationNotCompleted     = errors.New("NGO can be rated only after donation completion")
)
