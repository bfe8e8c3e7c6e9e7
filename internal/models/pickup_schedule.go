package models

import "time"

// Schedule statuses. A rejected schedule may be replaced by a fresh
// proposal; pending and approved ones may not.
const (
	SchedulePending  = "pending"
	ScheduleApproved = "approved"
	ScheduleRejected = "rejected"
)

// PickupSchedule is keyed by its claim: the document _id IS the claim id,
// which enforces one schedule per claim.
type PickupSchedule struct {
	ID              string     `bson:"_id" json:"id"`
	ClaimID         string     `bson:"claimId" json:"claimId"`
	DonationID      string     `bson:"donationId" json:"donationId"`
	NgoID           string     `bson:"ngoId" json:"ngoId"`
	RestaurantID    string     `bson:"restaurantId" json:"restaurantId"`
	PickupTime      time.Time  `bson:"pickupTime" json:"pickupTime"`
	Status          string     `bson:"status" json:"status"`
	RejectionReason string     `bson:"rejectionReason" json:"rejectionReason"`
	RequestedAt     time.Time  `bson:"requestedAt" json:"requestedAt"`
	DecidedAt       *time.Time `bson:"decidedAt,omitempty" json:"decidedAt"`
}
