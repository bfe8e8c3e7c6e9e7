package models

import "time"

// Pickup statuses mirrored onto the donation while a claim is active.
const (
	PickupClaimed    = "claimed"
	PickupInProgress = "in_progress"
	PickupCompleted  = "completed"
)

// Claim is an NGO's exclusive hold on one donation. At most one claim
// exists per donation while the donation is not available.
type Claim struct {
	ID            string     `bson:"_id" json:"id"`
	DonationID    string     `bson:"donationId" json:"donationId"`
	NgoID         string     `bson:"ngoId" json:"ngoId"`
	ClaimedAt     time.Time  `bson:"claimedAt" json:"claimedAt"`
	PickupStatus  string     `bson:"pickupStatus" json:"pickupStatus"`
	ProofImageURL string     `bson:"proofImageUrl" json:"proofImageUrl"`
	CompletedAt   *time.Time `bson:"completedAt,omitempty" json:"completedAt"`
}
