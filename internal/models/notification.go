package models

import "time"

// Notification types written by the fan-out.
const (
	NotifyNewDonation       = "new_donation"
	NotifyDonationClaimed   = "donation_claimed"
	NotifyClaimConfirmed    = "claim_confirmed"
	NotifyPickupCompleted   = "pickup_completed"
	NotifyScheduleRequested = "schedule_requested"
	NotifyScheduleApproved  = "schedule_approved"
	NotifyScheduleRejected  = "schedule_rejected"
)

// Notification is a best-effort inbox record. RecipientKey is a user id;
// role broadcasts ("role:ngo") are expanded into one document per user
// before the write.
type Notification struct {
	ID           string    `bson:"_id" json:"id"`
	RecipientKey string    `bson:"recipientKey" json:"recipientKey"`
	ActorID      string    `bson:"actorId" json:"actorId"`
	ActorRole    string    `bson:"actorRole" json:"actorRole"`
	DonationID   string    `bson:"donationId" json:"donationId"`
	Type         string    `bson:"type" json:"type"`
	Title        string    `bson:"title" json:"title"`
	Message      string    `bson:"message" json:"message"`
	Read         bool      `bson:"read" json:"read"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
