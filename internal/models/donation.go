package models

import "time"

// Donation lifecycle statuses. Status only moves forward:
// available -> claimed -> in_progress -> completed.
const (
	DonationAvailable  = "available"
	DonationClaimed    = "claimed"
	DonationInProgress = "in_progress"
	DonationCompleted  = "completed"
)

// Freshness risk levels assigned by the AI analyzer (or its fallback).
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

type Donation struct {
	ID                 string     `bson:"_id" json:"id"`
	RestaurantID       string     `bson:"restaurantId" json:"restaurantId"`
	FoodName           string     `bson:"foodName" json:"foodName"`
	Quantity           string     `bson:"quantity" json:"quantity"`
	Address            string     `bson:"address" json:"address"`
	Latitude           *float64   `bson:"latitude,omitempty" json:"latitude"`
	Longitude          *float64   `bson:"longitude,omitempty" json:"longitude"`
	Description        string     `bson:"description" json:"description"`
	FreshnessRiskLevel string     `bson:"freshnessRiskLevel" json:"freshnessRiskLevel"`
	PickupPriorityScore int       `bson:"pickupPriorityScore" json:"pickupPriorityScore"`
	AiAnalysisReason   string     `bson:"aiAnalysisReason" json:"aiAnalysisReason"`
	ImageURL           string     `bson:"imageUrl" json:"imageUrl"`
	VideoURL           string     `bson:"videoUrl" json:"videoUrl"`
	ProofImageURL      string     `bson:"proofImageUrl" json:"proofImageUrl"`
	AvailableTill      *time.Time `bson:"availableTill,omitempty" json:"availableTill"`
	Status             string     `bson:"status" json:"status"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
}

// IsValidDonationStatus reports whether s is one of the four lifecycle states.
func IsValidDonationStatus(s string) bool {
	switch s {
	case DonationAvailable, DonationClaimed, DonationInProgress, DonationCompleted:
		return true
	}
	return false
}
