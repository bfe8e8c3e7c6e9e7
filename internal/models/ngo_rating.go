package models

import "time"

// NgoRating is keyed by donation: the document _id IS the donation id, so
// a donation can carry exactly one rating. A re-submit replaces the
// previous document rather than failing, which tolerates UI retries.
type NgoRating struct {
	ID           string    `bson:"_id" json:"id"`
	DonationID   string    `bson:"donationId" json:"donationId"`
	ClaimID      string    `bson:"claimId" json:"claimId"`
	NgoID        string    `bson:"ngoId" json:"ngoId"`
	RestaurantID string    `bson:"restaurantId" json:"restaurantId"`
	Rating       int       `bson:"rating" json:"rating"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NgoRatingSummary aggregates ratings received by one NGO.
type NgoRatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}
