package models

import "time"

// Roles known to the platform.
const (
	RoleRestaurant = "restaurant"
	RoleNgo        = "ngo"
	RoleAdmin      = "admin"
)

// NGO availability values.
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
)

// User matches the document in MongoDB.
type User struct {
	ID                 string    `bson:"_id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	Email              string    `bson:"email" json:"email"`
	Password           string    `bson:"password" json:"-"`
	Role               string    `bson:"role" json:"role"`
	IsVerified         bool      `bson:"isVerified" json:"isVerified"`
	AvailabilityStatus string    `bson:"availabilityStatus" json:"availabilityStatus"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}
