package service

import (
	"context"

	"foodbridge-api-server/internal/models"
)

// Tx is the view of the store inside one atomic transaction. Every read
// observes the transaction snapshot; writes apply only if the whole
// transaction commits.
type Tx interface {
	User(id string) (models.User, error)
	Donation(id string) (models.Donation, error)
	Claim(id string) (models.Claim, error)
	// Schedule looks up the pickup schedule keyed by claim id.
	Schedule(claimID string) (models.PickupSchedule, error)

	SaveDonation(d models.Donation) error
	InsertClaim(c models.Claim) error
	SaveClaim(c models.Claim) error
	SaveSchedule(s models.PickupSchedule) error
	// SaveRating is a create-or-replace keyed by donation id.
	SaveRating(r models.NgoRating) error
}

// Store is the persistence boundary for the donation lifecycle. Lookups
// return ErrNotFound when the entity is absent.
type Store interface {
	// InTransaction runs fn atomically. The implementation must retry a
	// bounded number of times on transient conflicts and otherwise
	// return fn's error unchanged.
	InTransaction(ctx context.Context, fn func(tx Tx) error) error

	InsertUser(ctx context.Context, u models.User) error
	UserByID(ctx context.Context, id string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	SaveUser(ctx context.Context, u models.User) error
	DeleteUser(ctx context.Context, id string) error
	Users(ctx context.Context) ([]models.User, error)
	UsersByRole(ctx context.Context, role string) ([]models.User, error)

	InsertDonation(ctx context.Context, d models.Donation) error
	DonationByID(ctx context.Context, id string) (models.Donation, error)
	AvailableDonations(ctx context.Context) ([]models.Donation, error)
	DonationsByRestaurant(ctx context.Context, restaurantID string) ([]models.Donation, error)
	AllDonations(ctx context.Context) ([]models.Donation, error)
	// SetDonationStatus is the unconditional admin override write.
	SetDonationStatus(ctx context.Context, id, status string) error
	DeleteDonation(ctx context.Context, id string) error

	ClaimByID(ctx context.Context, id string) (models.Claim, error)
	ClaimsByNgo(ctx context.Context, ngoID string) ([]models.Claim, error)

	ScheduleByClaimID(ctx context.Context, claimID string) (models.PickupSchedule, error)
	SaveSchedule(ctx context.Context, s models.PickupSchedule) error
	SchedulesByNgo(ctx context.Context, ngoID string) ([]models.PickupSchedule, error)
	SchedulesByRestaurant(ctx context.Context, restaurantID string) ([]models.PickupSchedule, error)

	RatingsByRestaurant(ctx context.Context, restaurantID string) ([]models.NgoRating, error)
	RatingsByNgo(ctx context.Context, ngoID string) ([]models.NgoRating, error)

	InsertNotification(ctx context.Context, n models.Notification) error
	NotificationsFor(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
}

// NotificationInput describes one best-effort notification. RecipientKey
// is a user id or a role broadcast marker such as "role:ngo".
type NotificationInput struct {
	RecipientKey string
	ActorID      string
	ActorRole    string
	DonationID   string
	Type         string
	Title        string
	Message      string
}

// Notifier is the fire-and-forget side channel triggered after commits.
// Implementations log failures and never return them.
type Notifier interface {
	Notify(ctx context.Context, in NotificationInput)
}
