// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"foodbridge-api-server/internal/auth"
	"foodbridge-api-server/internal/models"
)

// SeedAdmin creates the platform admin account on first start. The admin
// cannot be registered through the public API.
func SeedAdmin(db *mongo.Database) error {
	userCollection := db.Collection(CollUsers)
	adminEmail := "admin@foodbridge.local"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": adminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("adminpassword")
	if err != nil {
		return err
	}

	admin := models.User{
		ID:                 uuid.NewString(),
		Name:               "FoodBridge Admin",
		Email:              adminEmail,
		Password:           hashedPassword,
		Role:               models.RoleAdmin,
		IsVerified:         true,
		AvailabilityStatus: models.AvailabilityAvailable,
		CreatedAt:          time.Now().UTC(),
	}

	_, err = userCollection.InsertOne(context.Background(), admin)
	if err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}
