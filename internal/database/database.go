// server/internal/database/database.go
package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodbridge-api-server/config"
)

// Collection names used across the store.
const (
	CollUsers         = "users"
	CollDonations     = "donations"
	CollClaims        = "claims"
	CollSchedules     = "schedules"
	CollRatings       = "ratings"
	CollNotifications = "notifications"
)

// Connect opens the MongoDB client and verifies the connection.
func Connect(cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	return client, client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the indexes the lifecycle queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(CollUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollDonations).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "restaurantId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollClaims).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "donationId", Value: 1}}},
		{Keys: bson.D{{Key: "ngoId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollSchedules).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ngoId", Value: 1}}},
		{Keys: bson.D{{Key: "restaurantId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollRatings).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ngoId", Value: 1}}},
		{Keys: bson.D{{Key: "restaurantId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipientKey", Value: 1}},
	})
	return err
}
