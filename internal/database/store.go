// server/internal/database/store.go
package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodbridge-api-server/internal/models"
	"foodbridge-api-server/internal/service"
)

// MongoStore implements service.Store on top of MongoDB multi-document
// transactions.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{client: client, db: db}
}

const maxTxnAttempts = 4

var errTxnRetriesExhausted = errors.New("transaction retries exhausted")

// isTransientTxnError reports whether the server asked us to retry the
// whole transaction (write conflict, unknown commit result, ...).
func isTransientTxnError(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel("TransientTransactionError") ||
			serverErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}

// InTransaction runs fn inside one MongoDB transaction with snapshot
// reads. Transient conflicts are retried a bounded number of times with
// exponential backoff; precondition failures from fn abort immediately
// and come back unchanged.
func (s *MongoStore) InTransaction(ctx context.Context, fn func(tx service.Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	return mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		backoff := 10 * time.Millisecond
		for attempt := 0; attempt < maxTxnAttempts; attempt++ {
			if attempt > 0 {
				time.Sleep(backoff)
				backoff *= 2
			}

			if err := session.StartTransaction(); err != nil {
				return err
			}

			if err := fn(&mongoTx{db: s.db, ctx: sessCtx}); err != nil {
				_ = session.AbortTransaction(sessCtx)
				if isTransientTxnError(err) {
					continue
				}
				return err
			}

			err := session.CommitTransaction(sessCtx)
			if err == nil {
				return nil
			}
			if !isTransientTxnError(err) {
				return err
			}
		}
		return errTxnRetriesExhausted
	})
}

// mongoTx gives the transaction callback session-scoped reads/writes.
type mongoTx struct {
	db  *mongo.Database
	ctx mongo.SessionContext
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return service.ErrNotFound
	}
	return err
}

func (t *mongoTx) User(id string) (models.User, error) {
	var u models.User
	err := t.db.Collection(CollUsers).FindOne(t.ctx, bson.M{"_id": id}).Decode(&u)
	return u, mapNotFound(err)
}

func (t *mongoTx) Donation(id string) (models.Donation, error) {
	var d models.Donation
	err := t.db.Collection(CollDonations).FindOne(t.ctx, bson.M{"_id": id}).Decode(&d)
	return d, mapNotFound(err)
}

func (t *mongoTx) Claim(id string) (models.Claim, error) {
	var c models.Claim
	err := t.db.Collection(CollClaims).FindOne(t.ctx, bson.M{"_id": id}).Decode(&c)
	return c, mapNotFound(err)
}

func (t *mongoTx) Schedule(claimID string) (models.PickupSchedule, error) {
	var sched models.PickupSchedule
	err := t.db.Collection(CollSchedules).FindOne(t.ctx, bson.M{"_id": claimID}).Decode(&sched)
	return sched, mapNotFound(err)
}

func (t *mongoTx) SaveDonation(d models.Donation) error {
	_, err := t.db.Collection(CollDonations).ReplaceOne(t.ctx, bson.M{"_id": d.ID}, d)
	return err
}

func (t *mongoTx) InsertClaim(c models.Claim) error {
	_, err := t.db.Collection(CollClaims).InsertOne(t.ctx, c)
	return err
}

func (t *mongoTx) SaveClaim(c models.Claim) error {
	_, err := t.db.Collection(CollClaims).ReplaceOne(t.ctx, bson.M{"_id": c.ID}, c)
	return err
}

func (t *mongoTx) SaveSchedule(s models.PickupSchedule) error {
	_, err := t.db.Collection(CollSchedules).ReplaceOne(t.ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	return err
}

func (t *mongoTx) SaveRating(r models.NgoRating) error {
	_, err := t.db.Collection(CollRatings).ReplaceOne(t.ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	return err
}

// --- Plain (non-transactional) store operations ---

func (s *MongoStore) InsertUser(ctx context.Context, u models.User) error {
	_, err := s.db.Collection(CollUsers).InsertOne(ctx, u)
	return err
}

func (s *MongoStore) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.Collection(CollUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, mapNotFound(err)
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.Collection(CollUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, mapNotFound(err)
}

func (s *MongoStore) SaveUser(ctx context.Context, u models.User) error {
	res, err := s.db.Collection(CollUsers).ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.Collection(CollUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Users(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.db.Collection(CollUsers), bson.M{})
}

func (s *MongoStore) UsersByRole(ctx context.Context, role string) ([]models.User, error) {
	return findAll[models.User](ctx, s.db.Collection(CollUsers), bson.M{"role": role})
}

func (s *MongoStore) InsertDonation(ctx context.Context, d models.Donation) error {
	_, err := s.db.Collection(CollDonations).InsertOne(ctx, d)
	return err
}

func (s *MongoStore) DonationByID(ctx context.Context, id string) (models.Donation, error) {
	var d models.Donation
	err := s.db.Collection(CollDonations).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	return d, mapNotFound(err)
}

func (s *MongoStore) AvailableDonations(ctx context.Context) ([]models.Donation, error) {
	return findAll[models.Donation](ctx, s.db.Collection(CollDonations), bson.M{"status": models.DonationAvailable})
}

func (s *MongoStore) DonationsByRestaurant(ctx context.Context, restaurantID string) ([]models.Donation, error) {
	return findAll[models.Donation](ctx, s.db.Collection(CollDonations), bson.M{"restaurantId": restaurantID})
}

func (s *MongoStore) AllDonations(ctx context.Context) ([]models.Donation, error) {
	return findAll[models.Donation](ctx, s.db.Collection(CollDonations), bson.M{})
}

// SetDonationStatus is the admin override: a bare status write with no
// lifecycle guard.
func (s *MongoStore) SetDonationStatus(ctx context.Context, id, status string) error {
	res, err := s.db.Collection(CollDonations).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteDonation(ctx context.Context, id string) error {
	res, err := s.db.Collection(CollDonations).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *MongoStore) ClaimByID(ctx context.Context, id string) (models.Claim, error) {
	var c models.Claim
	err := s.db.Collection(CollClaims).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, mapNotFound(err)
}

func (s *MongoStore) ClaimsByNgo(ctx context.Context, ngoID string) ([]models.Claim, error) {
	return findAll[models.Claim](ctx, s.db.Collection(CollClaims), bson.M{"ngoId": ngoID})
}

func (s *MongoStore) ScheduleByClaimID(ctx context.Context, claimID string) (models.PickupSchedule, error) {
	var sched models.PickupSchedule
	err := s.db.Collection(CollSchedules).FindOne(ctx, bson.M{"_id": claimID}).Decode(&sched)
	return sched, mapNotFound(err)
}

func (s *MongoStore) SaveSchedule(ctx context.Context, sched models.PickupSchedule) error {
	_, err := s.db.Collection(CollSchedules).ReplaceOne(ctx, bson.M{"_id": sched.ID}, sched, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) SchedulesByNgo(ctx context.Context, ngoID string) ([]models.PickupSchedule, error) {
	return findAll[models.PickupSchedule](ctx, s.db.Collection(CollSchedules), bson.M{"ngoId": ngoID})
}

func (s *MongoStore) SchedulesByRestaurant(ctx context.Context, restaurantID string) ([]models.PickupSchedule, error) {
	return findAll[models.PickupSchedule](ctx, s.db.Collection(CollSchedules), bson.M{"restaurantId": restaurantID})
}

func (s *MongoStore) RatingsByRestaurant(ctx context.Context, restaurantID string) ([]models.NgoRating, error) {
	return findAll[models.NgoRating](ctx, s.db.Collection(CollRatings), bson.M{"restaurantId": restaurantID})
}

func (s *MongoStore) RatingsByNgo(ctx context.Context, ngoID string) ([]models.NgoRating, error) {
	return findAll[models.NgoRating](ctx, s.db.Collection(CollRatings), bson.M{"ngoId": ngoID})
}

func (s *MongoStore) InsertNotification(ctx context.Context, n models.Notification) error {
	_, err := s.db.Collection(CollNotifications).InsertOne(ctx, n)
	return err
}

func (s *MongoStore) NotificationsFor(ctx context.Context, userID string) ([]models.Notification, error) {
	cursor, err := s.db.Collection(CollNotifications).Find(ctx,
		bson.M{"recipientKey": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Notification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res, err := s.db.Collection(CollNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "recipientKey": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]T, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
