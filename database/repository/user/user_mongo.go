package userRepo

import (
	"context"
	"fmt"
	"time"

	"finbook/database"
	"finbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database("finbook").Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDWithProjection retrieves a user by its unique ID using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// GetLocale returns the user's preferred locale, or "" when unset.
func (r *MongoUserRepo) GetLocale(id string) (string, error) {
	user, err := r.GetByIDWithProjection(id, bson.M{"locale": 1})
	if err != nil {
		return "", err
	}
	return user.Locale, nil
}

// GetDeviceTokens returns all non-empty FCM tokens registered for the user.
func (r *MongoUserRepo) GetDeviceTokens(id string) ([]string, error) {
	user, err := r.GetByIDWithProjection(id, bson.M{"devices": 1})
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, d := range user.Devices {
		if d.FCMToken != "" {
			tokens = append(tokens, d.FCMToken)
		}
	}
	return tokens, nil
}

// GetVerifiedEmail returns the user's email, or "" when missing or unverified.
func (r *MongoUserRepo) GetVerifiedEmail(id string) (string, error) {
	user, err := r.GetByIDWithProjection(id, bson.M{"email": 1, "emailVerified": 1})
	if err != nil {
		return "", err
	}
	if !user.EmailVerified {
		return "", nil
	}
	return user.Email, nil
}

// SetEmailVerified marks the user's email address as verified.
func (r *MongoUserRepo) SetEmailVerified(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"emailVerified": true, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to verify email for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// upsertDevicePipeline builds the update that drops any existing entry with
// the device's ID and appends the new one. A single pipeline update keeps
// the replace atomic within the document, so concurrent registrations of the
// same device cannot leave duplicates.
func upsertDevicePipeline(device models.Device) mongo.Pipeline {
	keep := bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$devices", bson.A{}}},
		"as":    "d",
		"cond":  bson.M{"$ne": bson.A{"$$d.deviceId", device.DeviceID}},
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"devices":   bson.M{"$concatArrays": bson.A{keep, bson.A{bson.M{"$literal": device}}}},
			"updatedAt": "$$NOW",
		}}},
	}
}

// UpsertDevice registers or refreshes one of the user's devices. Any prior
// entry with the same deviceId is replaced.
func (r *MongoUserRepo) UpsertDevice(id string, device models.Device) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, upsertDevicePipeline(device))
	if err != nil {
		return fmt.Errorf("failed to register device for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(user *models.User) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies an existing user document.
func (r *MongoUserRepo) Update(user *models.User) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	user.UpdatedAt = time.Now()
	filter := bson.M{"id": user.ID}
	update := bson.M{"$set": user}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", user.ID)
	}
	return nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// GetByID retrieves a user by its unique ID (full document).
func (r *MongoUserRepo) GetByID(id string) (*models.User, error) {
	return r.GetByIDWithProjection(id, nil)
}

// GetByEmail retrieves a user by its email address (full document).
func (r *MongoUserRepo) GetByEmail(email string) (*models.User, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user with email %s: %w", email, err)
	}
	return &user, nil
}
