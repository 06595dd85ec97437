package notificationRepo

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

// MongoNotificationRepo implements NotificationRepository using MongoDB.
// Dedup records and log entries live in separate collections: dedup is a
// keyed upsert store, the log is append-only.
type MongoNotificationRepo struct {
	dedup *mongo.Collection
	logs  *mongo.Collection
}

// NewMongoNotificationRepo creates a new instance of NotificationRepository using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.MongoClient.Database("finbook")
	repo := &MongoNotificationRepo{
		dedup: db.Collection("notification_dedup"),
		logs:  db.Collection("notifications"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.dedup.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create dedup index: %w", err)
	}

	if _, err := r.logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "sentAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create notification log indexes: %w", err)
	}
	return nil
}

// GetDedup retrieves the dedup record stored at key, or nil when absent.
func (r *MongoNotificationRepo) GetDedup(key string) (*models.DedupRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var rec models.DedupRecord
	if err := r.dedup.FindOne(ctx, bson.M{"key": key}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch dedup record %s: %w", key, err)
	}
	return &rec, nil
}

// UpsertDedup writes the dedup record at its key, replacing any prior one.
func (r *MongoNotificationRepo) UpsertDedup(rec *models.DedupRecord) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.dedup.ReplaceOne(ctx, bson.M{"key": rec.Key}, rec, opts); err != nil {
		return fmt.Errorf("failed to upsert dedup record %s: %w", rec.Key, err)
	}
	return nil
}

// InsertLog appends an audit log entry.
func (r *MongoNotificationRepo) InsertLog(entry *models.NotificationLog) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.logs.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert notification log: %w", err)
	}
	return nil
}

// ListByUser returns a user's log entries, newest first, capped at limit.
func (r *MongoNotificationRepo) ListByUser(userID string, limit int64) ([]models.NotificationLog, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.logs.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var entries []models.NotificationLog
	for cursor.Next(ctx) {
		var e models.NotificationLog
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode notification log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// CountUnread returns the number of unread entries for a user.
func (r *MongoNotificationRepo) CountUnread(userID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.logs.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// MarkRead flips one of the user's entries to read.
func (r *MongoNotificationRepo) MarkRead(userID, id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.logs.UpdateOne(ctx,
		bson.M{"id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("notification %s not found for user %s", id, userID)
	}
	return nil
}
