package transactionRepo

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

// MongoTransactionRepo implements TransactionRepository using MongoDB.
type MongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo creates a new instance of TransactionRepository using MongoDB.
func NewMongoTransactionRepo() TransactionRepository {
	coll := database.MongoClient.Database("finbook").Collection("transactions")
	repo := &MongoTransactionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoTransactionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "occurredAt", Value: -1}}},
		{Keys: bson.D{{Key: "cardId", Value: 1}, {Key: "occurredAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new transaction document.
func (r *MongoTransactionRepo) Create(txn *models.Transaction) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	txn.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByUserID retrieves all transactions belonging to a user, newest first.
func (r *MongoTransactionRepo) GetByUserID(userID string) ([]models.Transaction, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	for cursor.Next(ctx) {
		var t models.Transaction
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// SumCardSpend totals the bill-affecting transactions of a card inside [from, to).
func (r *MongoTransactionRepo) SumCardSpend(cardID string, from, to time.Time) (float64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"cardId":            cardID,
			"affectCurrentBill": true,
			"occurredAt":        bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum spend for card %s: %w", cardID, err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode spend total for card %s: %w", cardID, err)
		}
	}
	return result.Total, nil
}
