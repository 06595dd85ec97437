package cardRepo

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

// MongoCardRepo implements CardRepository using MongoDB.
type MongoCardRepo struct {
	coll *mongo.Collection
}

// NewMongoCardRepo creates a new instance of CardRepository using MongoDB.
func NewMongoCardRepo() CardRepository {
	coll := database.MongoClient.Database("finbook").Collection("cards")
	repo := &MongoCardRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCardRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a card by its unique ID.
func (r *MongoCardRepo) GetByID(id string) (*models.Card, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var card models.Card
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to fetch card with id %s: %w", id, err)
	}
	return &card, nil
}

// GetAll retrieves every card across all users.
func (r *MongoCardRepo) GetAll() ([]models.Card, error) {
	return r.find(bson.M{})
}

// GetByUserID retrieves all cards belonging to a user.
func (r *MongoCardRepo) GetByUserID(userID string) ([]models.Card, error) {
	return r.find(bson.M{"userId": userID})
}

func (r *MongoCardRepo) find(filter bson.M) ([]models.Card, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []models.Card
	for cursor.Next(ctx) {
		var c models.Card
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Create inserts a new card document.
func (r *MongoCardRepo) Create(card *models.Card) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, card); err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Update modifies an existing card document.
func (r *MongoCardRepo) Update(card *models.Card) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	card.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": card.ID}, bson.M{"$set": card})
	if err != nil {
		return fmt.Errorf("failed to update card with id %s: %w", card.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("card with id %s not found", card.ID)
	}
	return nil
}

// Delete removes a card document by its ID.
func (r *MongoCardRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete card with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("card with id %s not found", id)
	}
	return nil
}
