package budgetRepo

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

// MongoBudgetRepo implements BudgetRepository using MongoDB.
type MongoBudgetRepo struct {
	coll *mongo.Collection
}

// NewMongoBudgetRepo creates a new instance of BudgetRepository using MongoDB.
func NewMongoBudgetRepo() BudgetRepository {
	coll := database.MongoClient.Database("finbook").Collection("budgets")
	repo := &MongoBudgetRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBudgetRepo) ensureIndexes() error {
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

// GetByID retrieves a budget by its unique ID.
func (r *MongoBudgetRepo) GetByID(id string) (*models.Budget, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var budget models.Budget
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&budget); err != nil {
		return nil, fmt.Errorf("failed to fetch budget with id %s: %w", id, err)
	}
	return &budget, nil
}

// GetAll retrieves every budget across all users.
func (r *MongoBudgetRepo) GetAll() ([]models.Budget, error) {
	return r.find(bson.M{})
}

// GetByUserID retrieves all budgets belonging to a user.
func (r *MongoBudgetRepo) GetByUserID(userID string) ([]models.Budget, error) {
	return r.find(bson.M{"userId": userID})
}

func (r *MongoBudgetRepo) find(filter bson.M) ([]models.Budget, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve budgets: %w", err)
	}
	defer cursor.Close(ctx)

	var budgets []models.Budget
	for cursor.Next(ctx) {
		var b models.Budget
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// Create inserts a new budget document.
func (r *MongoBudgetRepo) Create(budget *models.Budget) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, budget); err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// Update modifies an existing budget document.
func (r *MongoBudgetRepo) Update(budget *models.Budget) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	budget.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": budget.ID}, bson.M{"$set": budget})
	if err != nil {
		return fmt.Errorf("failed to update budget with id %s: %w", budget.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("budget with id %s not found", budget.ID)
	}
	return nil
}

// Delete removes a budget document by its ID.
func (r *MongoBudgetRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete budget with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("budget with id %s not found", id)
	}
	return nil
}

// AddSpent atomically increments a budget's spent amount.
func (r *MongoBudgetRepo) AddSpent(id string, amount float64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"spentAmount": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update, options.Update())
	if err != nil {
		return fmt.Errorf("failed to increment spent for budget %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("budget with id %s not found", id)
	}
	return nil
}
