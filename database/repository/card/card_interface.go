package cardRepo

import "finbook/models"

// CardRepository defines methods for card data access.
type CardRepository interface {
	// GetByID retrieves a card by its unique ID.
	GetByID(id string) (*models.Card, error)
	// GetAll retrieves every card across all users (used by the reminder scan).
	GetAll() ([]models.Card, error)
	// GetByUserID retrieves all cards belonging to a user.
	GetByUserID(userID string) ([]models.Card, error)
	// Create inserts a new card record.
	Create(card *models.Card) error
	// Update modifies an existing card record.
	Update(card *models.Card) error
	// Delete removes a card record by its ID.
	Delete(id string) error
}
