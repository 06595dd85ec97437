package budgetRepo

import "finbook/models"

// BudgetRepository defines methods for budget data access.
type BudgetRepository interface {
	// GetByID retrieves a budget by its unique ID.
	GetByID(id string) (*models.Budget, error)
	// GetAll retrieves every budget across all users (used by the alert scan).
	GetAll() ([]models.Budget, error)
	// GetByUserID retrieves all budgets belonging to a user.
	GetByUserID(userID string) ([]models.Budget, error)
	// Create inserts a new budget record.
	Create(budget *models.Budget) error
	// Update modifies an existing budget record.
	Update(budget *models.Budget) error
	// Delete removes a budget record by its ID.
	Delete(id string) error
	// AddSpent atomically increments a budget's spent amount.
	AddSpent(id string, amount float64) error
}
