package transactionRepo

import (
	"time"

	"finbook/models"
)

// TransactionRepository defines methods for transaction data access.
type TransactionRepository interface {
	// Create inserts a new transaction record.
	Create(txn *models.Transaction) error
	// GetByUserID retrieves all transactions belonging to a user.
	GetByUserID(userID string) ([]models.Transaction, error)
	// SumCardSpend totals the bill-affecting transactions of a card inside
	// [from, to). Both bounds are expected at midnight.
	SumCardSpend(cardID string, from, to time.Time) (float64, error)
}
