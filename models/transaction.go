// models/transaction.go
package models

import "time"

// Transaction is a single spend record. AffectCurrentBill marks card
// transactions that count toward the card's current statement balance.
type Transaction struct {
	ID                string    `bson:"id" json:"id"`
	UserID            string    `bson:"userId" json:"userId"`
	CardID            string    `bson:"cardId,omitempty" json:"cardId,omitempty"`
	BudgetID          string    `bson:"budgetId,omitempty" json:"budgetId,omitempty"`
	Amount            float64   `bson:"amount" json:"amount"`
	Merchant          string    `bson:"merchant,omitempty" json:"merchant,omitempty"`
	Category          string    `bson:"category,omitempty" json:"category,omitempty"`
	AffectCurrentBill bool      `bson:"affectCurrentBill" json:"affectCurrentBill"`
	OccurredAt        time.Time `bson:"occurredAt" json:"occurredAt"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}
