// models/card.go
package models

import "time"

// Card is a credit card tracked by a user. StatementDay and DueDay are
// days-of-month (1-31, clamped to the month's length when computing cycles).
// A card participates in reminder scans only when StatementDay, DueDay and a
// positive LimitAmount are all set.
type Card struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"userId" json:"userId"`
	Name         string    `bson:"name" json:"name"`
	Issuer       string    `bson:"issuer,omitempty" json:"issuer,omitempty"`
	LastDigits   string    `bson:"lastDigits,omitempty" json:"lastDigits,omitempty"`
	StatementDay int       `bson:"statementDay,omitempty" json:"statementDay,omitempty"`
	DueDay       int       `bson:"dueDay,omitempty" json:"dueDay,omitempty"`
	LimitAmount  float64   `bson:"limitAmount,omitempty" json:"limitAmount,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasBillingConfig reports whether the card carries the fields the reminder
// scanner needs to compute a billing cycle.
func (c *Card) HasBillingConfig() bool {
	return c.StatementDay >= 1 && c.StatementDay <= 31 &&
		c.DueDay >= 1 && c.DueDay <= 31 &&
		c.LimitAmount > 0
}
