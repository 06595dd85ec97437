// models/budget.go
package models

import "time"

// Budget is a spending envelope with optional per-budget alert thresholds
// (percentages). When AlertThresholds is empty the scanner falls back to the
// configured defaults.
type Budget struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	Name            string    `bson:"name" json:"name"`
	Category        string    `bson:"category,omitempty" json:"category,omitempty"`
	LimitAmount     float64   `bson:"limitAmount" json:"limitAmount"`
	SpentAmount     float64   `bson:"spentAmount" json:"spentAmount"`
	AlertThresholds []int     `bson:"alertThresholds,omitempty" json:"alertThresholds,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
