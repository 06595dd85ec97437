package reminder

import (
	"context"
	"time"

	"finbook/models"
)

// Producer scans stored records and emits the reminder events that are due
// at now. Implementations use the single now they are handed for the whole
// scan and skip malformed records instead of failing the batch.
type Producer interface {
	Scan(ctx context.Context, now time.Time) ([]models.ReminderEvent, error)
}
