package notificationRepo

import "finbook/models"

// NotificationRepository defines data access for dedup records and the
// notification audit log.
type NotificationRepository interface {
	// GetDedup retrieves the dedup record stored at key, or nil when absent.
	GetDedup(key string) (*models.DedupRecord, error)
	// UpsertDedup writes the dedup record at its key, replacing any prior one.
	UpsertDedup(rec *models.DedupRecord) error
	// InsertLog appends an audit log entry.
	InsertLog(entry *models.NotificationLog) error
	// ListByUser returns a user's log entries, newest first, capped at limit.
	ListByUser(userID string, limit int64) ([]models.NotificationLog, error)
	// CountUnread returns the number of unread entries for a user.
	CountUnread(userID string) (int64, error)
	// MarkRead flips one of the user's entries to read.
	MarkRead(userID, id string) error
}
