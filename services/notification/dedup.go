package notification

import (
	"fmt"
	"strings"
	"time"

	notificationRepo "finbook/database/repository/notification"
	"finbook/models"
)

// DedupStore answers "was this (user, event, channel) notified recently?"
// on top of the keyed dedup collection. Records are never deleted; freshness
// is a read-time window check, so an old record simply stops suppressing.
//
// Check and mark are separate operations. Two overlapping scans racing on
// the same key can both pass the check and both send; the scheduler is a
// single serialized trigger, so the guarantee in practice is at-most-once
// per window.
type DedupStore struct {
	Repo   notificationRepo.NotificationRepository
	Window time.Duration
	Now    func() time.Time
}

// NewDedupStore builds a DedupStore with the given suppression window.
func NewDedupStore(repo notificationRepo.NotificationRepository, window time.Duration) *DedupStore {
	return &DedupStore{Repo: repo, Window: window, Now: time.Now}
}

// DedupKey derives the deterministic storage key for a triple. Any
// non-alphanumeric rune is mapped to '_' so the result is safe as a
// document identifier.
func DedupKey(userID, eventKey, channel string) string {
	raw := fmt.Sprintf("%s:%s:%s", userID, channel, eventKey)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, raw)
}

// WasRecentlySent reports whether a dispatch for the triple is recorded
// within the window.
func (d *DedupStore) WasRecentlySent(userID, eventKey, channel string) (bool, error) {
	rec, err := d.Repo.GetDedup(DedupKey(userID, eventKey, channel))
	if err != nil {
		return false, fmt.Errorf("failed to check dedup for %s/%s/%s: %w", userID, channel, eventKey, err)
	}
	if rec == nil {
		return false, nil
	}
	return d.Now().Sub(rec.SentAt) < d.Window, nil
}

// MarkSent upserts the triple's record with a fresh timestamp.
func (d *DedupStore) MarkSent(userID, eventKey, channel string) error {
	rec := &models.DedupRecord{
		Key:      DedupKey(userID, eventKey, channel),
		UserID:   userID,
		EventKey: eventKey,
		Channel:  channel,
		SentAt:   d.Now(),
	}
	if err := d.Repo.UpsertDedup(rec); err != nil {
		return fmt.Errorf("failed to mark %s/%s/%s sent: %w", userID, channel, eventKey, err)
	}
	return nil
}
