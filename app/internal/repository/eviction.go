package repository

import (
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// StaleIDs returns the ids of sessions whose UpdatedAt lies more than ttl
// before now. Pure, so the eviction policy is testable without a real clock.
func StaleIDs(now time.Time, ttl time.Duration, sessions map[string]*entities.SessionData) []string {
	var ids []string
	for id, sess := range sessions {
		if now.Sub(sess.UpdatedAt) > ttl {
			ids = append(ids, id)
		}
	}
	return ids
}
