package bunx

import "github.com/google/uuid"

// NewUUIDv7 generates a time-ordered UUIDv7 string for database primary
// keys. Time ordering keeps index inserts append-mostly, and generating ids
// in Go avoids a gen_random_uuid() dependency so the same models work on
// PostgreSQL and SQLite. Panics only on entropy exhaustion, at which point
// nothing else would work either.
func NewUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}
