package locality

import (
	"github.com/google/uuid"
)

// NewID generates a globally unique, time-sortable UUIDv7 (RFC 9562).
// Used for turn and setting-change IDs.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
