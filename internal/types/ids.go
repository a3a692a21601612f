package types

import (
	"time"

	"github.com/google/uuid"
)

// ActionID represents a UUIDv7 action identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type ActionID string

// NewActionID generates a UUIDv7 action identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewActionID() ActionID {
	return ActionID(uuid.Must(uuid.NewV7()).String())
}

// NewAuditEntryID generates a UUIDv7 audit entry identifier.
// Time-ordered IDs keep the append-only history clustered by insert order.
func NewAuditEntryID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ParseActionID validates and converts a string to ActionID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseActionID(s string) (ActionID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ActionID(s), nil
}

// ActionIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Enables time-based queries without database lookup.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func ActionIDTime(id ActionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
