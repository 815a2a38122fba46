package utility

import (
	"github.com/google/uuid"
)

// RunID tags one pricing or curve request across logs, API responses and exports.
type RunID = uuid.UUID

// NewRunID returns a time-ordered (v7) id, so exported runs sort by creation.
func NewRunID() RunID {
	return uuid.Must(uuid.NewV7())
}

func ParseRunID(s string) (RunID, error) {
	return uuid.Parse(s)
}
