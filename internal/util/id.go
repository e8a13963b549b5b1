package util

import "github.com/google/uuid"

// NewID generates a new unique identifier for agent runs.
func NewID() string { return uuid.NewString() }
