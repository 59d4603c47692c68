package core

import "github.com/google/uuid"

// NewID generates an opaque unique entity id. Ids are assigned once at
// creation and never change.
func NewID() string {
	return uuid.NewString()
}
