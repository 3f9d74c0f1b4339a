package utils

import "github.com/google/uuid"

// UUIDGenerator issues identifiers for goals and ledger events. V7 UUIDs
// are time-ordered, which keeps the event-ID tie-break stable for events
// created in the same instant.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
