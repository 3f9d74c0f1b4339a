package models

import "time"

// GoalRecord is the persisted shape of a goal: owner routing columns in the
// clear, everything else sealed inside the encrypted payload. The store
// layer exclusively owns these bytes and never sees plaintext goals.
type GoalRecord struct {
	// ID mirrors the goal id so records can be upserted and deleted by key.
	ID string

	// Owner references the username the record belongs to.
	Owner string

	// Payload is the ciphertext of the serialized Goal.
	Payload CipheredPayload

	// UpdatedAt is set by the store on every write.
	UpdatedAt time.Time
}

// TableName returns the name of the database table
// associated with the GoalRecord model.
func (r GoalRecord) TableName() string {
	return "goals"
}
