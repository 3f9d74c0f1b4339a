package models

import "time"

// User represents an account entity used for authentication and as the owner
// of encrypted goal records. Sensitive fields must never be exposed outside
// trusted boundaries.
type User struct {
	// Username is the unique user identifier, used as the primary key at the
	// persistence layer and as the owner reference on goal records.
	Username string `json:"username"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// It is used only for authentication and is independent of the key that
	// encrypts financial data: compromising the hash store must not leak the
	// encryption key.
	PasswordHash string `json:"-"`

	// EncryptedNetWorth is the ciphertext of the user's aggregate net worth
	// (a decimal rendered as a string). It is a derived cache maintained by
	// the goal service and never edited directly.
	EncryptedNetWorth CipheredPayload `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
