package models

// Session carries the identity and key material of one authenticated login.
// It replaces any global login state: every repository call receives the
// session explicitly. The plaintext password is dropped as soon as the key
// has been derived; only the derived key lives here.
type Session struct {
	// Owner is the username whose records this session may touch.
	Owner string

	// Key is the 32-byte symmetric key derived from the owner's password
	// and the installation salt. Never persisted.
	Key []byte
}
