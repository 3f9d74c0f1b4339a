package models

// Credentials carries a username and master password pair supplied at
// registration or sign-in. The password never leaves the process: it is
// bcrypt-hashed for authentication and fed to the key derivation function
// for the session key, then discarded.
type Credentials struct {
	Username string
	Password string
}
