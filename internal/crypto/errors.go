package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned whenever a payload cannot be decrypted:
	// wrong key, corrupted or truncated ciphertext, or malformed encoding.
	// At the authentication boundary callers treat it as "wrong password";
	// it must never surface decrypted garbage instead.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrKeyDerivation is returned when the installation salt cannot be read
	// or created, leaving the key-derivation layer unable to operate.
	ErrKeyDerivation = errors.New("key derivation unavailable")
)
