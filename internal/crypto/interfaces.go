package crypto

// KeyChainService owns every cryptographic concern of the vault. It knows
// nothing about the database or users; its only job is deriving the key and
// protecting record payloads.
//
// Scheme:
//
//	salt = LoadOrCreateSalt(path)            (once per installation)
//	key  = DeriveKey(password, salt)         (once per login)
//	ct   = EncryptPayload(record, key)       (every write)
//	rec  = DecryptPayload(ct, key, &target)  (every read)
type KeyChainService interface {
	// LoadOrCreateSalt returns the persistent installation salt, creating it
	// on first run. The salt is not a secret, but it must never be
	// regenerated once created: a new salt makes every previously encrypted
	// record permanently undecryptable. Failures are wrapped in
	// ErrKeyDerivation.
	LoadOrCreateSalt(path string) ([]byte, error)

	// DeriveKey stretches a password and salt into a 32-byte symmetric key
	// using a slow password-based KDF. The call blocks for the full
	// iteration count; derive once per login and keep the key in the session.
	DeriveKey(password string, salt []byte) []byte

	// EncryptPayload serializes v to JSON and encrypts it with key using
	// authenticated encryption. The result is safe to persist: without the
	// key it is random noise, and any tampering is detected on decryption.
	EncryptPayload(v any, key []byte) (string, error)

	// DecryptPayload reverses EncryptPayload into target (a non-nil
	// pointer, as for json.Unmarshal). A wrong key, a flipped byte, or
	// malformed input all yield ErrDecryptionFailed; plaintext garbage is
	// never returned.
	DecryptPayload(payload string, key []byte, target any) error
}
