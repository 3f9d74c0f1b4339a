// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The goalvault Authors

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

// saltSize is the length of the per-installation salt in bytes.
const saltSize = 16

// MinIterations is the floor for the PBKDF2 work factor. Configurations
// requesting less are silently raised to this value.
const MinIterations = 100_000

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	// PBKDF2 tuning. Stored in the struct so the work factor can be raised
	// per deployment without touching call sites.
	iterations int
	keyLen     int
}

// NewKeyChainService constructs a [KeyChainService] deriving 256-bit keys
// with PBKDF2-HMAC-SHA256 at the given iteration count. Iteration counts
// below [MinIterations] are raised to it.
func NewKeyChainService(iterations int) KeyChainService {
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return &keyChainService{
		iterations: iterations,
		keyLen:     32, // 256 bits
	}
}

// LoadOrCreateSalt implements [KeyChainService]. On first run it reads 16
// random bytes from the OS CSPRNG and writes them to path with O_EXCL, so
// two processes racing through first-run initialization cannot each write
// their own salt; the loser of the race re-reads the winner's file. An
// existing salt is returned verbatim and never regenerated.
func (k *keyChainService) LoadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != saltSize {
			return nil, fmt.Errorf("%w: salt file %s has %d bytes, want %d", ErrKeyDerivation, path, len(salt), saltSize)
		}
		return salt, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read salt: %w", ErrKeyDerivation, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%w: create salt directory: %w", ErrKeyDerivation, err)
		}
	}

	salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%w: generate salt: %w", ErrKeyDerivation, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		// Another process created the salt between our read and write.
		return k.LoadOrCreateSalt(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create salt file: %w", ErrKeyDerivation, err)
	}
	defer f.Close()

	if _, err := f.Write(salt); err != nil {
		return nil, fmt.Errorf("%w: write salt: %w", ErrKeyDerivation, err)
	}

	return salt, nil
}

// DeriveKey implements [KeyChainService]. It derives a 256-bit key from
// password and salt using PBKDF2-HMAC-SHA256 with the iteration count
// stored in the receiver. The result exists only in memory for the life of
// one session and is never persisted.
func (k *keyChainService) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, k.iterations, k.keyLen, sha256.New)
}

// EncryptPayload implements [KeyChainService]. It marshals v to JSON, then
// encrypts it with key using AES-256-GCM. The output is a Base64 (standard
// encoding) string of the blob: nonce (12 bytes) ‖ ciphertext.
func (k *keyChainService) EncryptPayload(v any, key []byte) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Prepend the nonce so DecryptPayload can split it out.
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptPayload implements [KeyChainService]. It Base64-decodes payload,
// splits out the nonce, decrypts the ciphertext with key via AES-256-GCM,
// and unmarshals the resulting JSON into target.
//
// Every failure mode — bad encoding, truncated blob, authentication-tag
// mismatch, invalid JSON — is reported as [ErrDecryptionFailed]. An
// auth-tag mismatch almost always means the caller derived the key from the
// wrong password.
func (k *keyChainService) DecryptPayload(payload string, key []byte, target any) error {
	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %w", ErrDecryptionFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("%w: create cipher: %w", ErrDecryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("%w: create gcm: %w", ErrDecryptionFailed, err)
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ErrDecryptionFailed, err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("%w: unmarshal payload: %w", ErrDecryptionFailed, err)
	}

	return nil
}
