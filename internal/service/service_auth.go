package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/crypto"
	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/internal/store"
	"github.com/atlaslife/goalvault/internal/validators"
	"github.com/atlaslife/goalvault/models"
)

// dummyHash is a well-formed bcrypt hash compared against when the username
// does not exist, so that a lookup miss costs the same as a wrong password.
// Its preimage is never accepted: the comparison result is discarded.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// authService is the concrete implementation of AuthService.
// It handles account registration and credential verification using a
// UserRepository for persistence, bcrypt for password hashes, and the
// keychain for deriving the per-session encryption key.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// keyChain derives the session key and seeds the encrypted net worth.
	keyChain crypto.KeyChainService

	// validator enforces credential shape before any expensive work runs.
	validator validators.Validator

	// saltPath locates the installation salt file.
	saltPath string

	// bcryptCost is the bcrypt work factor for new password hashes.
	// Zero selects bcrypt.DefaultCost.
	bcryptCost int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and keychain, with work factors taken from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, keyChain crypto.KeyChainService, cfg config.App, logger *logger.Logger) AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &authService{
		userRepository: userRepository,
		keyChain:       keyChain,
		validator:      validators.NewGoalValidator(),
		saltPath:       cfg.SaltPath,
		bcryptCost:     cost,
		logger:         logger,
	}
}

// Register creates a new account.
//
// The password is bcrypt-hashed for the credential store, and separately
// stretched through the KDF to derive the session key. The account starts
// with an encrypted zero net worth so that NetWorth is defined before the
// first goal exists.
//
// Returns the live session or:
//   - ErrInvalidDataProvided if the credentials fail validation.
//   - A wrapped storage error if the repository call fails (e.g. username
//     already taken — see store.ErrUserAlreadyExists).
func (a *authService) Register(ctx context.Context, creds models.Credentials) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, creds); err != nil {
		log.Error().Err(err).Str("username", creds.Username).Msg("invalid credentials provided")
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), a.bcryptCost)
	if err != nil {
		log.Err(err).Str("username", creds.Username).Msg("password hashing failed")
		return models.Session{}, fmt.Errorf("password hashing failed: %w", err)
	}

	session, err := a.openSession(ctx, creds)
	if err != nil {
		return models.Session{}, err
	}

	zeroNetWorth, err := a.keyChain.EncryptPayload(decimal.Zero, session.Key)
	if err != nil {
		log.Err(err).Str("username", creds.Username).Msg("failed to seed encrypted net worth")
		return models.Session{}, fmt.Errorf("failed to seed encrypted net worth: %w", err)
	}

	user := models.User{
		Username:          creds.Username,
		PasswordHash:      string(passwordHash),
		EncryptedNetWorth: models.CipheredPayload(zeroNetWorth),
	}
	if _, err := a.userRepository.CreateUser(ctx, user); err != nil {
		log.Err(err).Str("username", creds.Username).Msg("user creation ended with error")
		return models.Session{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return session, nil
}

// Authenticate verifies the credentials of an existing account.
//
// An unknown username and a wrong password are indistinguishable to the
// caller: both cost one bcrypt comparison and both return
// ErrAuthenticationFailed.
func (a *authService) Authenticate(ctx context.Context, creds models.Credentials) (models.Session, error) {
	log := logger.FromContext(ctx)

	if creds.Username == "" || creds.Password == "" {
		log.Error().Msg("empty credentials provided")
		return models.Session{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// burn the same bcrypt cost as the found-user path
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			log.Warn().Str("username", creds.Username).Msg("authentication failed: unknown username")
			return models.Session{}, ErrAuthenticationFailed
		}

		log.Err(err).Str("username", creds.Username).Msg("user lookup failed")
		return models.Session{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		log.Warn().Str("username", creds.Username).Msg("authentication failed: wrong password")
		return models.Session{}, ErrAuthenticationFailed
	}

	return a.openSession(ctx, creds)
}

// openSession loads the installation salt and derives the session key.
func (a *authService) openSession(ctx context.Context, creds models.Credentials) (models.Session, error) {
	log := logger.FromContext(ctx)

	salt, err := a.keyChain.LoadOrCreateSalt(a.saltPath)
	if err != nil {
		log.Err(err).Str("path", a.saltPath).Msg("failed to load installation salt")
		return models.Session{}, fmt.Errorf("failed to load installation salt: %w", err)
	}

	return models.Session{
		Owner: creds.Username,
		Key:   a.keyChain.DeriveKey(creds.Password, salt),
	}, nil
}
