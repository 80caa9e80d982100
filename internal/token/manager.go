package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/uniuri"
)

// KeyLength is the number of random characters in a generated token key,
// not counting the configured prefix.
const KeyLength = 64

// Manager issues, lists and revokes API tokens.
type Manager struct {
	db         *gorm.DB
	expiryDays int
	prefix     string
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a token manager. expiryDays is the validity horizon
// for newly issued tokens, prefix is prepended to every generated key.
func NewManager(db *gorm.DB, expiryDays int, prefix string, opts ...Option) *Manager {
	m := &Manager{
		db:         db,
		expiryDays: expiryDays,
		prefix:     prefix,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// today returns the current day truncated to midnight. Expiry comparisons
// are date based, not instant based.
func (m *Manager) today() time.Time {
	return m.now().Truncate(24 * time.Hour)
}

// generateKey produces a fresh cryptographically random token key.
func (m *Manager) generateKey() string {
	return m.prefix + uniuri.NewLen(KeyLength)
}

// Issue returns the API token for (user, name), creating it on first
// request. The requested name is sanitized first.
//
// If an unrevoked, unexpired token already exists for the sanitized name it
// is returned unchanged: the key is not rotated, and this is the only code
// path that ever reveals it. Otherwise a new record is created with a fresh
// random key and the configured expiry horizon.
//
// The find-or-create check runs inside a transaction that first takes a
// FOR UPDATE lock on the owning user row. Locking the token row itself
// cannot guard the first creation, there is no row to lock yet, so the
// user row serializes concurrent requests for the same user: the loser
// blocks until the winner commits and then finds the winner's token.
//
// The supplied request metadata is merged into the token afterwards. New
// values overwrite by key, untouched keys persist across reuses. Metadata
// failures are logged and swallowed, they never fail the issuance.
func (m *Manager) Issue(user *models.User, requestedName string, metadata map[string]string) (*models.ApiToken, error) {
	if user == nil {
		return nil, auth.ErrNotAuthenticated
	}

	name := SanitizeName(requestedName)
	today := m.today()

	var token models.ApiToken

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var owner models.User

		if err := withRowLock(tx).First(&owner, user.ID).Error; err != nil {
			return fmt.Errorf("failed to lock user for token issuance: %w", err)
		}

		found, err := m.lookupActive(tx, user.ID, name, today)
		if err != nil {
			return err
		}

		if found != nil {
			token = *found
			return nil
		}

		token = models.ApiToken{
			UserID: user.ID,
			Name:   name,
			Key:    m.generateKey(),
			Expiry: today.AddDate(0, 0, m.expiryDays),
		}

		if err := tx.Create(&token).Error; err != nil {
			return err
		}

		log.Info().Str("username", user.Username).Str("name", name).
			Msg("Created new API token")

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := m.mergeMetadata(&token, metadata); err != nil {
		// Metadata is non-critical telemetry, never fail the issuance.
		log.Warn().Err(err).Uint64("token_id", token.ID).Msg("failed to record token metadata")
	}

	return &token, nil
}

// withRowLock adds a FOR UPDATE clause on engines that support it.
// SQLite serializes writing transactions on its own.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lookupActive finds the unrevoked, unexpired token for (user, name).
// Expired tokens remain listable but are never matched here.
func (m *Manager) lookupActive(tx *gorm.DB, userID uint64, name string, today time.Time) (*models.ApiToken, error) {
	var token models.ApiToken

	err := tx.Where("user_id = ? AND name = ? AND revoked = ? AND expiry >= ?",
		userID, name, false, today).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	return &token, nil
}

// mergeMetadata merges values into the token metadata and persists it.
// Last writer wins per key under concurrent reuse of the same token.
func (m *Manager) mergeMetadata(token *models.ApiToken, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	if err := token.MergeMetadata(values); err != nil {
		return err
	}

	if err := m.db.Model(token).Update("metadata", token.Metadata).Error; err != nil {
		return fmt.Errorf("failed to store token metadata: %w", err)
	}

	return nil
}

// List returns the tokens visible to the actor. The default scope is the
// actor's own tokens. Superusers may request allUsers to see every token,
// for anyone else the flag is ignored. Revoked and expired tokens are
// included, the secret key is redacted by the response serializer.
func (m *Manager) List(actor *auth.Actor, allUsers bool) ([]models.ApiToken, error) {
	if actor == nil || actor.User == nil {
		return nil, auth.ErrNotAuthenticated
	}

	tx := m.db.Preload("User").Order("id")

	if !(allUsers && actor.User.IsSuperuser) {
		tx = tx.Where("user_id = ?", actor.User.ID)
	}

	var tokens []models.ApiToken

	if err := tx.Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	return tokens, nil
}

// Get returns a single token if it is visible to the actor (owned by the
// actor, or any token for superusers).
func (m *Manager) Get(actor *auth.Actor, tokenID uint64) (*models.ApiToken, error) {
	if actor == nil || actor.User == nil {
		return nil, auth.ErrNotAuthenticated
	}

	tx := m.db.Preload("User").Where("id = ?", tokenID)

	if !actor.User.IsSuperuser {
		tx = tx.Where("user_id = ?", actor.User.ID)
	}

	var token models.ApiToken

	err := tx.First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	return &token, nil
}

// Revoke marks a token as revoked. The row is kept as an audit trail and
// the transition is terminal: a revoked token can never be un-revoked, a
// subsequent Issue with the same name creates a brand-new record with a
// new key. Only the owner or a superuser may revoke a token.
func (m *Manager) Revoke(actor *auth.Actor, tokenID uint64) error {
	token, err := m.Get(actor, tokenID)
	if err != nil {
		return err
	}

	if token.Revoked {
		return nil
	}

	if err := m.db.Model(token).Update("revoked", true).Error; err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	log.Info().Uint64("token_id", token.ID).Uint64("user_id", token.UserID).Str("name", token.Name).
		Msg("API token revoked")

	return nil
}

// Authenticate resolves an API token key to its owning user. Revoked and
// expired tokens never authenticate, nor do tokens of inactive users.
func (m *Manager) Authenticate(key string) (*models.ApiToken, *models.User, error) {
	if key == "" {
		return nil, nil, auth.ErrNotAuthenticated
	}

	var token models.ApiToken

	err := m.db.Preload("User").
		Where("key = ? AND revoked = ? AND expiry >= ?", key, false, m.today()).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, auth.ErrNotAuthenticated
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !token.User.Active {
		return nil, nil, auth.ErrNotAuthenticated
	}

	return &token, &token.User, nil
}
