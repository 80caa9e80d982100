package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ApiToken is an API access token issued to a user.
// The secret key is generated exactly once at creation time and is never
// exposed again through list or detail responses. Tokens are revoked by
// setting the Revoked flag, the row itself is kept as an audit trail.
type ApiToken struct {
	// ID is the unique identifier for the token.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the user owning this token.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// User is the owning user (loaded via foreign key).
	// When a user is deleted, their tokens are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Name identifies the token for its user (e.g. "ci", "mobile").
	// Names are sanitized on issuance. At most one unrevoked, unexpired
	// token exists per (user, name) pair.
	Name string `gorm:"column:name;size:100;not null;index"`
	// Key is the secret token key. Unique across all tokens.
	Key string `gorm:"column:key;unique;size:100;not null"`
	// Created is the timestamp when the token was issued.
	Created time.Time `gorm:"column:created;autoCreateTime"`
	// Expiry is the date after which the token no longer authenticates.
	Expiry time.Time `gorm:"column:expiry;not null"`
	// Revoked marks the token as terminally invalid. A revoked token can
	// never be un-revoked or reissued under the same key.
	Revoked bool `gorm:"column:revoked;not null;default:false"`
	// Metadata holds request metadata captured at issuance as a JSON
	// encoded string to string mapping (user agent, remote address, ...).
	Metadata string `gorm:"column:metadata"`
}

// TableName specifies the database table name for the ApiToken model.
// This overrides GORM's default pluralized table naming.
func (ApiToken) TableName() string {
	return "api_tokens"
}

// Expired reports whether the token expiry date lies before the given day.
func (t *ApiToken) Expired(today time.Time) bool {
	return t.Expiry.Before(today.Truncate(24 * time.Hour))
}

// IsActive reports whether the token is neither revoked nor expired.
func (t *ApiToken) IsActive(today time.Time) bool {
	return !t.Revoked && !t.Expired(today)
}

// GetMetadata decodes the stored metadata mapping.
// An empty or missing mapping decodes to an empty map, never nil.
func (t *ApiToken) GetMetadata() (map[string]string, error) {
	meta := map[string]string{}

	if t.Metadata == "" {
		return meta, nil
	}

	if err := json.Unmarshal([]byte(t.Metadata), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode token metadata: %w", err)
	}

	return meta, nil
}

// MergeMetadata merges the given values into the stored metadata mapping.
// New values overwrite existing entries by key, untouched keys persist
// across reuses of the same token.
func (t *ApiToken) MergeMetadata(values map[string]string) error {
	meta, err := t.GetMetadata()
	if err != nil {
		return err
	}

	for k, v := range values {
		meta[k] = v
	}

	out, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode token metadata: %w", err)
	}

	t.Metadata = string(out)

	return nil
}
