package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiTokenExpired(t *testing.T) {
	today := time.Date(2024, 6, 15, 13, 37, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expiry  time.Time
		expired bool
	}{
		{
			name:    "expires-today",
			expiry:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			expired: false,
		},
		{
			name:    "expired-yesterday",
			expiry:  time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
			expired: true,
		},
		{
			name:    "expires-next-year",
			expiry:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ApiToken{Expiry: tt.expiry}
			assert.Equal(t, tt.expired, token.Expired(today))
		})
	}
}

func TestApiTokenIsActive(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	future := today.AddDate(1, 0, 0)
	past := today.AddDate(0, 0, -1)

	assert.True(t, (&ApiToken{Expiry: future}).IsActive(today))
	assert.False(t, (&ApiToken{Expiry: future, Revoked: true}).IsActive(today))
	assert.False(t, (&ApiToken{Expiry: past}).IsActive(today))
}

func TestApiTokenMetadata(t *testing.T) {
	token := ApiToken{}

	meta, err := token.GetMetadata()
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)

	err = token.MergeMetadata(map[string]string{
		"user_agent":  "curl/8.0",
		"remote_addr": "10.0.0.1",
	})
	require.NoError(t, err)

	// later merges overwrite by key but keep untouched entries
	err = token.MergeMetadata(map[string]string{"remote_addr": "10.0.0.2"})
	require.NoError(t, err)

	meta, err = token.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"user_agent":  "curl/8.0",
		"remote_addr": "10.0.0.2",
	}, meta)
}

func TestApiTokenMetadataInvalidJSON(t *testing.T) {
	token := ApiToken{Metadata: "{not json"}

	_, err := token.GetMetadata()
	assert.Error(t, err)

	err = token.MergeMetadata(map[string]string{"a": "b"})
	assert.Error(t, err)
}
