package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	cfg, err := ReadConfig(configPath)
	require.NoError(t, err, "ReadConfig() failed")

	assert.NotEmpty(t, cfg.Title, "Config.Title should not be empty")
	assert.NotZero(t, cfg.Webserver.Port, "Webserver.Port should not be 0")
	assert.NotEmpty(t, cfg.Webserver.URL, "Webserver.URL should not be empty")
	assert.NotEmpty(t, cfg.DB.Host, "DB.Host should not be empty")

	// Token defaults apply when the file does not set them
	assert.Positive(t, cfg.Token.ExpiryDays)
	assert.NotEmpty(t, cfg.Token.Prefix)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectedErr error
	}{
		{
			name:        "missing port",
			cfg:         Config{Webserver: Webserver{URL: "http://localhost"}},
			expectedErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:        "missing url",
			cfg:         Config{Webserver: Webserver{Port: 8080}},
			expectedErr: ErrEmptyURL,
		},
		{
			name: "unknown gorm engine",
			cfg: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost"},
				DB:        DB{GormEngine: "oracle"},
			},
			expectedErr: ErrUnknownGormEngine,
		},
		{
			name: "defaults applied",
			cfg: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost"},
				DB:        DB{GormEngine: "mysql"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate(&tc.cfg)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, DefaultTokenExpiryDays, tc.cfg.Token.ExpiryDays)
			assert.Equal(t, DefaultTokenPrefix, tc.cfg.Token.Prefix)
			assert.Equal(t, 5, tc.cfg.Webserver.ShutDownTime)
		})
	}
}
