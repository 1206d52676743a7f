package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "nil config uses defaults", cfg: nil},
		{name: "json stderr", cfg: &Config{Level: "info", Format: "json", Output: "stderr"}},
		{name: "console stdout", cfg: &Config{Level: "debug", Format: "console", Output: "stdout"}},
		{name: "bad level", cfg: &Config{Level: "loud", Format: "json", Output: "stderr"}, wantErr: true},
		{name: "bad format", cfg: &Config{Level: "info", Format: "xml", Output: "stderr"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := t.TempDir() + "/run.log"
	logger, err := NewLogger(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}
