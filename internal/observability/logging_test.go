package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/markwingerd/dft-old/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"json info", config.LoggingConfig{Level: "info", Format: "json"}, false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, false},
		{"json warn to stderr", config.LoggingConfig{Level: "warn", Format: "json", Output: "stderr"}, false},
		{"console error", config.LoggingConfig{Level: "error", Format: "console"}, false},
		{"unknown level", config.LoggingConfig{Level: "trace", Format: "json"}, true},
		{"unknown format", config.LoggingConfig{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
		})
	}
}

func TestNewLogger_FileOutputCarriesAppField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dft.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("catalog loaded")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "dft", entry["app"])
	assert.Equal(t, "catalog loaded", entry["msg"])
}

func TestNewLogger_RejectsStdout(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"})
	assert.Error(t, err)
}
