package frm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, GenerateSample(path))

	cfg, err := NewConfig(path)
	require.Nil(t, err)
	require.Equal(t, DefaultOptions, cfg.Options)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NotNil(t, err)
}
