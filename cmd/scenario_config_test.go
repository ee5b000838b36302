package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenarioConfig_ValidFile(t *testing.T) {
	// GIVEN a valid scenario YAML file
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := "capacity: 2\narrival_rate: 4.5\nservice_rate: 6.0\nhorizon_hours: 200\nseed: 42\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// WHEN loaded
	cfg, err := LoadScenarioConfig(path)

	// THEN every field is populated and validation passes
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Capacity)
	assert.Equal(t, 4.5, cfg.ArrivalRate)
	assert.Equal(t, 6.0, cfg.ServiceRate)
	assert.Equal(t, 200.0, cfg.HorizonHours)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadScenarioConfig_InvalidFields_RejectedByValidate(t *testing.T) {
	// GIVEN a scenario file with a non-positive capacity
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := "capacity: 0\narrival_rate: 4.0\nservice_rate: 5.0\nhorizon_hours: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// WHEN loaded
	_, err := LoadScenarioConfig(path)

	// THEN it is rejected
	assert.Error(t, err)
}

func TestLoadScenarioConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadScenarioConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
