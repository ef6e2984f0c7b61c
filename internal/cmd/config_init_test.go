// Package cmd provides CLI command implementations.
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigInitCmd(t *testing.T) {
	cmd := NewConfigInitCmd()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	// Check flag exists
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestConfigInit_CreatesConfig(t *testing.T) {
	tmpHome := t.TempDir()

	// Override HOME for the test
	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	cmd := NewConfigInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.NoError(t, err)

	configFile := filepath.Join(tmpHome, ".chefport", "config.yaml")
	assert.FileExists(t, configFile)

	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	// Every key ships commented out.
	assert.Contains(t, string(content), "#output: ./roles")
	assert.Contains(t, string(content), "#workers: 4")
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	tmpHome := t.TempDir()

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	chefportDir := filepath.Join(tmpHome, ".chefport")
	require.NoError(t, os.MkdirAll(chefportDir, 0o755))
	configFile := filepath.Join(chefportDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("# existing config\n"), 0o644))

	cmd := NewConfigInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, ExitValidationError, ExitCodeFromError(err))
}

func TestConfigInit_ForceOverwrite(t *testing.T) {
	tmpHome := t.TempDir()

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	chefportDir := filepath.Join(tmpHome, ".chefport")
	require.NoError(t, os.MkdirAll(chefportDir, 0o755))
	configFile := filepath.Join(chefportDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("# old config\n"), 0o644))

	cmd := NewConfigInitCmd()
	cmd.SetArgs([]string{"--force"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.NoError(t, err)

	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old config")
}
