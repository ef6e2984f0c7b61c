// Package config provides configuration loading and management.
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutput_FlagPrecedence(t *testing.T) {
	t.Setenv("CHEFPORT_OUTPUT", "/env/roles")

	result := ResolveOutput("/flag/roles", "/config/roles")

	assert.Equal(t, "/flag/roles", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/roles", result.Shadowed[SourceEnv])
	assert.Equal(t, "/config/roles", result.Shadowed[SourceConfig])
}

func TestResolveOutput_EnvPrecedence(t *testing.T) {
	t.Setenv("CHEFPORT_OUTPUT", "/env/roles")

	result := ResolveOutput("", "/config/roles")

	assert.Equal(t, "/env/roles", result.Value)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Equal(t, "/config/roles", result.Shadowed[SourceConfig])
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveOutput_ConfigFallback(t *testing.T) {
	t.Setenv("CHEFPORT_OUTPUT", "")

	result := ResolveOutput("", "/config/roles")

	assert.Equal(t, "/config/roles", result.Value)
	assert.Equal(t, SourceConfig, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolveOutput_Default(t *testing.T) {
	t.Setenv("CHEFPORT_OUTPUT", "")

	result := ResolveOutput("", "")

	assert.Equal(t, "./roles", result.Value)
	assert.Equal(t, SourceDefault, result.Source)
}

func TestResolveMappings_NoDefault(t *testing.T) {
	t.Setenv("CHEFPORT_MAPPINGS", "")

	result := ResolveMappings("", "")

	assert.Empty(t, result.Value)
	assert.Equal(t, SourceDefault, result.Source)
}

func TestResolveMappings_FlagPrecedence(t *testing.T) {
	t.Setenv("CHEFPORT_MAPPINGS", "/env/mappings.yaml")

	result := ResolveMappings("/flag/mappings.yaml", "")

	assert.Equal(t, "/flag/mappings.yaml", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/mappings.yaml", result.Shadowed[SourceEnv])
}

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv("CHEFPORT_CONFIG", "/env/path/config.yaml")

	result, err := ResolveConfigPath("/flag/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/flag/path/config.yaml", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/path/config.yaml", result.Shadowed[SourceEnv])
	assert.NotEmpty(t, result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	t.Setenv("CHEFPORT_CONFIG", "/env/path/config.yaml")

	result, err := ResolveConfigPath("")
	require.NoError(t, err)

	assert.Equal(t, "/env/path/config.yaml", result.Value)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotEmpty(t, result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_Default(t *testing.T) {
	t.Setenv("CHEFPORT_CONFIG", "")

	result, err := ResolveConfigPath("")
	require.NoError(t, err)

	assert.Contains(t, result.Value, ".chefport")
	assert.Contains(t, result.Value, "config.yaml")
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "flag", string(SourceFlag))
	assert.Equal(t, "env", string(SourceEnv))
	assert.Equal(t, "config", string(SourceConfig))
	assert.Equal(t, "default", string(SourceDefault))
}
