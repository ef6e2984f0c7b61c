// Package config provides configuration loading and management.
package config

import (
	"os"

	"github.com/chefport/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue describes a single resolved configuration value.
type ResolvedValue struct {
	// Key is the configuration key name.
	Key string
	// Value is the resolved value.
	Value string
	// Source indicates where the value came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// resolveString resolves a string setting using precedence:
// flag > environment > config file > default.
func resolveString(key, flagValue, envValue, configValue, defaultValue string) ResolvedValue {
	result := ResolvedValue{
		Key:      key,
		Shadowed: make(map[ConfigSource]string),
	}

	switch {
	case flagValue != "":
		result.Value = flagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		if configValue != "" {
			result.Shadowed[SourceConfig] = configValue
		}
	case envValue != "":
		result.Value = envValue
		result.Source = SourceEnv
		if configValue != "" {
			result.Shadowed[SourceConfig] = configValue
		}
	case configValue != "":
		result.Value = configValue
		result.Source = SourceConfig
	default:
		result.Value = defaultValue
		result.Source = SourceDefault
	}

	return result
}

// ResolveOutput resolves the output directory using precedence:
// (1) --output flag, (2) CHEFPORT_OUTPUT env, (3) config.output, (4) ./roles
func ResolveOutput(flagValue, configValue string) ResolvedValue {
	return resolveString("output", flagValue, os.Getenv("CHEFPORT_OUTPUT"), configValue, "./roles")
}

// ResolveMappings resolves the mapping overlay path using precedence:
// (1) --mappings flag, (2) CHEFPORT_MAPPINGS env, (3) config.mappings
//
// There is no default: an empty value means the built-in mappings are used alone.
func ResolveMappings(flagValue, configValue string) ResolvedValue {
	return resolveString("mappings", flagValue, os.Getenv("CHEFPORT_MAPPINGS"), configValue, "")
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CHEFPORT_CONFIG env, (3) ~/.chefport/config.yaml default
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}

	result := resolveString("config", flagValue, os.Getenv("CHEFPORT_CONFIG"), "", paths.ConfigFile)
	if result.Source != SourceDefault {
		result.Shadowed[SourceDefault] = paths.ConfigFile
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
