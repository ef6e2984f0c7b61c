// Package config provides configuration loading and management.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty"`
}

// Config represents the chefport CLI configuration.
// Loaded from ~/.chefport/config.yaml with environment overrides.
type Config struct {
	// Output is the directory converted roles are written to.
	// Env: CHEFPORT_OUTPUT, Default: "./roles"
	Output string `json:"output,omitempty"`

	// Mappings is the path to a custom resource mapping overlay file.
	// Env: CHEFPORT_MAPPINGS
	Mappings string `json:"mappings,omitempty"`

	// Workers is the number of cookbooks converted in parallel.
	// Env: CHEFPORT_WORKERS, Default: 4
	Workers int `json:"workers,omitempty"`

	// Validate controls whether generated roles are checked after writing.
	// Default: true. Disable with --no-validate.
	Validate *bool `json:"validate,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `chefport config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Output:  "./roles",
		Workers: 4,
	}
}

// WithDefaults returns a copy of the config with unset fields filled
// from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Output == "" {
		out.Output = "./roles"
	}
	if out.Workers <= 0 {
		out.Workers = 4
	}
	return &out
}

// ShouldValidate reports whether generated roles are validated after writing.
func (c *Config) ShouldValidate() bool {
	if c.Validate == nil {
		return true
	}
	return *c.Validate
}

// ShowTimestamps reports whether log timestamps are enabled.
func (c *Config) ShowTimestamps() bool {
	if c.Log.Timestamps == nil {
		return true
	}
	return *c.Log.Timestamps
}
