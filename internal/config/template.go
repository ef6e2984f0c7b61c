package config

// DefaultConfigTemplate is the commented config file written by
// `chefport config init`. Every key is commented out so the file
// documents the defaults without pinning them.
const DefaultConfigTemplate = `# chefport configuration.
#
# Command-line flags and CHEFPORT_* environment variables take
# precedence over values set here.

# Directory converted roles are written to.
# Env: CHEFPORT_OUTPUT
#output: ./roles

# Resource mapping overlay file, extending the built-in table.
# Env: CHEFPORT_MAPPINGS
#mappings: ""

# Number of cookbooks converted in parallel.
# Env: CHEFPORT_WORKERS
#workers: 4

# Check generated roles after writing.
#validate: true

#log:
#  # Show timestamps in log output.
#  timestamps: true
`
