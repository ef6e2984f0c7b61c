package chef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata_Full(t *testing.T) {
	content := `name 'nginx'
maintainer 'Ops Team'
maintainer_email 'ops@example.com'
license 'Apache-2.0'
description 'Installs and configures nginx'
version '2.1.0'

depends 'apt'
depends 'openssl', '~> 8.5'
`
	md := ParseMetadata(content)

	assert.Equal(t, "nginx", md.Name)
	assert.Equal(t, "2.1.0", md.Version)
	assert.Equal(t, "Ops Team", md.Maintainer)
	assert.Equal(t, "ops@example.com", md.MaintainerEmail)
	assert.Equal(t, "Apache-2.0", md.License)
	assert.Equal(t, "Installs and configures nginx", md.Description)

	require.Len(t, md.Dependencies, 2)
	assert.Equal(t, Dependency{Name: "apt"}, md.Dependencies[0])
	assert.Equal(t, Dependency{Name: "openssl", Version: "~> 8.5"}, md.Dependencies[1])
}

func TestParseMetadata_MissingAttributes(t *testing.T) {
	md := ParseMetadata("version '1.0.0'\n")

	assert.Empty(t, md.Name)
	assert.Equal(t, "1.0.0", md.Version)
	assert.Empty(t, md.Maintainer)
	assert.Empty(t, md.Dependencies)
}

func TestParseMetadata_Empty(t *testing.T) {
	md := ParseMetadata("")

	assert.Equal(t, Metadata{}, md)
}

func TestParseMetadata_DoubleQuotes(t *testing.T) {
	md := ParseMetadata("name \"postgresql\"\ndepends \"apt\", \">= 2.0\"\n")

	assert.Equal(t, "postgresql", md.Name)
	require.Len(t, md.Dependencies, 1)
	assert.Equal(t, ">= 2.0", md.Dependencies[0].Version)
}

func TestParseMetadata_EmailDoesNotShadowMaintainer(t *testing.T) {
	// maintainer_email appears before maintainer; the word-boundary
	// anchored patterns must not cross-match.
	md := ParseMetadata("maintainer_email 'a@b.c'\nmaintainer 'A B'\n")

	assert.Equal(t, "A B", md.Maintainer)
	assert.Equal(t, "a@b.c", md.MaintainerEmail)
}
