package chef

import (
	"fmt"
	"regexp"
)

// metadataAttrs are the scalar metadata.rb attributes the parser extracts,
// in struct field order.
var metadataAttrs = []string{
	"name", "version", "maintainer", "maintainer_email", "license", "description",
}

var metadataAttrPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(metadataAttrs))
	for _, attr := range metadataAttrs {
		patterns[attr] = regexp.MustCompile(fmt.Sprintf(`\b%s\s+['"]([^'"]+)['"]`, attr))
	}
	return patterns
}()

// dependsPattern matches `depends 'name'` with an optional trailing version
// constraint (`depends 'name', '~> 2.0'`).
var dependsPattern = regexp.MustCompile(`\bdepends\s+['"]([^'"]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)

// ParseMetadata extracts the common scalar attributes and the dependency
// list from metadata.rb content. Attributes that do not appear stay zero.
func ParseMetadata(content string) Metadata {
	attr := func(name string) string {
		if m := metadataAttrPatterns[name].FindStringSubmatch(content); m != nil {
			return m[1]
		}
		return ""
	}

	md := Metadata{
		Name:            attr("name"),
		Version:         attr("version"),
		Maintainer:      attr("maintainer"),
		MaintainerEmail: attr("maintainer_email"),
		License:         attr("license"),
		Description:     attr("description"),
	}

	for _, m := range dependsPattern.FindAllStringSubmatch(content, -1) {
		md.Dependencies = append(md.Dependencies, Dependency{
			Name:    m[1],
			Version: m[2],
		})
	}

	return md
}
