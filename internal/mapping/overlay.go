package mapping

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"
)

// LoadOverlay reads mapping entries from a YAML or JSON file keyed by
// resource type.
func LoadOverlay(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings file: %w", err)
	}

	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing mappings file %s: %w", path, err)
	}

	return entries, nil
}

// VetOverlay checks a mappings file and returns human-readable issues.
// The error return is reserved for an unreadable file; malformed content is
// reported as issues so the vet command can list everything at once.
func VetOverlay(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings file: %w", err)
	}

	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		issues := []string{fmt.Sprintf("not a valid mappings file: %v", err)}
		if hasLegacyNestedValueMapping(data) {
			issues = append(issues, "value_mapping is nested inside property_mapping; move it to a sibling value_mapping key")
		}
		return issues, nil
	}

	if len(entries) == 0 {
		return []string{"file defines no mappings"}, nil
	}

	var issues []string
	types := make([]string, 0, len(entries))
	for resourceType := range entries {
		types = append(types, resourceType)
	}
	sort.Strings(types)

	for _, resourceType := range types {
		entry := entries[resourceType]

		if entry.AnsibleModule == "" {
			issues = append(issues, fmt.Sprintf("%s: missing ansible_module", resourceType))
		}
		if len(entry.PropertyMapping) == 0 {
			issues = append(issues, fmt.Sprintf("%s: property_mapping is empty, every source property will be dropped", resourceType))
		}

		props := make([]string, 0, len(entry.ValueMapping))
		for prop := range entry.ValueMapping {
			props = append(props, prop)
		}
		sort.Strings(props)
		for _, prop := range props {
			if _, ok := entry.PropertyMapping[prop]; !ok {
				issues = append(issues, fmt.Sprintf("%s: value_mapping for %q has no matching property_mapping entry", resourceType, prop))
			}
		}
	}

	return issues, nil
}

// hasLegacyNestedValueMapping detects the old overlay format that nested
// value_mapping inside property_mapping, so vet can point at the fix.
func hasLegacyNestedValueMapping(data []byte) bool {
	var loose map[string]struct {
		PropertyMapping map[string]interface{} `json:"property_mapping"`
	}
	if err := yaml.Unmarshal(data, &loose); err != nil {
		return false
	}

	for _, entry := range loose {
		if _, ok := entry.PropertyMapping["value_mapping"]; ok {
			return true
		}
	}
	return false
}
