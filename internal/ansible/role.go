package ansible

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role is one assembled Ansible role ready to write.
type Role struct {
	// Name is the role directory name, already sanitized.
	Name string

	// Cookbook is the source cookbook name, kept for provenance.
	Cookbook string

	Tasks     []Task
	Handlers  []Task
	Variables map[string]interface{}

	// Templates are converted template files with role-relative paths.
	Templates []RoleFile

	// Files are static files. Content may be nil, in which case an empty
	// placeholder is written.
	Files []RoleFile
}

// RoleFile is one file written under a role subdirectory.
type RoleFile struct {
	Path    string
	Content []byte
}

// roleDirs are created for every role regardless of content.
var roleDirs = []string{"tasks", "handlers", "templates", "files", "defaults", "vars", "meta"}

type roleMeta struct {
	GalaxyInfo   galaxyInfo `yaml:"galaxy_info"`
	Dependencies []string   `yaml:"dependencies"`
}

type galaxyInfo struct {
	Author            string         `yaml:"author"`
	Description       string         `yaml:"description"`
	License           string         `yaml:"license"`
	MinAnsibleVersion string         `yaml:"min_ansible_version"`
	Platforms         []metaPlatform `yaml:"platforms"`
}

type metaPlatform struct {
	Name     string   `yaml:"name"`
	Versions []string `yaml:"versions"`
}

// WriteRole writes the role tree under dir: the standard subdirectories,
// tasks/handlers/defaults main.yml files, template and static files, role
// metadata, and a README. Template paths are made role-relative, with the
// Chef `default/` namespace stripped and escaping paths collapsed to their
// base name with collision counters.
func WriteRole(dir string, role *Role) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating role directory: %w", err)
	}
	for _, sub := range roleDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("creating role directory %s: %w", sub, err)
		}
	}

	tasks := role.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	if err := writeYAMLFile(filepath.Join(dir, "tasks", "main.yml"), tasks); err != nil {
		return err
	}

	handlers := role.Handlers
	if handlers == nil {
		handlers = []Task{}
	}
	if err := writeYAMLFile(filepath.Join(dir, "handlers", "main.yml"), handlers); err != nil {
		return err
	}

	variables := role.Variables
	if variables == nil {
		variables = map[string]interface{}{}
	}
	if err := writeYAMLFile(filepath.Join(dir, "defaults", "main.yml"), variables); err != nil {
		return err
	}

	written := map[string]bool{}
	for _, tmpl := range role.Templates {
		rel := uniquePath(safeRelPath(tmpl.Path), written)
		dst := filepath.Join(dir, "templates", filepath.FromSlash(rel))
		if err := writeFile(dst, tmpl.Content); err != nil {
			return err
		}
	}

	written = map[string]bool{}
	for _, file := range role.Files {
		rel := uniquePath(safeRelPath(file.Path), written)
		dst := filepath.Join(dir, "files", filepath.FromSlash(rel))
		if err := writeFile(dst, file.Content); err != nil {
			return err
		}
	}

	meta := roleMeta{
		GalaxyInfo: galaxyInfo{
			Author:            "chefport",
			Description:       fmt.Sprintf("Converted from Chef cookbook %s", role.Cookbook),
			License:           "MIT",
			MinAnsibleVersion: "2.9",
			Platforms: []metaPlatform{
				{Name: "EL", Versions: []string{"7", "8"}},
				{Name: "Ubuntu", Versions: []string{"bionic", "focal"}},
				{Name: "Debian", Versions: []string{"buster", "bullseye"}},
			},
		},
		Dependencies: []string{},
	}
	if err := writeYAMLFile(filepath.Join(dir, "meta", "main.yml"), meta); err != nil {
		return err
	}

	return writeFile(filepath.Join(dir, "README.md"), []byte(roleReadme(role)))
}

func roleReadme(role *Role) string {
	name := role.Name
	if name == "" {
		name = role.Cookbook
	}

	return fmt.Sprintf(`# %s

Ansible role converted from the Chef cookbook %s.

## Role Variables

Defaults extracted from the cookbook's attribute files live in
defaults/main.yml. Values starting with CHANGEME_ could not be resolved
automatically and need review.

## Example Playbook

`+"```yaml"+`
- hosts: servers
  roles:
    - %s
`+"```"+`

## License

MIT
`, name, role.Cookbook, name)
}

// safeRelPath normalizes a role-relative file path. The Chef-side
// templates/default/ namespace carries no meaning in a role, so a leading
// default/ segment is stripped. Paths that climb out of the role collapse
// to their base name.
func safeRelPath(p string) string {
	p = strings.TrimPrefix(filepath.ToSlash(p), "default/")

	clean := path.Clean(p)
	if clean == "." || clean == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		base := path.Base(clean)
		if base == "." || base == ".." || base == "/" {
			return "file"
		}
		return base
	}
	return clean
}

// uniquePath reserves rel in written, appending a counter before the
// extension when the name is already taken.
func uniquePath(rel string, written map[string]bool) string {
	if !written[rel] {
		written[rel] = true
		return rel
	}

	ext := path.Ext(rel)
	stem := strings.TrimSuffix(rel, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !written[candidate] {
			written[candidate] = true
			return candidate
		}
	}
}

// variableRefPattern matches {{ var }} references in rendered task YAML.
var variableRefPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// FillMissingVariables scans tasks and handlers for template variable
// references that have no definition in Variables and adds CHANGEME_
// placeholders for them, so a written role never references an undefined
// variable. Ansible facts and the loop variable are left alone. Returns the
// added names sorted.
func (r *Role) FillMissingVariables() []string {
	refs := map[string]bool{}
	for _, tasks := range [][]Task{r.Tasks, r.Handlers} {
		data, err := yaml.Marshal(tasks)
		if err != nil {
			continue
		}
		for _, m := range variableRefPattern.FindAllStringSubmatch(string(data), -1) {
			refs[m[1]] = true
		}
	}

	var added []string
	for name := range refs {
		if strings.HasPrefix(name, "ansible_") || name == "item" {
			continue
		}
		if _, defined := r.Variables[name]; defined {
			continue
		}
		if r.Variables == nil {
			r.Variables = map[string]interface{}{}
		}
		r.Variables[name] = "CHANGEME_" + name
		added = append(added, name)
	}

	sort.Strings(added)
	return added
}

// SanitizeRoleName converts a cookbook name into a safe role directory
// name: lower case, runs of anything outside [a-z0-9_] become single
// underscores.
func SanitizeRoleName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && sb.Len() > 0 {
				sb.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

func writeYAMLFile(filePath string, data interface{}) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filePath, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding %s: %w", filePath, err)
	}
	return enc.Close()
}

func writeFile(filePath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(filePath), err)
	}
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}
	return nil
}
