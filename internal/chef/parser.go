package chef

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sigs.k8s.io/yaml"
)

// metadataFile is the marker file that identifies a cookbook directory.
const metadataFile = "metadata.rb"

// FindCookbooks walks root for metadata.rb markers and returns one ref per
// marker in traversal order. Traversal order is filesystem-dependent and is
// only meaningful for display, not correctness.
func FindCookbooks(root string) ([]CookbookRef, error) {
	var refs []CookbookRef

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped; an unreadable root is fatal.
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() || d.Name() != metadataFile {
			return nil
		}

		dir := filepath.Dir(path)
		refs = append(refs, CookbookRef{
			Name: cookbookName(path, dir),
			Path: dir,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return refs, nil
}

// cookbookName extracts the cookbook name from the metadata.rb name
// attribute, falling back to the directory name.
func cookbookName(metadataPath, dir string) string {
	content, err := os.ReadFile(metadataPath)
	if err == nil {
		if name := ParseMetadata(string(content)).Name; name != "" {
			return name
		}
	}
	return filepath.Base(dir)
}

// ParseCookbook reads every facet of the cookbook at path. A missing facet
// directory yields an empty slice, never an error; unreadable individual
// files degrade per facet (nil template content, empty data bag item) so one
// bad file cannot sink the cookbook.
func ParseCookbook(path string) (*Cookbook, error) {
	cb := &Cookbook{
		Name: filepath.Base(path),
		Path: path,
	}

	if content, err := os.ReadFile(filepath.Join(path, metadataFile)); err == nil {
		cb.Metadata = ParseMetadata(string(content))
		if cb.Metadata.Name != "" {
			cb.Name = cb.Metadata.Name
		}
	}

	cb.Recipes = parseRecipes(filepath.Join(path, "recipes"))
	cb.Attributes = parseAttributes(filepath.Join(path, "attributes"))
	cb.Templates = findTemplates(filepath.Join(path, "templates"))
	cb.Files = findFiles(filepath.Join(path, "files"))
	cb.Resources = parseCustomResources(filepath.Join(path, "resources"))
	cb.Libraries = parseLibraries(filepath.Join(path, "libraries"))
	cb.DataBags = findDataBags(filepath.Join(path, "..", "..", "data_bags"))

	return cb, nil
}

// rubyFiles lists the .rb files directly inside dir, sorted by name.
// A missing or unreadable directory yields nil.
func rubyFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".rb") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseRecipes(dir string) []Recipe {
	var recipes []Recipe
	for _, path := range rubyFiles(dir) {
		recipe := Recipe{
			Name: stem(path),
			Path: path,
		}

		if content, err := os.ReadFile(path); err == nil && utf8.Valid(content) {
			recipe.Content = string(content)
			recipe.Resources, recipe.Skipped = ExtractResources(recipe.Content)
		}

		recipes = append(recipes, recipe)
	}
	return recipes
}

func parseAttributes(dir string) []AttributeFile {
	var attrs []AttributeFile
	for _, path := range rubyFiles(dir) {
		content, err := os.ReadFile(path)
		if err != nil {
			content = nil
		}
		attrs = append(attrs, AttributeFile{
			Name:    stem(path),
			Path:    path,
			Content: string(content),
		})
	}
	return attrs
}

func findTemplates(dir string) []TemplateFile {
	var templates []TemplateFile

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil || !utf8.Valid(content) {
			content = nil
		}

		templates = append(templates, TemplateFile{
			Name:    d.Name(),
			Path:    filepath.ToSlash(rel),
			Content: content,
		})
		return nil
	})

	return templates
}

func findFiles(dir string) []StaticFile {
	var files []StaticFile

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}

		files = append(files, StaticFile{
			Name: d.Name(),
			Path: filepath.ToSlash(rel),
		})
		return nil
	})

	return files
}

func parseCustomResources(dir string) []CustomResourceFile {
	var resources []CustomResourceFile
	for _, path := range rubyFiles(dir) {
		content, err := os.ReadFile(path)
		if err != nil {
			content = nil
		}
		resources = append(resources, CustomResourceFile{
			Name:    stem(path),
			Path:    path,
			Content: string(content),
		})
	}
	return resources
}

func parseLibraries(dir string) []LibraryFile {
	var libraries []LibraryFile
	for _, path := range rubyFiles(dir) {
		content, err := os.ReadFile(path)
		if err != nil {
			content = nil
		}
		libraries = append(libraries, LibraryFile{
			Name:    stem(path),
			Path:    path,
			Content: string(content),
		})
	}
	return libraries
}

// findDataBags reads the repository-level data_bags directory that sits two
// levels above a conventional cookbooks/<name> layout. Each subdirectory is
// one bag; items are JSON files parsed leniently (empty content on failure).
func findDataBags(dir string) []DataBag {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var bags []DataBag
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		bag := DataBag{Name: e.Name()}

		items, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			bags = append(bags, bag)
			continue
		}

		for _, item := range items {
			if item.IsDir() || !strings.HasSuffix(item.Name(), ".json") {
				continue
			}

			content := map[string]interface{}{}
			data, readErr := os.ReadFile(filepath.Join(dir, e.Name(), item.Name()))
			if readErr == nil {
				if err := yaml.Unmarshal(data, &content); err != nil {
					content = map[string]interface{}{}
				}
			}

			bag.Items = append(bag.Items, DataBagItem{
				Name:    strings.TrimSuffix(item.Name(), ".json"),
				Content: content,
			})
		}

		bags = append(bags, bag)
	}

	return bags
}
