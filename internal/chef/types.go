// Package chef discovers and parses Chef cookbooks.
//
// Parsing is pattern-based, not a Ruby grammar: resource blocks are matched
// positionally against a fixed vocabulary, and property boundaries inside a
// block are inferred from line shape. The trade-off is documented on
// ExtractResources.
package chef

// CookbookRef points at a discovered cookbook directory.
type CookbookRef struct {
	// Name comes from the metadata.rb name attribute, falling back to the
	// directory name when the attribute is absent.
	Name string

	// Path is the cookbook directory (the one containing metadata.rb).
	Path string
}

// Cookbook is a fully parsed cookbook. Immutable after construction.
type Cookbook struct {
	Name       string
	Path       string
	Metadata   Metadata
	Recipes    []Recipe
	Attributes []AttributeFile
	Templates  []TemplateFile
	Files      []StaticFile
	Resources  []CustomResourceFile
	Libraries  []LibraryFile
	DataBags   []DataBag
}

// Metadata holds the attributes parsed from metadata.rb.
type Metadata struct {
	Name            string
	Version         string
	Maintainer      string
	MaintainerEmail string
	License         string
	Description     string
	Dependencies    []Dependency
}

// Dependency is a cookbook dependency declared with `depends`.
type Dependency struct {
	Name string

	// Version is the optional constraint ("~> 2.0"); empty when absent.
	Version string
}

// Recipe is a single recipe file with its extracted resources.
// Resource order matches declaration order in the source text: later
// resources may depend on earlier ones' side effects (notifications).
type Recipe struct {
	Name    string
	Path    string
	Content string

	// Resources are the blocks whose type is in the known vocabulary.
	Resources []Resource

	// Skipped are blocks outside the vocabulary. They carry the same
	// positional property split so callers can inspect or report them.
	Skipped []Resource
}

// Resource is one `<type> '<name>' do ... end` block from a recipe.
type Resource struct {
	// Type is the resource keyword (package, service, ...) or an arbitrary
	// custom name for skipped blocks.
	Type string

	// Name is the declared resource name.
	Name string

	// Properties maps property names to raw, unparsed value text.
	// Names are unique within one record; last occurrence wins when the
	// source repeats a property.
	Properties map[string]string

	// Raw is the full matched source span, kept for diagnostics.
	Raw string

	// Line is the 1-based line of the block opener in the recipe text.
	Line int
}

// AttributeFile is a file under attributes/.
type AttributeFile struct {
	Name    string
	Path    string
	Content string
}

// TemplateFile is a file under templates/. Content is nil when the file
// could not be read or is not valid UTF-8; the transpiler skips such
// records instead of failing the cookbook.
type TemplateFile struct {
	Name string

	// Path is relative to the templates/ directory and may carry the
	// default/ namespace prefix Chef uses.
	Path string

	Content []byte
}

// StaticFile is a file under files/. Only names and paths are recorded;
// static content is copied verbatim at write time.
type StaticFile struct {
	Name string

	// Path is relative to the files/ directory.
	Path string
}

// CustomResourceFile is a custom resource definition under resources/.
type CustomResourceFile struct {
	Name    string
	Path    string
	Content string
}

// LibraryFile is a Ruby helper under libraries/.
type LibraryFile struct {
	Name    string
	Path    string
	Content string
}

// DataBag groups the items of one data bag directory.
type DataBag struct {
	Name  string
	Items []DataBagItem
}

// DataBagItem is one JSON item in a data bag. Content is empty (not nil)
// when the item file fails to parse.
type DataBagItem struct {
	Name    string
	Content map[string]interface{}
}
