package forge

import "path"

// DefaultABIPackage is the import path of the ABI package the generated
// dispatch functions delegate to. The package is an external collaborator:
// the generator references its WrapCall primitive and Unit type by name and
// assumes, but never verifies, their contract.
const DefaultABIPackage = "github.com/dusk-network/dusk-go/abi"

// generatedSuffix is appended to the package name to form the default
// output file name.
const generatedSuffix = "_forge.go"

// Option configures generation.
type Option func(*config)

// config holds the resolved generation configuration.
type config struct {
	abiImport string
	abiAlias  string
	cellName  string
	header    string
	fileName  string
}

// defaultConfig returns the default generation configuration.
func defaultConfig() *config {
	return &config{
		abiImport: DefaultABIPackage,
		cellName:  "state",
	}
}

// abiName returns the package identifier the generated code qualifies ABI
// symbols with. Version elements in the import path (".../abi/v2") do not
// name a package and are skipped.
func (c *config) abiName() string {
	if c.abiAlias != "" {
		return c.abiAlias
	}
	name := path.Base(c.abiImport)
	if isVersionElement(name) {
		name = path.Base(path.Dir(c.abiImport))
	}
	return name
}

func isVersionElement(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WithABIPackage overrides the import path of the ABI package referenced by
// the generated dispatch functions.
func WithABIPackage(importPath string) Option {
	return func(c *config) {
		if importPath != "" {
			c.abiImport = importPath
		}
	}
}

// WithABIName overrides the package identifier used to qualify ABI symbols.
// The ABI package is then imported under that name, for ABI packages whose
// name is not derivable from their import path.
func WithABIName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.abiAlias = name
		}
	}
}

// WithCellName overrides the identifier of the generated state cell.
// Default is "state".
func WithCellName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.cellName = name
		}
	}
}

// WithHeader adds an extra comment line below the generated-code marker,
// typically a license or provenance note.
func WithHeader(line string) Option {
	return func(c *config) {
		c.header = line
	}
}

// WithFileName overrides the output file name used by Write.
// Default is <package>_forge.go.
func WithFileName(name string) Option {
	return func(c *config) {
		c.fileName = name
	}
}
