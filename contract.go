package forge

import "go/token"

// Contract is the parsed representation of a contract package: the single
// state-holding struct plus the exported methods that form its public
// surface. A Contract produced by ParseDir is always structurally valid.
type Contract struct {
	name        string
	pkg         string
	dir         string
	pos         token.Position
	constructor string // niladic New<Type> constructor, "" if absent
	methods     []*Method

	fset *token.FileSet

	// decls maps every package-level identifier to its position, for
	// collision checks against generated names.
	decls map[string]token.Position
}

// Name returns the name of the state-holding struct.
func (c *Contract) Name() string {
	return c.name
}

// Package returns the name of the contract package.
func (c *Contract) Package() string {
	return c.pkg
}

// Dir returns the directory the contract package was parsed from.
func (c *Contract) Dir() string {
	return c.dir
}

// Position returns the source position of the state struct declaration.
func (c *Contract) Position() token.Position {
	return c.pos
}

// Constructor returns the name of the package's niladic New<Type>
// constructor, or "" when the state cell uses the zero value.
func (c *Contract) Constructor() string {
	return c.constructor
}

// HasConstructor reports whether the state cell is initialized through an
// explicit constructor rather than the zero value.
func (c *Contract) HasConstructor() bool {
	return c.constructor != ""
}

// Methods returns the contract's exported methods in declaration order.
func (c *Contract) Methods() []*Method {
	return c.methods
}

// Len returns the number of exported methods.
func (c *Contract) Len() int {
	return len(c.methods)
}

// Method returns the method with the given name, or nil.
func (c *Contract) Method(name string) *Method {
	for _, m := range c.methods {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// HasMethod reports whether the contract has a method with the given name.
func (c *Contract) HasMethod(name string) bool {
	return c.Method(name) != nil
}

// MethodNames returns all method names in declaration order.
func (c *Contract) MethodNames() []string {
	names := make([]string, len(c.methods))
	for i, m := range c.methods {
		names[i] = m.Name()
	}
	return names
}
