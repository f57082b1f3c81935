package forge

import (
	"go/ast"
	"go/token"
)

// Access describes how a method interacts with the state cell.
type Access uint8

const (
	// AccessRead is declared by a value receiver. The dispatch function
	// only observes the state cell.
	AccessRead Access = iota

	// AccessMutate is declared by a pointer receiver. The dispatch
	// function acquires the cell for modification.
	AccessMutate
)

// String returns "read" or "mutate".
func (a Access) String() string {
	if a == AccessMutate {
		return "mutate"
	}
	return "read"
}

// Param is a single method parameter.
type Param struct {
	// Name is the parameter name, synthesized as arg<N> when the source
	// declaration leaves it blank.
	Name string

	// Type is the parameter's type expression in the source package.
	Type ast.Expr
}

// Method is an exported method on the contract's state struct. One dispatch
// function is generated per Method, exported under the VM symbol name.
type Method struct {
	name    string
	export  string
	access  Access
	params  []Param
	result  ast.Expr // nil for methods without a return value
	pos     token.Position
	declIdx int

	// file is the source file declaring the method, used to resolve the
	// imports its signature types depend on.
	file *ast.File
}

// Name returns the Go method name.
func (m *Method) Name() string {
	return m.name
}

// ExportName returns the VM symbol name, the snake_case form of the method
// name.
func (m *Method) ExportName() string {
	return m.export
}

// Access returns the method's declared state access.
func (m *Method) Access() Access {
	return m.access
}

// Params returns the method parameters in declaration order.
func (m *Method) Params() []Param {
	return m.params
}

// HasParams reports whether the method takes any arguments.
func (m *Method) HasParams() bool {
	return len(m.params) > 0
}

// Result returns the method's result type expression, or nil when the
// method returns nothing.
func (m *Method) Result() ast.Expr {
	return m.result
}

// HasResult reports whether the method returns a value.
func (m *Method) HasResult() bool {
	return m.result != nil
}

// Position returns the source position of the method declaration.
func (m *Method) Position() token.Position {
	return m.pos
}

// Index returns the method's declaration order index, which fixes the order
// of generated dispatch functions.
func (m *Method) Index() int {
	return m.declIdx
}
