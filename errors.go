package forge

import (
	"errors"
	"fmt"
	"go/token"
)

// Validation rule names, carried by structural errors so callers can report
// which constraint a contract package violates.
const (
	RuleMissingContract     = "missing-contract"
	RuleMultipleContracts   = "multiple-contracts"
	RuleNotAStruct          = "not-a-struct"
	RuleGenericContract     = "generic-contract"
	RuleUnsupportedReceiver = "unsupported-receiver"
	RuleDuplicateMethod     = "duplicate-method"
	RuleDuplicateExport     = "duplicate-export"
	RuleVariadicParameter   = "variadic-parameter"
	RuleMultipleResults     = "multiple-results"
	RuleNoMethods           = "no-methods"
	RuleNameCollision       = "name-collision"
)

// StructureError is implemented by all validation errors. Every structural
// violation is attributed to a source position and a named rule; the
// transformation aborts on the first violation found and produces no output.
type StructureError interface {
	error

	// Rule returns the name of the violated validation rule.
	Rule() string

	// Position returns the source position of the offending declaration.
	Position() token.Position
}

// IsStructureError reports whether err (or an error it wraps) is a
// structural validation error.
func IsStructureError(err error) bool {
	var se StructureError
	return errors.As(err, &se)
}

// NoContractError indicates the package contains no struct marked with the
// forge:contract directive.
type NoContractError struct {
	Dir string

	// Suggestion is a near-miss forge directive found in the package, if any.
	Suggestion string
	Pos        token.Position
}

func (e *NoContractError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("forge: no //forge:contract struct in %s (found //forge:%s at %s, did you mean //forge:contract?)",
			e.Dir, e.Suggestion, e.Pos)
	}
	return fmt.Sprintf("forge: no //forge:contract struct in %s", e.Dir)
}

func (e *NoContractError) Rule() string             { return RuleMissingContract }
func (e *NoContractError) Position() token.Position { return e.Pos }

// MultipleContractsError indicates more than one struct carries the
// forge:contract directive.
type MultipleContractsError struct {
	First     string
	FirstPos  token.Position
	Second    string
	SecondPos token.Position
}

func (e *MultipleContractsError) Error() string {
	return fmt.Sprintf("forge: multiple contract structs: %s (%s) and %s (%s)",
		e.First, e.FirstPos, e.Second, e.SecondPos)
}

func (e *MultipleContractsError) Rule() string             { return RuleMultipleContracts }
func (e *MultipleContractsError) Position() token.Position { return e.SecondPos }

// NotAStructError indicates the forge:contract directive is attached to a
// type declaration that is not a struct.
type NotAStructError struct {
	Name string
	Pos  token.Position
}

func (e *NotAStructError) Error() string {
	return fmt.Sprintf("forge: //forge:contract on non-struct type %s (%s)", e.Name, e.Pos)
}

func (e *NotAStructError) Rule() string             { return RuleNotAStruct }
func (e *NotAStructError) Position() token.Position { return e.Pos }

// GenericContractError indicates the contract struct declares type
// parameters, which the VM entry-point shape cannot express.
type GenericContractError struct {
	Name string
	Pos  token.Position
}

func (e *GenericContractError) Error() string {
	return fmt.Sprintf("forge: contract struct %s is generic (%s)", e.Name, e.Pos)
}

func (e *GenericContractError) Rule() string             { return RuleGenericContract }
func (e *GenericContractError) Position() token.Position { return e.Pos }

// UnsupportedReceiverError indicates a method receiver is neither T nor *T.
type UnsupportedReceiverError struct {
	Method string
	Form   string
	Pos    token.Position
}

func (e *UnsupportedReceiverError) Error() string {
	return fmt.Sprintf("forge: method %s has unsupported receiver form %s (%s)", e.Method, e.Form, e.Pos)
}

func (e *UnsupportedReceiverError) Rule() string             { return RuleUnsupportedReceiver }
func (e *UnsupportedReceiverError) Position() token.Position { return e.Pos }

// DuplicateMethodError indicates two methods on the contract type share a
// name.
type DuplicateMethodError struct {
	Name      string
	FirstPos  token.Position
	SecondPos token.Position
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("forge: duplicate method %s declared at %s and %s", e.Name, e.FirstPos, e.SecondPos)
}

func (e *DuplicateMethodError) Rule() string             { return RuleDuplicateMethod }
func (e *DuplicateMethodError) Position() token.Position { return e.SecondPos }

// DuplicateExportError indicates two methods map to the same VM export name.
type DuplicateExportError struct {
	Export    string
	First     string
	Second    string
	SecondPos token.Position
}

func (e *DuplicateExportError) Error() string {
	return fmt.Sprintf("forge: methods %s and %s both export as %q (%s)",
		e.First, e.Second, e.Export, e.SecondPos)
}

func (e *DuplicateExportError) Rule() string             { return RuleDuplicateExport }
func (e *DuplicateExportError) Position() token.Position { return e.SecondPos }

// VariadicParameterError indicates an exported method declares a variadic
// parameter, which has no fixed argument payload shape.
type VariadicParameterError struct {
	Method string
	Pos    token.Position
}

func (e *VariadicParameterError) Error() string {
	return fmt.Sprintf("forge: method %s has a variadic parameter (%s)", e.Method, e.Pos)
}

func (e *VariadicParameterError) Rule() string             { return RuleVariadicParameter }
func (e *VariadicParameterError) Position() token.Position { return e.Pos }

// MultipleResultsError indicates an exported method returns more than one
// value; the ABI encodes a single result.
type MultipleResultsError struct {
	Method string
	Pos    token.Position
}

func (e *MultipleResultsError) Error() string {
	return fmt.Sprintf("forge: method %s returns multiple values (%s)", e.Method, e.Pos)
}

func (e *MultipleResultsError) Rule() string             { return RuleMultipleResults }
func (e *MultipleResultsError) Position() token.Position { return e.Pos }

// NoMethodsError indicates the contract struct has no exported methods, so
// the contract would have no callable surface.
type NoMethodsError struct {
	Name string
	Pos  token.Position
}

func (e *NoMethodsError) Error() string {
	return fmt.Sprintf("forge: contract struct %s has no exported methods (%s)", e.Name, e.Pos)
}

func (e *NoMethodsError) Rule() string             { return RuleNoMethods }
func (e *NoMethodsError) Position() token.Position { return e.Pos }

// NameCollisionError indicates a generated identifier would collide with an
// existing package-level declaration. Collisions are rejected, never
// silently overwritten.
type NameCollisionError struct {
	// Name is the package-level identifier already in use.
	Name string

	// Artifact describes the generated declaration that needs the name:
	// "state cell", "dispatch function" or "args struct".
	Artifact string
	Pos      token.Position
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("forge: generated %s needs identifier %s, already declared at %s",
		e.Artifact, e.Name, e.Pos)
}

func (e *NameCollisionError) Rule() string             { return RuleNameCollision }
func (e *NameCollisionError) Position() token.Position { return e.Pos }
