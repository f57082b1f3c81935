package forge

import (
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"path"
	"sort"
	"strings"

	"github.com/dave/dst"
)

// emitter builds the generated file's syntax tree for a validated contract.
// Emission is total: structural problems are caught during parsing, except
// for cell name collisions, which depend on options and are checked here.
type emitter struct {
	contract *Contract
	cfg      *config

	// extraImports maps import paths needed by method signature types to
	// their local names ("" for the default package name).
	extraImports map[string]string
}

func newEmitter(contract *Contract, cfg *config) *emitter {
	return &emitter{
		contract:     contract,
		cfg:          cfg,
		extraImports: make(map[string]string),
	}
}

// emit produces the expanded output tree: imports, the state cell, and one
// dispatch function per method in declaration order.
func (e *emitter) emit() (*dst.File, error) {
	if err := e.checkCellName(); err != nil {
		return nil, err
	}

	for _, method := range e.contract.Methods() {
		e.collectImports(method)
	}

	decls := []dst.Decl{
		e.importDecl(),
		e.stateCell(),
	}
	for _, method := range e.contract.Methods() {
		if method.HasParams() {
			decls = append(decls, e.argsStruct(method))
		}
		decls = append(decls, e.dispatchFunc(method))
	}

	return &dst.File{
		Name:  dst.NewIdent(e.contract.Package()),
		Decls: decls,
	}, nil
}

// checkCellName rejects a cell name taken by a package-level declaration or
// by one of the identifiers this emitter is itself about to generate.
func (e *emitter) checkCellName() error {
	if pos, ok := e.contract.decls[e.cfg.cellName]; ok {
		return &NameCollisionError{Name: e.cfg.cellName, Artifact: "state cell", Pos: pos}
	}
	for _, method := range e.contract.Methods() {
		if e.cfg.cellName == method.Name() {
			return &NameCollisionError{Name: e.cfg.cellName, Artifact: "state cell", Pos: method.Position()}
		}
		if method.HasParams() && e.cfg.cellName == argsTypeName(method.Name()) {
			return &NameCollisionError{Name: e.cfg.cellName, Artifact: "state cell", Pos: method.Position()}
		}
	}
	return nil
}

// collectImports records the imports a method's signature types pull in
// from the source file, so the generated file can redeclare them.
func (e *emitter) collectImports(method *Method) {
	collect := func(expr ast.Expr) {
		ast.Inspect(expr, func(node ast.Node) bool {
			sel, ok := node.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			qualifier, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}
			e.resolveImport(method.file, qualifier.Name)
			return true
		})
	}

	for _, param := range method.Params() {
		collect(param.Type)
	}
	if method.HasResult() {
		collect(method.Result())
	}
}

func (e *emitter) resolveImport(file *ast.File, qualifier string) {
	for _, spec := range file.Imports {
		importPath := strings.Trim(spec.Path.Value, `"`)
		local := path.Base(importPath)
		named := ""
		if spec.Name != nil {
			local = spec.Name.Name
			named = spec.Name.Name
		}
		if local == qualifier {
			e.extraImports[importPath] = named
			return
		}
	}
}

// importDecl emits the ABI import plus any imports carried over from
// method signatures, sorted by path for deterministic output.
func (e *emitter) importDecl() dst.Decl {
	paths := make([]string, 0, len(e.extraImports)+1)
	paths = append(paths, e.cfg.abiImport)
	for importPath := range e.extraImports {
		if importPath != e.cfg.abiImport {
			paths = append(paths, importPath)
		}
	}
	sort.Strings(paths)

	specs := make([]dst.Spec, len(paths))
	for i, importPath := range paths {
		spec := &dst.ImportSpec{
			Path: &dst.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", importPath)},
		}
		if name := e.extraImports[importPath]; name != "" {
			spec.Name = dst.NewIdent(name)
		} else if importPath == e.cfg.abiImport && e.cfg.abiAlias != "" {
			spec.Name = dst.NewIdent(e.cfg.abiAlias)
		}
		specs[i] = spec
	}

	return &dst.GenDecl{
		Tok:    token.IMPORT,
		Lparen: len(specs) > 1,
		Specs:  specs,
		Rparen: len(specs) > 1,
	}
}

// stateCell emits the process-wide state cell. Zero value by default, the
// package's New<Type> constructor when declared.
func (e *emitter) stateCell() dst.Decl {
	spec := &dst.ValueSpec{
		Names: []*dst.Ident{dst.NewIdent(e.cfg.cellName)},
	}
	if e.contract.HasConstructor() {
		spec.Values = []dst.Expr{
			&dst.CallExpr{Fun: dst.NewIdent(e.contract.Constructor())},
		}
	} else {
		spec.Type = dst.NewIdent(e.contract.Name())
	}

	decl := &dst.GenDecl{Tok: token.VAR, Specs: []dst.Spec{spec}}
	decl.Decorations().Before = dst.EmptyLine
	decl.Decorations().Start.Append(
		fmt.Sprintf("// %s is the contract's persistent instance. The VM serializes calls", e.cfg.cellName),
		"// into the instance, so dispatch functions access the cell without",
		"// synchronization.",
	)
	return decl
}

// argsStruct emits the decoded argument payload type for a method.
func (e *emitter) argsStruct(method *Method) dst.Decl {
	fields := make([]*dst.Field, len(method.Params()))
	for i, param := range method.Params() {
		field := &dst.Field{
			Names: []*dst.Ident{dst.NewIdent(fieldName(param.Name))},
			Type:  e.typeExpr(param.Type),
		}
		field.Decorations().Before = dst.NewLine
		field.Decorations().After = dst.NewLine
		fields[i] = field
	}

	name := argsTypeName(method.Name())
	decl := &dst.GenDecl{
		Tok: token.TYPE,
		Specs: []dst.Spec{
			&dst.TypeSpec{
				Name: dst.NewIdent(name),
				Type: &dst.StructType{Fields: &dst.FieldList{List: fields}},
			},
		},
	}
	decl.Decorations().Before = dst.EmptyLine
	decl.Decorations().Start.Append(
		fmt.Sprintf("// %s is the decoded argument payload of %s.", name, method.Name()),
	)
	return decl
}

// dispatchFunc emits the exported VM entry point for a method. The entry
// point has the externally defined shape (argument length in, response
// handle out) and delegates decoding, invocation and encoding to the ABI's
// wrap-call primitive.
func (e *emitter) dispatchFunc(method *Method) dst.Decl {
	closure := &dst.FuncLit{
		Type: &dst.FuncType{
			Func:    true,
			Params:  &dst.FieldList{List: []*dst.Field{e.closureParam(method)}},
			Results: &dst.FieldList{List: []*dst.Field{{Type: e.closureResult(method)}}},
		},
		Body: &dst.BlockStmt{List: e.closureBody(method)},
	}
	for _, stmt := range closure.Body.List {
		stmt.Decorations().Before = dst.NewLine
		stmt.Decorations().After = dst.NewLine
	}

	wrapCall := &dst.CallExpr{
		Fun:  e.abiSelector("WrapCall"),
		Args: []dst.Expr{dst.NewIdent("argLen"), closure},
	}

	ret := &dst.ReturnStmt{Results: []dst.Expr{wrapCall}}
	ret.Decorations().Before = dst.NewLine
	ret.Decorations().After = dst.NewLine

	decl := &dst.FuncDecl{
		Name: dst.NewIdent(method.Name()),
		Type: &dst.FuncType{
			Func: true,
			Params: &dst.FieldList{List: []*dst.Field{{
				Names: []*dst.Ident{dst.NewIdent("argLen")},
				Type:  dst.NewIdent("uint32"),
			}}},
			Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("uint32")}}},
		},
		Body: &dst.BlockStmt{
			List: []dst.Stmt{ret},
		},
	}
	decl.Decorations().Before = dst.EmptyLine
	decl.Decorations().Start.Append(
		fmt.Sprintf("// %s dispatches %s calls to %s.%s (%s access).",
			method.Name(), method.ExportName(), e.cfg.cellName, method.Name(), method.Access()),
		"//",
		fmt.Sprintf("//go:wasmexport %s", method.ExportName()),
	)
	return decl
}

// closureParam is the decoded argument binding: the args struct for methods
// with parameters, the ABI unit value otherwise.
func (e *emitter) closureParam(method *Method) *dst.Field {
	if !method.HasParams() {
		return &dst.Field{Type: e.abiSelector("Unit")}
	}
	return &dst.Field{
		Names: []*dst.Ident{dst.NewIdent("args")},
		Type:  dst.NewIdent(argsTypeName(method.Name())),
	}
}

func (e *emitter) closureResult(method *Method) dst.Expr {
	if !method.HasResult() {
		return e.abiSelector("Unit")
	}
	return e.typeExpr(method.Result())
}

func (e *emitter) closureBody(method *Method) []dst.Stmt {
	args := make([]dst.Expr, len(method.Params()))
	for i, param := range method.Params() {
		args[i] = &dst.SelectorExpr{
			X:   dst.NewIdent("args"),
			Sel: dst.NewIdent(fieldName(param.Name)),
		}
	}
	invoke := &dst.CallExpr{
		Fun: &dst.SelectorExpr{
			X:   dst.NewIdent(e.cfg.cellName),
			Sel: dst.NewIdent(method.Name()),
		},
		Args: args,
	}

	if method.HasResult() {
		return []dst.Stmt{
			&dst.ReturnStmt{Results: []dst.Expr{invoke}},
		}
	}
	return []dst.Stmt{
		&dst.ExprStmt{X: invoke},
		&dst.ReturnStmt{Results: []dst.Expr{
			&dst.CompositeLit{Type: e.abiSelector("Unit")},
		}},
	}
}

func (e *emitter) abiSelector(name string) *dst.SelectorExpr {
	return &dst.SelectorExpr{
		X:   dst.NewIdent(e.cfg.abiName()),
		Sel: dst.NewIdent(name),
	}
}

// typeExpr converts a source type expression to an equivalent output node.
// Cases beyond the common value-type shapes fall back to a verbatim
// rendering of the source text.
func (e *emitter) typeExpr(expr ast.Expr) dst.Expr {
	switch t := expr.(type) {
	case *ast.Ident:
		return dst.NewIdent(t.Name)
	case *ast.SelectorExpr:
		if qualifier, ok := t.X.(*ast.Ident); ok {
			return &dst.SelectorExpr{
				X:   dst.NewIdent(qualifier.Name),
				Sel: dst.NewIdent(t.Sel.Name),
			}
		}
	case *ast.StarExpr:
		return &dst.StarExpr{X: e.typeExpr(t.X)}
	case *ast.ArrayType:
		arr := &dst.ArrayType{Elt: e.typeExpr(t.Elt)}
		if t.Len != nil {
			arr.Len = e.typeExpr(t.Len)
		}
		return arr
	case *ast.BasicLit:
		return &dst.BasicLit{Kind: t.Kind, Value: t.Value}
	case *ast.MapType:
		return &dst.MapType{Key: e.typeExpr(t.Key), Value: e.typeExpr(t.Value)}
	case *ast.ParenExpr:
		return e.typeExpr(t.X)
	}

	var b strings.Builder
	if err := printer.Fprint(&b, e.contract.fset, expr); err != nil {
		return dst.NewIdent("any")
	}
	return dst.NewIdent(b.String())
}
