package forge

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// contractDirective marks the state-holding struct, written as a directive
// comment: //forge:contract
const contractDirective = "contract"

const directivePrefix = "//forge:"

// ParseDir parses the contract package in dir and validates its structure.
// All *.go files are read except tests and previously generated output.
func ParseDir(dir string) (*Contract, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("forge: reading package directory: %w", err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("forge: parsing %s: %w", name, err)
		}
		if isGenerated(file) {
			continue
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("forge: no Go source files in %s", dir)
	}

	pkg := files[0].Name.Name
	for _, file := range files[1:] {
		if file.Name.Name != pkg {
			return nil, fmt.Errorf("forge: mixed packages %s and %s in %s", pkg, file.Name.Name, dir)
		}
	}

	p := &pkgParser{fset: fset, dir: dir, files: files}
	return p.parse(pkg)
}

// pkgParser accumulates declarations while scanning a contract package.
type pkgParser struct {
	fset  *token.FileSet
	dir   string
	files []*ast.File

	contract *Contract

	// nearMiss is the closest misspelled forge directive seen, reported
	// when no contract struct exists.
	nearMiss    string
	nearMissPos token.Position
}

func (p *pkgParser) parse(pkg string) (*Contract, error) {
	contract := &Contract{
		pkg:   pkg,
		dir:   p.dir,
		fset:  p.fset,
		decls: make(map[string]token.Position),
	}
	p.contract = contract

	if err := p.findStateStruct(); err != nil {
		return nil, err
	}
	if contract.name == "" {
		return nil, &NoContractError{Dir: p.dir, Suggestion: p.nearMiss, Pos: p.nearMissPos}
	}

	p.collectPackageDecls()

	if err := p.collectMethods(); err != nil {
		return nil, err
	}
	if len(contract.methods) == 0 {
		return nil, &NoMethodsError{Name: contract.name, Pos: contract.pos}
	}

	p.findConstructor()

	if err := p.checkCollisions(); err != nil {
		return nil, err
	}
	return contract, nil
}

// findStateStruct locates the single type declaration carrying the
// forge:contract directive.
func (p *pkgParser) findStateStruct() error {
	for _, file := range p.files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if !p.hasDirective(gen.Doc) && !p.hasDirective(ts.Doc) {
					continue
				}
				if err := p.markStateStruct(ts); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *pkgParser) markStateStruct(ts *ast.TypeSpec) error {
	pos := p.fset.Position(ts.Pos())
	if p.contract.name != "" {
		return &MultipleContractsError{
			First:     p.contract.name,
			FirstPos:  p.contract.pos,
			Second:    ts.Name.Name,
			SecondPos: pos,
		}
	}
	if _, ok := ts.Type.(*ast.StructType); !ok {
		return &NotAStructError{Name: ts.Name.Name, Pos: pos}
	}
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return &GenericContractError{Name: ts.Name.Name, Pos: pos}
	}

	p.contract.name = ts.Name.Name
	p.contract.pos = pos
	return nil
}

// hasDirective reports whether the comment group contains the contract
// directive. Misspelled forge directives are remembered for the
// missing-contract diagnostic.
func (p *pkgParser) hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, comment := range doc.List {
		if !strings.HasPrefix(comment.Text, directivePrefix) {
			continue
		}
		word := strings.TrimSpace(strings.TrimPrefix(comment.Text, directivePrefix))
		if word == contractDirective {
			return true
		}
		p.recordNearMiss(word, p.fset.Position(comment.Pos()))
	}
	return false
}

// recordNearMiss keeps the forge directive closest to "contract" by edit
// distance, ignoring words that would need a complete rewrite.
func (p *pkgParser) recordNearMiss(word string, pos token.Position) {
	distance := levenshtein.DistanceForStrings(
		[]rune(word),
		[]rune(contractDirective),
		levenshtein.DefaultOptions,
	)
	if distance >= len(contractDirective) {
		return
	}
	if p.nearMiss != "" {
		existing := levenshtein.DistanceForStrings(
			[]rune(p.nearMiss),
			[]rune(contractDirective),
			levenshtein.DefaultOptions,
		)
		if existing <= distance {
			return
		}
	}
	p.nearMiss = word
	p.nearMissPos = pos
}

// collectPackageDecls records every package-level identifier so generated
// names can be checked for collisions.
func (p *pkgParser) collectPackageDecls() {
	for _, file := range p.files {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					p.recordDecl(d.Name)
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						p.recordDecl(s.Name)
					case *ast.ValueSpec:
						for _, name := range s.Names {
							p.recordDecl(name)
						}
					}
				}
			}
		}
	}
}

func (p *pkgParser) recordDecl(name *ast.Ident) {
	if name.Name == "_" {
		return
	}
	if _, ok := p.contract.decls[name.Name]; !ok {
		p.contract.decls[name.Name] = p.fset.Position(name.Pos())
	}
}

// collectMethods gathers the exported methods of the state struct in
// declaration order.
func (p *pkgParser) collectMethods() error {
	byName := make(map[string]token.Position)
	byExport := make(map[string]*Method)

	for _, file := range p.files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil {
				continue
			}
			method, err := p.parseMethod(file, fn)
			if err != nil {
				return err
			}
			if method == nil {
				continue
			}

			if first, ok := byName[method.name]; ok {
				return &DuplicateMethodError{Name: method.name, FirstPos: first, SecondPos: method.pos}
			}
			byName[method.name] = method.pos

			if prev, ok := byExport[method.export]; ok {
				return &DuplicateExportError{
					Export:    method.export,
					First:     prev.name,
					Second:    method.name,
					SecondPos: method.pos,
				}
			}
			byExport[method.export] = method

			method.declIdx = len(p.contract.methods)
			p.contract.methods = append(p.contract.methods, method)
		}
	}
	return nil
}

// parseMethod builds a Method from a declaration whose receiver is the
// state struct. Methods on other types and unexported methods pass through
// untouched and return nil.
func (p *pkgParser) parseMethod(file *ast.File, fn *ast.FuncDecl) (*Method, error) {
	recv := fn.Recv.List[0].Type
	pos := p.fset.Position(fn.Pos())

	var recvName string
	var access Access
	switch t := recv.(type) {
	case *ast.Ident:
		recvName, access = t.Name, AccessRead
	case *ast.StarExpr:
		ident, ok := t.X.(*ast.Ident)
		if !ok {
			if baseTypeName(t.X) == p.contract.name {
				return nil, &UnsupportedReceiverError{Method: fn.Name.Name, Form: p.exprString(recv), Pos: pos}
			}
			return nil, nil
		}
		recvName, access = ident.Name, AccessMutate
	default:
		if baseTypeName(recv) == p.contract.name {
			return nil, &UnsupportedReceiverError{Method: fn.Name.Name, Form: p.exprString(recv), Pos: pos}
		}
		return nil, nil
	}

	if recvName != p.contract.name {
		return nil, nil
	}
	if !fn.Name.IsExported() {
		return nil, nil
	}

	method := &Method{
		name:   fn.Name.Name,
		export: exportName(fn.Name.Name),
		access: access,
		pos:    pos,
		file:   file,
	}

	if fn.Type.Params != nil {
		argIdx := 0
		for _, field := range fn.Type.Params.List {
			if _, ok := field.Type.(*ast.Ellipsis); ok {
				return nil, &VariadicParameterError{Method: method.name, Pos: p.fset.Position(field.Pos())}
			}
			names := field.Names
			if len(names) == 0 {
				method.params = append(method.params, Param{Name: fmt.Sprintf("arg%d", argIdx), Type: field.Type})
				argIdx++
				continue
			}
			for _, name := range names {
				paramName := name.Name
				if paramName == "_" {
					paramName = fmt.Sprintf("arg%d", argIdx)
				}
				method.params = append(method.params, Param{Name: paramName, Type: field.Type})
				argIdx++
			}
		}
	}

	if fn.Type.Results != nil {
		count := 0
		for _, field := range fn.Type.Results.List {
			if len(field.Names) == 0 {
				count++
			} else {
				count += len(field.Names)
			}
			if method.result == nil {
				method.result = field.Type
			}
		}
		if count > 1 {
			return nil, &MultipleResultsError{Method: method.name, Pos: pos}
		}
	}

	return method, nil
}

// findConstructor looks for the single supported explicit construction
// path: func New<Type>() <Type> with no parameters.
func (p *pkgParser) findConstructor() {
	want := "New" + p.contract.name
	for _, file := range p.files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Name.Name != want {
				continue
			}
			if fn.Type.Params != nil && len(fn.Type.Params.List) > 0 {
				continue
			}
			if fn.Type.Results == nil || len(fn.Type.Results.List) != 1 {
				continue
			}
			ident, ok := fn.Type.Results.List[0].Type.(*ast.Ident)
			if !ok || ident.Name != p.contract.name {
				continue
			}
			p.contract.constructor = want
			return
		}
	}
}

// checkCollisions rejects contracts whose generated identifiers would
// shadow existing package-level declarations. The state cell name depends
// on options the parser does not see, so it is checked at emission time.
func (p *pkgParser) checkCollisions() error {
	for _, m := range p.contract.methods {
		if pos, ok := p.contract.decls[m.name]; ok {
			return &NameCollisionError{Name: m.name, Artifact: "dispatch function", Pos: pos}
		}
		if !m.HasParams() {
			continue
		}
		args := argsTypeName(m.name)
		if pos, ok := p.contract.decls[args]; ok {
			return &NameCollisionError{Name: args, Artifact: "args struct", Pos: pos}
		}
	}
	return nil
}

func (p *pkgParser) exprString(expr ast.Expr) string {
	var b strings.Builder
	if err := printer.Fprint(&b, p.fset, expr); err != nil {
		return "<invalid>"
	}
	return b.String()
}

// baseTypeName unwraps pointers and generic instantiations down to the
// receiver's base identifier.
func baseTypeName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.Ident:
			return t.Name
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		default:
			return ""
		}
	}
}

// isGenerated reports whether the file carries a generated-code marker
// before its package clause, per the Go convention.
func isGenerated(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			break
		}
		for _, comment := range group.List {
			if strings.HasPrefix(comment.Text, "// Code generated ") &&
				strings.HasSuffix(comment.Text, " DO NOT EDIT.") {
				return true
			}
		}
	}
	return false
}
