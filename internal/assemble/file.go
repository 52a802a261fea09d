package assemble

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"ocm.software/open-component-model/buildergen/internal/diag"
	"ocm.software/open-component-model/buildergen/internal/model"
)

const (
	// Generator is the tool name written into the generated file header.
	Generator = "buildergen"
	// BuildConstraint keeps generated files out of builds that regenerate them.
	BuildConstraint = "//go:build !ignore_autogenerated"

	errorsImport = "errors"
)

// Header returns the marker comment identifying generated files.
func Header() string {
	return fmt.Sprintf("// Code generated by %s. DO NOT EDIT.", Generator)
}

// File renders the generated file for pkg. filename is the destination path,
// used to resolve and prune imports. Diagnostics of every record are joined;
// if any record fails, no output is returned.
func File(pkg *model.Package, filename string) ([]byte, error) {
	var diags diag.List
	var body bytes.Buffer
	var needsErrors bool

	for i, record := range pkg.Records {
		r, err := renderRecord(record)
		if err != nil {
			if !diags.Add(err) {
				return nil, fmt.Errorf("rendering builder for %s: %w", record.Name, err)
			}
			continue
		}
		if i > 0 {
			body.WriteString("\n")
		}
		body.Write(r.src)
		needsErrors = needsErrors || r.needsErrors
	}

	specs, err := importSpecs(pkg, needsErrors)
	if err != nil {
		diags.Add(err)
	}
	if len(diags) > 0 {
		diags.Sort()
		return nil, diags.Err()
	}

	var src bytes.Buffer
	fmt.Fprintf(&src, "%s\n\n%s\n\npackage %s\n", BuildConstraint, Header(), pkg.Name)
	switch len(specs) {
	case 0:
	case 1:
		fmt.Fprintf(&src, "\nimport %s\n", specs[0])
	default:
		src.WriteString("\nimport (\n")
		for _, spec := range specs {
			fmt.Fprintf(&src, "\t%s\n", spec)
		}
		src.WriteString(")\n")
	}
	src.WriteString("\n")
	src.Write(body.Bytes())

	formatted, err := imports.Process(filename, src.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for package %s: %w", pkg.Name, err)
	}
	return formatted, nil
}

// importSpecs selects the imports of the source files that the generated
// declarations refer to. Blank and dot imports are never copied.
func importSpecs(pkg *model.Package, needsErrors bool) ([]string, error) {
	type selected struct {
		imp  model.Import
		name string
	}
	var specs []string
	byName := map[string]selected{}
	seen := map[string]bool{}

	add := func(imp model.Import) {
		spec := strconv.Quote(imp.Path)
		if imp.Name != "" {
			spec = imp.Name + " " + spec
		}
		if !seen[spec] {
			seen[spec] = true
			specs = append(specs, spec)
		}
	}

	if needsErrors {
		byName[errorsImport] = selected{imp: model.Import{Path: errorsImport}, name: errorsImport}
		add(model.Import{Path: errorsImport})
	}

	for _, file := range pkg.Files {
		refs := referencedPackages(pkg.Records, file.Path)
		var unresolved bool
		for _, ref := range refs {
			imp, ok := findImport(file.Imports, ref)
			if !ok {
				unresolved = true
				continue
			}
			if prev, ok := byName[ref]; ok && prev.imp.Path != imp.Path {
				return nil, diag.Conflict(imp.Pos, "import %q as %s conflicts with import %q used by the generated code",
					imp.Path, ref, prev.imp.Path)
			}
			byName[ref] = selected{imp: imp, name: ref}
			add(imp)
		}
		if unresolved {
			// the package name of an unaliased import is only known after
			// loading it, let imports.Process prune what is not used.
			for _, imp := range file.Imports {
				if imp.Name == "" {
					add(imp)
				}
			}
		}
	}

	return specs, nil
}

func findImport(imps []model.Import, name string) (model.Import, bool) {
	for _, imp := range imps {
		if imp.Name == "_" || imp.Name == "." {
			continue
		}
		if imp.Name == name || (imp.Name == "" && assumedName(imp.Path) == name) {
			return imp, true
		}
	}
	return model.Import{}, false
}

// referencedPackages returns the package qualifiers used by the field types
// and type parameter constraints of the records declared in file.
func referencedPackages(records []*model.Record, file string) []string {
	var refs []string
	visit := func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok && !slices.Contains(refs, ident.Name) {
			refs = append(refs, ident.Name)
		}
		return false
	}
	for _, record := range records {
		if record.File != file {
			continue
		}
		for _, field := range record.Fields {
			ast.Inspect(field.Type, visit)
		}
		for _, param := range record.TypeParams {
			if expr, err := parser.ParseExpr(param.Constraint); err == nil {
				ast.Inspect(expr, visit)
			}
		}
	}
	return refs
}

// assumedName guesses the package name of an import path the way goimports
// does: the last element without a major version suffix or "go-" prefix.
func assumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			dir := path.Dir(importPath)
			if dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_' || r >= 0x80)
	}); i >= 0 {
		base = base[:i]
	}
	return base
}
