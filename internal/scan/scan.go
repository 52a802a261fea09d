// Package scan discovers Go packages below a root directory and extracts the
// struct types that are marked for builder derivation.
//
// A type is marked if the doc comment of its declaration contains the marker,
// by default `+builder:gen=true`:
//
//	// Command describes a process to start.
//	// +builder:gen=true
//	type Command struct {
//		Executable string
//		Args       []string `builder:"each=arg"`
//	}
package scan

import (
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"ocm.software/open-component-model/buildergen/internal/diag"
	"ocm.software/open-component-model/buildergen/internal/model"
)

const (
	// DefaultMarker is the comment marker selecting types for derivation.
	DefaultMarker = "+builder:gen=true"
	// DefaultOutputFile is the name of the file generated per package.
	DefaultOutputFile = "zz_generated.builder.go"
)

// Options control package discovery and scanning.
type Options struct {
	// Marker selects the types to derive builders for.
	Marker string
	// OutputFile is the generated file name; it is never scanned.
	OutputFile string
	// Exclude holds doublestar patterns matched against directory paths
	// relative to the scanned root.
	Exclude []string
}

func (o Options) marker() string {
	if o.Marker == "" {
		return DefaultMarker
	}
	return o.Marker
}

func (o Options) outputFile() string {
	if o.OutputFile == "" {
		return DefaultOutputFile
	}
	return o.OutputFile
}

// FindPackages recursively walks root and returns every directory containing
// Go source files. Like the go tool, it skips testdata directories and
// directories starting with "." or "_", except root itself.
func FindPackages(root string, opts Options) ([]string, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	var packages []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root {
			name := d.Name()
			if name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			excluded, err := isExcluded(root, path, opts.Exclude)
			if err != nil {
				return err
			}
			if excluded {
				slog.Debug("skipping excluded directory", "dir", path)
				return filepath.SkipDir
			}
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isValidGoFile(entry.Name(), opts.outputFile()) {
				packages = append(packages, path)
				break
			}
		}
		return nil
	})
	return packages, err
}

func isExcluded(root, path string, patterns []string) (bool, error) {
	if len(patterns) == 0 {
		return false, nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, err
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		match, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// isValidGoFile checks if a file should be considered for parsing.
func isValidGoFile(name, outputFile string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != outputFile &&
		!strings.HasPrefix(name, "zz_generated.")
}

// Package parses the Go files of dir that match the current build context and
// returns the marked records in file and declaration order. Structural
// problems of marked types are returned as joined diagnostics; the returned
// package then only holds the records that could be scanned.
func Package(dir string, opts Options) (*model.Package, error) {
	fset := token.NewFileSet()
	pkg := &model.Package{Dir: dir}
	var diags diag.List

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !isValidGoFile(entry.Name(), opts.outputFile()) {
			continue
		}
		if ok, err := build.Default.MatchFile(dir, entry.Name()); err != nil {
			return nil, err
		} else if !ok {
			slog.Debug("skipping file excluded by build constraints", "file", entry.Name())
			continue
		}

		fullPath := filepath.Join(dir, entry.Name())
		file, err := parser.ParseFile(fset, fullPath, nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}

		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		}

		records := scanFile(fset, fullPath, file, opts.marker(), &diags)
		if len(records) == 0 {
			continue
		}
		pkg.Records = append(pkg.Records, records...)
		pkg.Files = append(pkg.Files, &model.File{
			Path:    fullPath,
			Imports: fileImports(fset, file),
		})
	}

	diags.Sort()
	return pkg, diags.Err()
}

func scanFile(fset *token.FileSet, path string, file *ast.File, marker string, diags *diag.List) []*model.Record {
	var records []*model.Record
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || !hasMarker(marker, genDecl.Doc, typeSpec.Doc) {
				continue
			}

			record, err := newRecord(fset, path, typeSpec, marker)
			if err != nil {
				diags.Add(err)
				continue
			}
			records = append(records, record)
		}
	}
	return records
}

// hasMarker returns true if any comment group contains the marker.
func hasMarker(marker string, groups ...*ast.CommentGroup) bool {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if strings.Contains(strings.TrimSpace(c.Text), marker) {
				return true
			}
		}
	}
	return false
}

func newRecord(fset *token.FileSet, path string, spec *ast.TypeSpec, marker string) (*model.Record, error) {
	pos := fset.Position(spec.Name.Pos())
	structType, ok := spec.Type.(*ast.StructType)
	if !ok || spec.Assign.IsValid() {
		return nil, diag.Structural(pos, "type %s is marked with %s but is not a struct with named fields", spec.Name.Name, marker)
	}

	record := &model.Record{
		Name: spec.Name.Name,
		Pos:  pos,
		File: path,
	}

	if spec.TypeParams != nil {
		for _, param := range spec.TypeParams.List {
			constraint := model.ExprString(fset, param.Type)
			for _, name := range param.Names {
				record.TypeParams = append(record.TypeParams, model.TypeParam{Name: name.Name, Constraint: constraint})
			}
		}
	}

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			return nil, diag.Structural(fset.Position(field.Type.Pos()),
				"embedded field %s in type %s is not supported, builders require named fields",
				types.ExprString(field.Type), spec.Name.Name)
		}

		var tag string
		var tagPos token.Position
		if field.Tag != nil {
			tagPos = fset.Position(field.Tag.Pos())
			if unquoted, err := strconv.Unquote(field.Tag.Value); err == nil {
				tag = unquoted
			}
		}

		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			record.Fields = append(record.Fields, &model.Field{
				Name:       name.Name,
				Type:       field.Type,
				TypeString: model.ExprString(fset, field.Type),
				Fset:       fset,
				Tag:        tag,
				Pos:        fset.Position(name.Pos()),
				TagPos:     tagPos,
			})
		}
	}

	return record, nil
}

func fileImports(fset *token.FileSet, file *ast.File) []model.Import {
	imports := make([]model.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := model.Import{Path: path, Pos: fset.Position(spec.Pos())}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}
