// Package model holds the intermediate representation shared by the builder
// derivation pipeline: the scanned records and fields, their classification
// and the code fragments synthesized for them.
package model

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
)

// Package is a Go package directory that contains records marked for derivation.
type Package struct {
	// Dir is the directory of the package.
	Dir string
	// Name is the package name declared by the files in Dir.
	Name string
	// Files are the parsed source files that declare at least one record.
	Files []*File
	// Records are the marked records in file and declaration order.
	Records []*Record
}

// File is a scanned source file.
type File struct {
	Path    string
	Imports []Import
}

// Import is a single import spec of a source file.
type Import struct {
	// Name is the explicit import name, empty if the import is not renamed.
	Name string
	Path string
	Pos  token.Position
}

// Record describes a named struct type marked for builder derivation.
type Record struct {
	Name       string
	TypeParams []TypeParam
	Fields     []*Field
	Pos        token.Position
	File       string
}

// TypeParam is one type parameter of a generic record.
type TypeParam struct {
	Name       string
	Constraint string
}

// Exported reports whether the record name is exported.
func (r *Record) Exported() bool {
	return token.IsExported(r.Name)
}

// Field is one named member of a record.
type Field struct {
	Name string
	// Type is the declared type expression.
	Type ast.Expr
	// TypeString is the printed form of Type.
	TypeString string
	// Fset is the file set Type was parsed with.
	Fset *token.FileSet
	// Tag is the unquoted struct tag, empty if the field has none.
	Tag    string
	Pos    token.Position
	TagPos token.Position
}

// Annotation is the parsed `builder` struct tag of a field.
type Annotation struct {
	// Each names the setter that appends a single element.
	Each string
}

// Kind is the shape class of a field.
type Kind int

const (
	// Plain fields must be set before Build.
	Plain Kind = iota
	// OptionalWrapped fields are pointers; unset maps to nil.
	OptionalWrapped
	// RepeatedAppend fields are slices filled one element per setter call.
	RepeatedAppend
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "Plain"
	case OptionalWrapped:
		return "OptionalWrapped"
	case RepeatedAppend:
		return "RepeatedAppend"
	default:
		return "Unknown"
	}
}

// Classification is the derived shape of a field.
type Classification struct {
	Kind Kind
	// Inner is the setter parameter type: the pointer or slice element type
	// for OptionalWrapped and RepeatedAppend, the declared type for Plain.
	Inner string
	// Each is the append setter rename of a RepeatedAppend field.
	Each string
}

// Fragments are the code snippets synthesized for one field.
type Fragments struct {
	Storage      string
	Setter       string
	Finalization string
	Literal      string
}

// ExprString prints expr as Go source. Unlike types.ExprString it keeps the
// tags of anonymous struct types, which are part of the type's identity.
func ExprString(fset *token.FileSet, expr ast.Expr) string {
	if fset == nil {
		fset = token.NewFileSet()
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}
