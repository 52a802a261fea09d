// Package diag provides positioned diagnostics reported while deriving builders.
//
// A Diagnostic is an error anchored at the most specific source location known
// for the failure: the type declaration for structural problems, the struct tag
// for annotation problems. Diagnostics unwrap to one of the sentinel errors of
// this package so callers can classify them with [errors.Is].
package diag

import (
	"errors"
	"fmt"
	"go/token"
	"slices"
	"strings"
)

var (
	// ErrStructural marks a type that cannot be derived because of its shape,
	// e.g. a marked type that is not a struct or a struct with embedded fields.
	ErrStructural = errors.New("structural error")
	// ErrAnnotationShape marks a malformed `builder` struct tag.
	ErrAnnotationShape = errors.New("annotation shape error")
	// ErrConflict marks generated identifiers or imports that would collide.
	ErrConflict = errors.New("conflict error")
)

// Diagnostic is a generation-time failure at a source position.
type Diagnostic struct {
	Pos     token.Position
	Kind    error
	Message string
}

// Structural creates a diagnostic of kind ErrStructural.
func Structural(pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Kind: ErrStructural, Message: fmt.Sprintf(format, args...)}
}

// AnnotationShape creates a diagnostic of kind ErrAnnotationShape.
func AnnotationShape(pos token.Position, msg string) *Diagnostic {
	return &Diagnostic{Pos: pos, Kind: ErrAnnotationShape, Message: msg}
}

// Conflict creates a diagnostic of kind ErrConflict.
func Conflict(pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return d.Message
	}
	return d.Pos.String() + ": " + d.Message
}

func (d *Diagnostic) Unwrap() error {
	return d.Kind
}

// List collects diagnostics of several records or packages.
type List []*Diagnostic

// Add appends err to the list if it is a Diagnostic and reports whether it was one.
func (l *List) Add(err error) bool {
	var d *Diagnostic
	if !errors.As(err, &d) {
		return false
	}
	*l = append(*l, d)
	return true
}

// Sort orders the diagnostics by file, line and column.
func (l List) Sort() {
	slices.SortStableFunc(l, func(a, b *Diagnostic) int {
		if c := strings.Compare(a.Pos.Filename, b.Pos.Filename); c != 0 {
			return c
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line - b.Pos.Line
		}
		return a.Pos.Column - b.Pos.Column
	})
}

// Err returns nil for an empty list and the joined diagnostics otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errors.Join(errs...)
}
