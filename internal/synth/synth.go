// Package synth produces the Go source fragments for a single record field.
package synth

import (
	"fmt"
	"strconv"
	"strings"

	"ocm.software/open-component-model/buildergen/internal/model"
)

const (
	// Receiver is the preferred receiver name of the generated builder methods.
	Receiver = "b"
	// Param is the preferred parameter name of the generated setters.
	Param = "value"
)

// MissingFieldMessage is the error text returned by Build for an unset
// required field.
func MissingFieldMessage(field string) string {
	return fmt.Sprintf("field %q required, but not set yet.", field)
}

// Names are the identifiers a field's fragments refer to.
type Names struct {
	// Record is the record type as used in expressions, e.g. `Pair[K, V]`.
	Record string
	// Builder is the builder type as used in expressions, e.g. `PairBuilder[K, V]`.
	Builder string
	// Storage is the builder field holding the value.
	Storage string
	// Setter is the method name setting or appending the value.
	Setter string
	// Receiver and Param override the default receiver and setter parameter
	// names, e.g. if a type parameter of the record already uses them.
	Receiver string
	Param    string
}

func (n Names) receiver() string {
	if n.Receiver == "" {
		return Receiver
	}
	return n.Receiver
}

func (n Names) param() string {
	if n.Param == "" {
		return Param
	}
	return n.Param
}

// Synthesize returns the storage declaration, setter, finalization statement
// and struct-literal entry for field.
func Synthesize(names Names, field *model.Field, c model.Classification) model.Fragments {
	return model.Fragments{
		Storage:      storage(names, c),
		Setter:       setter(names, field, c),
		Finalization: finalization(names, field, c),
		Literal:      literal(names, field, c),
	}
}

func storage(names Names, c model.Classification) string {
	switch c.Kind {
	case model.RepeatedAppend:
		return fmt.Sprintf("\t%s []%s\n", names.Storage, c.Inner)
	default:
		return fmt.Sprintf("\t%s *%s\n", names.Storage, c.Inner)
	}
}

func setter(names Names, field *model.Field, c model.Classification) string {
	recv, param := names.receiver(), names.param()
	var sb strings.Builder
	switch c.Kind {
	case model.RepeatedAppend:
		fmt.Fprintf(&sb, "// %s appends %s to the %s field.\n", names.Setter, param, field.Name)
	default:
		fmt.Fprintf(&sb, "// %s sets the %s field.\n", names.Setter, field.Name)
	}
	fmt.Fprintf(&sb, "func (%s *%s) %s(%s %s) *%s {\n", recv, names.Builder, names.Setter, param, c.Inner, names.Builder)
	switch c.Kind {
	case model.RepeatedAppend:
		fmt.Fprintf(&sb, "\t%[1]s.%[2]s = append(%[1]s.%[2]s, %[3]s)\n", recv, names.Storage, param)
	default:
		fmt.Fprintf(&sb, "\t%s.%s = &%s\n", recv, names.Storage, param)
	}
	fmt.Fprintf(&sb, "\treturn %s\n}\n", recv)
	return sb.String()
}

// finalization is empty for fields whose absence is a valid state.
func finalization(names Names, field *model.Field, c model.Classification) string {
	if c.Kind != model.Plain {
		return ""
	}
	return fmt.Sprintf("\tif %s.%s == nil {\n\t\treturn %s{}, errors.New(%s)\n\t}\n",
		names.receiver(), names.Storage, names.Record, strconv.Quote(MissingFieldMessage(field.Name)))
}

func literal(names Names, field *model.Field, c model.Classification) string {
	if c.Kind == model.Plain {
		return fmt.Sprintf("\t\t%s: *%s.%s,\n", field.Name, names.receiver(), names.Storage)
	}
	return fmt.Sprintf("\t\t%s: %s.%s,\n", field.Name, names.receiver(), names.Storage)
}
