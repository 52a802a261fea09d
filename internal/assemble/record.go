// Package assemble turns classified record fields into complete builder
// declarations and renders the generated file of a package.
package assemble

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"ocm.software/open-component-model/buildergen/internal/classify"
	"ocm.software/open-component-model/buildergen/internal/diag"
	"ocm.software/open-component-model/buildergen/internal/model"
	"ocm.software/open-component-model/buildergen/internal/synth"
)

// rendered is the unformatted output for a single record.
type rendered struct {
	src []byte
	// needsErrors is set if Build checks required fields.
	needsErrors bool
}

// Record renders the constructor, builder type, setters and Build method for
// record. The output is not formatted.
func Record(record *model.Record) ([]byte, error) {
	r, err := renderRecord(record)
	if err != nil {
		return nil, err
	}
	return r.src, nil
}

func renderRecord(record *model.Record) (rendered, error) {
	classes, err := classify.All(record)
	if err != nil {
		return rendered{}, err
	}

	if err := checkTypeParams(record, classes); err != nil {
		return rendered{}, err
	}

	typeNames := typeNamesFor(record)
	fragments := make([]model.Fragments, len(record.Fields))
	storages := make(map[string]*model.Field, len(record.Fields))
	setters := make(map[string]*model.Field, len(record.Fields))

	for i, field := range record.Fields {
		names := typeNames
		names.Storage = synth.StorageName(field.Name)
		names.Setter = synth.SetterName(field.Name, classes[i])

		if other, ok := storages[names.Storage]; ok {
			return rendered{}, diag.Conflict(field.Pos, "field %s of type %s conflicts with field %s: both are stored as %s",
				field.Name, record.Name, other.Name, names.Storage)
		}
		storages[names.Storage] = field

		if names.Setter == synth.BuildMethod {
			return rendered{}, diag.Conflict(field.Pos, "setter for field %s of type %s would shadow the %s method",
				field.Name, record.Name, synth.BuildMethod)
		}
		if other, ok := setters[names.Setter]; ok {
			return rendered{}, diag.Conflict(field.Pos, "setter %s for field %s of type %s is already generated for field %s",
				names.Setter, field.Name, record.Name, other.Name)
		}
		setters[names.Setter] = field

		fragments[i] = synth.Synthesize(names, field, classes[i])
	}

	return assembleRecord(record, typeNames, fragments), nil
}

// checkTypeParams reports type parameters that would shadow a package level
// name the generated declarations refer to.
func checkTypeParams(record *model.Record, classes []model.Classification) error {
	builder := synth.BuilderName(record.Name)
	needsErrors := slices.ContainsFunc(classes, func(c model.Classification) bool {
		return c.Kind == model.Plain
	})
	for _, p := range record.TypeParams {
		switch {
		case p.Name == builder:
			return diag.Conflict(record.Pos, "type parameter %s of type %s shadows the builder type %s",
				p.Name, record.Name, builder)
		case p.Name == errorsImport && needsErrors:
			return diag.Conflict(record.Pos, "type parameter %s of type %s shadows the %q package used by %s",
				p.Name, record.Name, errorsImport, synth.BuildMethod)
		}
	}
	return nil
}

// typeNamesFor returns the record and builder type expressions, instantiated
// with the record's type parameters, and receiver and parameter names that no
// type parameter uses.
func typeNamesFor(record *model.Record) synth.Names {
	inst := instantiation(record)
	taken := make(map[string]bool, len(record.TypeParams))
	for _, p := range record.TypeParams {
		taken[p.Name] = true
	}
	return synth.Names{
		Record:   record.Name + inst,
		Builder:  synth.BuilderName(record.Name) + inst,
		Receiver: synth.FreeName(synth.Receiver, taken),
		Param:    synth.FreeName(synth.Param, taken),
	}
}

func instantiation(record *model.Record) string {
	if len(record.TypeParams) == 0 {
		return ""
	}
	names := make([]string, len(record.TypeParams))
	for i, p := range record.TypeParams {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func typeParamDecl(record *model.Record) string {
	if len(record.TypeParams) == 0 {
		return ""
	}
	params := make([]string, len(record.TypeParams))
	for i, p := range record.TypeParams {
		params[i] = p.Name + " " + p.Constraint
	}
	return "[" + strings.Join(params, ", ") + "]"
}

func assembleRecord(record *model.Record, names synth.Names, fragments []model.Fragments) rendered {
	var buf bytes.Buffer
	builder := synth.BuilderName(record.Name)
	constructor := synth.ConstructorName(record.Name)
	decl := typeParamDecl(record)

	fmt.Fprintf(&buf, "// %s returns an empty %s.\n", constructor, builder)
	fmt.Fprintf(&buf, "func %s%s() *%s {\n\treturn &%s{}\n}\n\n", constructor, decl, names.Builder, names.Builder)

	fmt.Fprintf(&buf, "// %s is an autogenerated builder for %s.\n", builder, record.Name)
	fmt.Fprintf(&buf, "type %s%s struct {\n", builder, decl)
	for _, f := range fragments {
		buf.WriteString(f.Storage)
	}
	buf.WriteString("}\n")

	for _, f := range fragments {
		buf.WriteString("\n")
		buf.WriteString(f.Setter)
	}

	var needsErrors bool
	fmt.Fprintf(&buf, "\n// %s returns the %s populated from the builder.\n", synth.BuildMethod, record.Name)
	fmt.Fprintf(&buf, "// It fails for the first required field that has not been set.\n")
	fmt.Fprintf(&buf, "func (%s *%s) %s() (%s, error) {\n", names.Receiver, names.Builder, synth.BuildMethod, names.Record)
	for _, f := range fragments {
		if f.Finalization != "" {
			needsErrors = true
			buf.WriteString(f.Finalization)
		}
	}
	if len(fragments) == 0 {
		fmt.Fprintf(&buf, "\treturn %s{}, nil\n}\n", names.Record)
	} else {
		fmt.Fprintf(&buf, "\treturn %s{\n", names.Record)
		for _, f := range fragments {
			buf.WriteString(f.Literal)
		}
		buf.WriteString("\t}, nil\n}\n")
	}

	return rendered{src: buf.Bytes(), needsErrors: needsErrors}
}
