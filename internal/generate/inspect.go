package generate

import (
	"context"
	"errors"
	"fmt"

	"ocm.software/open-component-model/buildergen/internal/classify"
	"ocm.software/open-component-model/buildergen/internal/model"
	"ocm.software/open-component-model/buildergen/internal/scan"
	"ocm.software/open-component-model/buildergen/internal/synth"
)

// FieldReport describes how the builder of a record treats one field.
type FieldReport struct {
	Dir      string `json:"dir"`
	Record   string `json:"record"`
	Field    string `json:"field"`
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	Setter   string `json:"setter"`
	Required bool   `json:"required"`
}

// Inspect classifies the fields of every marked record below roots without
// rendering or writing anything.
func (g *Generator) Inspect(ctx context.Context, roots []string) ([]FieldReport, error) {
	dirs, err := g.Packages(roots)
	if err != nil {
		return nil, err
	}

	var reports []FieldReport
	var errs []error
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, err := scan.Package(dir, g.scanOptions)
		if err != nil {
			errs = append(errs, fmt.Errorf("package %s: %w", dir, err))
		}
		if pkg == nil {
			continue
		}
		for _, record := range pkg.Records {
			fields, err := inspectRecord(dir, record)
			if err != nil {
				errs = append(errs, fmt.Errorf("package %s: %w", dir, err))
				continue
			}
			reports = append(reports, fields...)
		}
	}
	return reports, errors.Join(errs...)
}

func inspectRecord(dir string, record *model.Record) ([]FieldReport, error) {
	classes, err := classify.All(record)
	if err != nil {
		return nil, err
	}
	reports := make([]FieldReport, len(record.Fields))
	for i, field := range record.Fields {
		reports[i] = FieldReport{
			Dir:      dir,
			Record:   record.Name,
			Field:    field.Name,
			Type:     field.TypeString,
			Kind:     classes[i].Kind.String(),
			Setter:   synth.SetterName(field.Name, classes[i]),
			Required: classes[i].Kind == model.Plain,
		}
	}
	return reports, nil
}
