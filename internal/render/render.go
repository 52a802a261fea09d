// Package render encodes field reports of the inspect command.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/buildergen/internal/generate"
)

const (
	FormatTable  = "table"
	FormatYAML   = "yaml"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Formats lists the supported output formats, the default first.
func Formats() []string {
	return []string{FormatTable, FormatYAML, FormatJSON, FormatNDJSON}
}

// Reports writes reports to w in the given format.
func Reports(w io.Writer, format string, reports []generate.FieldReport) error {
	var data []byte
	var err error
	switch format {
	case FormatTable:
		data = reportsAsTable(reports)
	case FormatYAML:
		data, err = yaml.Marshal(nonNil(reports))
	case FormatJSON:
		data, err = json.MarshalIndent(nonNil(reports), "", "  ")
		data = append(data, '\n')
	case FormatNDJSON:
		data, err = reportsAsNDJSON(reports)
	default:
		err = fmt.Errorf("unknown output format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding field reports as %q failed: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

func nonNil(reports []generate.FieldReport) []generate.FieldReport {
	if reports == nil {
		return []generate.FieldReport{}
	}
	return reports
}

func reportsAsNDJSON(reports []generate.FieldReport) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, report := range reports {
		if err := encoder.Encode(report); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func reportsAsTable(reports []generate.FieldReport) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Package", "Record", "Field", "Type", "Kind", "Setter", "Required"})
	for _, r := range reports {
		t.AppendRow(table.Row{r.Dir, r.Record, r.Field, r.Type, r.Kind, r.Setter, r.Required})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
