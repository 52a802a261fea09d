package generate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/buildergen/internal/diag"
)

func TestInspect(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"options.go": "package options\n\n// +builder:gen=true\ntype Options struct {\n\tName *string\n\tLabels []string `builder:\"each=label\"`\n\tRetries int\n}\n",
	})

	reports, err := New().Inspect(t.Context(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, []FieldReport{
		{Dir: root, Record: "Options", Field: "Name", Type: "*string", Kind: "OptionalWrapped", Setter: "Name"},
		{Dir: root, Record: "Options", Field: "Labels", Type: "[]string", Kind: "RepeatedAppend", Setter: "Label"},
		{Dir: root, Record: "Options", Field: "Retries", Type: "int", Kind: "Plain", Setter: "Retries", Required: true},
	}, reports)
}

func TestInspectErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/a.go": "package a\n\n// +builder:gen=true\ntype A struct {\n\tArgs []string `builder:\"each=1\"`\n}\n",
		"b/b.go": "package b\n\n// +builder:gen=true\ntype B int\n\n// +builder:gen=true\ntype C struct{ Name string }\n",
	})

	reports, err := New().Inspect(t.Context(), []string{root})
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrAnnotationShape)
	assert.ErrorIs(t, err, diag.ErrStructural)
	assert.Equal(t, []FieldReport{
		{Dir: filepath.Join(root, "b"), Record: "C", Field: "Name", Type: "string", Kind: "Plain", Setter: "Name", Required: true},
	}, reports)
}
