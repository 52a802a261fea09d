// Package annotation parses the `builder` struct tag attached to record fields.
//
// The only recognized form is
//
//	Args []string `builder:"each=arg"`
//
// which names a setter that appends a single element instead of replacing the
// whole slice.
package annotation

import (
	"go/token"
	"reflect"
	"strings"

	"ocm.software/open-component-model/buildergen/internal/diag"
	"ocm.software/open-component-model/buildergen/internal/model"
)

const (
	// TagKey is the struct tag key read by the generator.
	TagKey = "builder"
	// EachKey is the only key accepted inside the tag value.
	EachKey = "each"
	// ShapeMessage is reported for every malformed `builder` tag.
	ShapeMessage = "expected `builder(each = \"...\")`"
)

// Parse extracts the append setter rename from the field's tag.
// It returns false without error if the field carries no `builder` tag at all
// and a diagnostic anchored at the tag if the tag does not match `each=<ident>`.
func Parse(field *model.Field) (model.Annotation, bool, error) {
	if field.Tag == "" {
		return model.Annotation{}, false, nil
	}

	value, ok := reflect.StructTag(field.Tag).Lookup(TagKey)
	if !ok {
		if mentionsKey(field.Tag) {
			return model.Annotation{}, false, diag.AnnotationShape(field.TagPos, ShapeMessage)
		}
		return model.Annotation{}, false, nil
	}

	each, ok := parseValue(value)
	if !ok {
		return model.Annotation{}, false, diag.AnnotationShape(field.TagPos, ShapeMessage)
	}
	return model.Annotation{Each: each}, true, nil
}

// parseValue accepts exactly one `each=<ident>` entry.
func parseValue(value string) (string, bool) {
	if strings.Contains(value, ",") {
		return "", false
	}
	key, ident, found := strings.Cut(value, "=")
	if !found || strings.TrimSpace(key) != EachKey {
		return "", false
	}
	ident = strings.TrimSpace(ident)
	if !token.IsIdentifier(ident) || ident == "_" {
		return "", false
	}
	return ident, true
}

// mentionsKey detects a `builder` key whose value is not a quoted string,
// e.g. `builder:each=arg`, which reflect.StructTag silently ignores. Text
// inside the quoted values of other keys is not inspected.
func mentionsKey(tag string) bool {
	var quoted, escaped bool
	start := 0
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quoted:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				quoted = false
				start = i + 1
			}
		case c == '"':
			quoted = true
		case c == ' ' || c == '\t':
			start = i + 1
		case c == ':':
			if tag[start:i] == TagKey {
				return true
			}
		}
	}
	return false
}
