package synth

import (
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"

	"ocm.software/open-component-model/buildergen/internal/model"
)

// BuildMethod is the terminal method of every builder.
const BuildMethod = "Build"

// StorageName is the unexported builder field backing a record field.
// Keywords such as `type` get an underscore suffix.
func StorageName(field string) string {
	name := lowerFirst(field)
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}

// SetterName is the exported method setting field, or appending to it if the
// field carries an `each` rename.
func SetterName(field string, c model.Classification) string {
	if c.Kind == model.RepeatedAppend && c.Each != "" {
		return upperFirst(c.Each)
	}
	return upperFirst(field)
}

// BuilderName is the name of the builder type generated for record.
func BuilderName(record string) string {
	return record + "Builder"
}

// ConstructorName is the function returning an empty builder. It is exported
// if and only if the record is.
func ConstructorName(record string) string {
	if token.IsExported(record) {
		return "New" + BuilderName(record)
	}
	return "new" + upperFirst(BuilderName(record))
}

// FreeName returns name, or name with the smallest numeric suffix, that is
// not contained in taken.
func FreeName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
