// Package classify assigns every record field to exactly one shape class.
//
// Classification is purely syntactic: a field is OptionalWrapped if its
// declared type is written as a pointer `*T`, and RepeatedAppend if it is
// written as a slice `[]T` and carries a valid `builder:"each=..."` tag.
// Named pointer or slice types (`type Args []string`) are not unwrapped and
// fall back to Plain, as does an array `[N]T`.
package classify

import (
	"go/ast"

	"ocm.software/open-component-model/buildergen/internal/annotation"
	"ocm.software/open-component-model/buildergen/internal/model"
)

// Classify returns the shape class of field and the setter parameter type.
// A malformed annotation on a slice field is returned as error and must abort
// the derivation of the whole record.
func Classify(field *model.Field) (model.Classification, error) {
	if inner, ok := optionalInner(field.Type); ok {
		return model.Classification{
			Kind:  model.OptionalWrapped,
			Inner: model.ExprString(field.Fset, inner),
		}, nil
	}

	if elem, ok := sliceElem(field.Type); ok {
		ann, found, err := annotation.Parse(field)
		if err != nil {
			return model.Classification{}, err
		}
		if found {
			return model.Classification{
				Kind:  model.RepeatedAppend,
				Inner: model.ExprString(field.Fset, elem),
				Each:  ann.Each,
			}, nil
		}
	}

	return model.Classification{
		Kind:  model.Plain,
		Inner: typeString(field),
	}, nil
}

// All classifies the fields of a record in declaration order and stops at the
// first failing field.
func All(record *model.Record) ([]model.Classification, error) {
	classes := make([]model.Classification, 0, len(record.Fields))
	for _, field := range record.Fields {
		c, err := Classify(field)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func optionalInner(expr ast.Expr) (ast.Expr, bool) {
	star, ok := unparen(expr).(*ast.StarExpr)
	if !ok {
		return nil, false
	}
	return star.X, true
}

func sliceElem(expr ast.Expr) (ast.Expr, bool) {
	arr, ok := unparen(expr).(*ast.ArrayType)
	if !ok || arr.Len != nil {
		return nil, false
	}
	return arr.Elt, true
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

func typeString(field *model.Field) string {
	if field.TypeString != "" {
		return field.TypeString
	}
	return model.ExprString(field.Fset, field.Type)
}
