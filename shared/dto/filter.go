package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Filter is one comparison against a column. ArgName overrides the bind
// name when the same column appears twice in a group.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq is_null is_not_null"`
	Table    string
}

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// GetWhereClause renders the filter as a named-parameter fragment. An unknown
// operator renders nothing and an IN over an empty list matches no row.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	column := f.Field
	if f.Table != "" {
		column = f.Table + "." + f.Field
	}

	bind := f.ArgName
	if bind == "" {
		bind = f.Field
	}

	if op, ok := comparisons[f.Operator]; ok {
		args[bind] = f.Value

		return fmt.Sprintf("%s %s :%s", column, op, bind), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[bind] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, bind), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if !val.IsValid() || (val.Kind() != reflect.Slice && val.Kind() != reflect.Array) {
			args[bind] = f.Value

			return fmt.Sprintf("%s = :%s", column, bind), args
		}

		if val.Len() == 0 {
			return "FALSE", args
		}

		named := make([]string, val.Len())

		for idx := range val.Len() {
			name := fmt.Sprintf("%s_%d", bind, idx)
			args[name] = val.Index(idx).Interface()
			named[idx] = ":" + name
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	default:
		return "", args
	}
}

// FilterGroup joins filters and nested groups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

// Add appends a filter or a nested group and returns the group for chaining.
func (f *FilterGroup) Add(filters ...any) *FilterGroup {
	f.Filters = append(f.Filters, filters...)

	return f
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case *Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		case *FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
