// Package query compiles client-supplied conference filters into an ordered
// query plan that the stores execute.
//
// A plan permits non-equality comparisons on at most one field, the
// limitation indexed range queries impose. The check runs over criteria in
// the order given; nothing is reordered before validation.
package query

import (
	"strconv"
	"strings"

	dErrors "confcentral/pkg/domain-errors"
)

// Criterion is one raw (field, operator, value) triple from a client.
type Criterion struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Predicate is a validated criterion. Int is set for integer fields, Text
// for the others.
type Predicate struct {
	Field    Field
	Operator Operator
	Text     string
	Int      int
}

// Value returns the typed comparison value.
func (p Predicate) Value() any {
	if p.Field.IsInteger() {
		return p.Int
	}
	return p.Text
}

// Plan is an executable conference query: sort keys first, then predicates
// applied in input order.
type Plan struct {
	// InequalityField is the single field compared with a non-equality
	// operator, or zero.
	InequalityField Field
	Order           []Field
	Predicates      []Predicate
}

// HasInequality reports whether the plan range-filters a field.
func (p Plan) HasInequality() bool {
	return p.InequalityField != 0
}

type validated struct {
	field    Field
	operator Operator
	value    string
}

// Compile validates criteria and builds the plan. Unknown fields or
// operators, and non-equality operators on two different fields, fail with
// CodeInvalidFilter. Values for integer fields that do not parse fail with
// CodeBadRequest.
func Compile(criteria []Criterion) (Plan, error) {
	var inequality Field
	checked := make([]validated, 0, len(criteria))

	for _, c := range criteria {
		field, okField := ParseField(strings.TrimSpace(c.Field))
		op, okOp := ParseOperator(strings.TrimSpace(c.Operator))
		if !okField || !okOp {
			return Plan{}, dErrors.New(dErrors.CodeInvalidFilter, "filter contains invalid field or operator")
		}
		if op.IsInequality() {
			if inequality != 0 && inequality != field {
				return Plan{}, dErrors.New(dErrors.CodeInvalidFilter, "inequality filter is allowed on only one field")
			}
			inequality = field
		}
		checked = append(checked, validated{field: field, operator: op, value: c.Value})
	}

	predicates := make([]Predicate, 0, len(checked))
	for _, v := range checked {
		p := Predicate{Field: v.field, Operator: v.operator}
		if v.field.IsInteger() {
			n, err := strconv.Atoi(strings.TrimSpace(v.value))
			if err != nil {
				return Plan{}, dErrors.New(dErrors.CodeBadRequest, "filter value for "+v.field.String()+" must be an integer")
			}
			p.Int = n
		} else {
			p.Text = v.value
		}
		predicates = append(predicates, p)
	}

	order := []Field{FieldName}
	if inequality != 0 {
		order = []Field{inequality, FieldName}
	}
	return Plan{InequalityField: inequality, Order: order, Predicates: predicates}, nil
}
