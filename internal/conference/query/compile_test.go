package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "confcentral/pkg/domain-errors"
)

func TestCompileCityAndMonth(t *testing.T) {
	plan, err := Compile([]Criterion{
		{Field: "city", Operator: "=", Value: "London"},
		{Field: "month", Operator: ">", Value: "5"},
	})
	require.NoError(t, err)

	want := Plan{
		InequalityField: FieldMonth,
		Order:           []Field{FieldMonth, FieldName},
		Predicates: []Predicate{
			{Field: FieldCity, Operator: OpEQ, Text: "London"},
			{Field: FieldMonth, Operator: OpGT, Int: 5},
		},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRejectsSecondInequalityField(t *testing.T) {
	_, err := Compile([]Criterion{
		{Field: "city", Operator: "=", Value: "London"},
		{Field: "month", Operator: ">", Value: "5"},
		{Field: "maxAttendees", Operator: "<", Value: "100"},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFilter))
}

func TestCompileInequalityFieldsInEitherOrder(t *testing.T) {
	fields := []string{"city", "topics", "month", "maxAttendees"}
	for _, first := range fields {
		for _, second := range fields {
			if first == second {
				continue
			}
			t.Run(first+"_then_"+second, func(t *testing.T) {
				_, err := Compile([]Criterion{
					{Field: first, Operator: "!=", Value: "1"},
					{Field: second, Operator: ">=", Value: "1"},
				})
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFilter))
			})
		}
	}
}

func TestCompileSingleInequalityFieldSucceeds(t *testing.T) {
	plan, err := Compile([]Criterion{
		{Field: "maxAttendees", Operator: ">", Value: "10"},
		{Field: "city", Operator: "=", Value: "Paris"},
		{Field: "maxAttendees", Operator: "<=", Value: "500"},
		{Field: "topics", Operator: "=", Value: "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, FieldMaxAttendees, plan.InequalityField)
	assert.Equal(t, []Field{FieldMaxAttendees, FieldName}, plan.Order)
	require.Len(t, plan.Predicates, 4)
	assert.Equal(t, FieldCity, plan.Predicates[1].Field, "predicates keep input order")
}

func TestCompileWithoutInequalityOrdersByName(t *testing.T) {
	plan, err := Compile([]Criterion{{Field: "TOPIC", Operator: "EQ", Value: "Medical Innovations"}})
	require.NoError(t, err)
	assert.False(t, plan.HasInequality())
	assert.Equal(t, []Field{FieldName}, plan.Order)
	assert.Equal(t, "Medical Innovations", plan.Predicates[0].Value())
}

func TestCompileEmptyCriteria(t *testing.T) {
	plan, err := Compile(nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Predicates)
	assert.Equal(t, []Field{FieldName}, plan.Order)
}

func TestCompileRejectsUnknownFieldOrOperator(t *testing.T) {
	cases := map[string]Criterion{
		"unknown field":       {Field: "seatsAvailable", Operator: "=", Value: "1"},
		"name not filterable": {Field: "name", Operator: "=", Value: "x"},
		"unknown operator":    {Field: "city", Operator: "~", Value: "x"},
		"empty operator":      {Field: "city", Value: "x"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Compile([]Criterion{c})
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFilter))
		})
	}
}

func TestCompileCoercionFailureIsBadRequest(t *testing.T) {
	_, err := Compile([]Criterion{{Field: "month", Operator: "=", Value: "June"}})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestCompileValidatesBeforeCoercing(t *testing.T) {
	_, err := Compile([]Criterion{
		{Field: "month", Operator: ">", Value: "not-a-number"},
		{Field: "maxAttendees", Operator: "<", Value: "100"},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFilter))
}

func TestCompileIsDeterministic(t *testing.T) {
	criteria := []Criterion{
		{Field: "city", Operator: "=", Value: "London"},
		{Field: "topics", Operator: "!=", Value: "Web"},
		{Field: "month", Operator: "=", Value: " 6 "},
	}
	first, err := Compile(criteria)
	require.NoError(t, err)
	for range 10 {
		again, err := Compile(criteria)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("plan changed between runs:\n%s", diff)
		}
	}
	assert.Equal(t, 6, first.Predicates[2].Int)
}
