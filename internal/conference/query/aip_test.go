package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "confcentral/pkg/domain-errors"
)

func TestParseFilterConjunction(t *testing.T) {
	criteria, err := ParseFilter(`city = "London" AND month > 5`)
	require.NoError(t, err)
	assert.Equal(t, []Criterion{
		{Field: "city", Operator: "=", Value: "London"},
		{Field: "month", Operator: ">", Value: "5"},
	}, criteria)

	plan, err := Compile(criteria)
	require.NoError(t, err)
	assert.Equal(t, FieldMonth, plan.InequalityField)
}

func TestParseFilterEmpty(t *testing.T) {
	criteria, err := ParseFilter("   ")
	require.NoError(t, err)
	assert.Empty(t, criteria)
}

func TestParseFilterRejects(t *testing.T) {
	cases := map[string]string{
		"disjunction":      `city = "London" OR city = "Paris"`,
		"undeclared field": `seatsAvailable > 1`,
		"syntax":           `city = `,
	}
	for name, filter := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFilter(filter)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFilter), "got %v", err)
		})
	}
}
