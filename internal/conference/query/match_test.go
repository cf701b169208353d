package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confcentral/internal/conference/models"
	"confcentral/pkg/domain"
)

func conference(t *testing.T, id, name, city string, month, max int, topics ...string) *models.Conference {
	t.Helper()
	var start time.Time
	if month > 0 {
		start = time.Date(2026, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}
	c, err := models.NewConference(domain.NewConferenceKey("org", id), models.Draft{
		Name: name, City: city, StartDate: start, MaxAttendees: max, Topics: topics,
	})
	require.NoError(t, err)
	return c
}

func names(cs []*models.Conference) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestApplyFiltersAndOrdersByInequalityThenName(t *testing.T) {
	all := []*models.Conference{
		conference(t, "1", "Zeta", "London", 9, 100),
		conference(t, "2", "Alpha", "London", 7, 100),
		conference(t, "3", "Beta", "London", 7, 100),
		conference(t, "4", "Gamma", "Paris", 8, 100),
		conference(t, "5", "Early", "London", 3, 100),
	}
	plan, err := Compile([]Criterion{
		{Field: "city", Operator: "=", Value: "London"},
		{Field: "month", Operator: ">", Value: "5"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Beta", "Zeta"}, names(plan.Apply(all)))
}

func TestRepeatedFieldMatchesAnyElement(t *testing.T) {
	c := conference(t, "1", "Med", "London", 6, 10, "Medical Innovations", "Programming Languages")

	eq, err := Compile([]Criterion{{Field: "topics", Operator: "=", Value: "Programming Languages"}})
	require.NoError(t, err)
	assert.True(t, eq.Match(c))

	ne, err := Compile([]Criterion{{Field: "topics", Operator: "!=", Value: "Medical Innovations"}})
	require.NoError(t, err)
	assert.True(t, ne.Match(c), "another element differs")

	gt, err := Compile([]Criterion{{Field: "topics", Operator: ">", Value: "Web"}})
	require.NoError(t, err)
	assert.False(t, gt.Match(c))
}

func TestMatchOnIntegerFields(t *testing.T) {
	c := conference(t, "1", "Big", "Paris", 0, 250)

	plan, err := Compile([]Criterion{
		{Field: "maxAttendees", Operator: ">=", Value: "250"},
		{Field: "month", Operator: "=", Value: "0"},
	})
	require.NoError(t, err)
	assert.True(t, plan.Match(c))

	plan, err = Compile([]Criterion{{Field: "maxAttendees", Operator: "<", Value: "250"}})
	require.NoError(t, err)
	assert.False(t, plan.Match(c))
}
