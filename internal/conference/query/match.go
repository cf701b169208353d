package query

import (
	"cmp"
	"slices"

	"confcentral/internal/conference/models"
)

// Match reports whether c satisfies every predicate. Repeated fields match
// when any element satisfies the predicate; an empty list matches nothing.
func (p Plan) Match(c *models.Conference) bool {
	for _, pred := range p.Predicates {
		if !pred.matches(c) {
			return false
		}
	}
	return true
}

func (pred Predicate) matches(c *models.Conference) bool {
	switch pred.Field {
	case FieldCity:
		return pred.Operator.holds(cmp.Compare(c.City, pred.Text))
	case FieldTopics:
		return slices.ContainsFunc(c.Topics, func(t string) bool {
			return pred.Operator.holds(cmp.Compare(t, pred.Text))
		})
	case FieldMonth:
		return pred.Operator.holds(cmp.Compare(c.Month, pred.Int))
	case FieldMaxAttendees:
		return pred.Operator.holds(cmp.Compare(c.MaxAttendees, pred.Int))
	}
	return false
}

// Compare orders conferences by the plan's sort keys. A repeated field sorts
// by its smallest element.
func (p Plan) Compare(a, b *models.Conference) int {
	for _, f := range p.Order {
		if c := compareField(f, a, b); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Key.String(), b.Key.String())
}

// Apply filters and sorts conferences in memory.
func (p Plan) Apply(all []*models.Conference) []*models.Conference {
	out := make([]*models.Conference, 0, len(all))
	for _, c := range all {
		if p.Match(c) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, p.Compare)
	return out
}

func compareField(f Field, a, b *models.Conference) int {
	switch f {
	case FieldCity:
		return cmp.Compare(a.City, b.City)
	case FieldTopics:
		return cmp.Compare(minTopic(a.Topics), minTopic(b.Topics))
	case FieldMonth:
		return cmp.Compare(a.Month, b.Month)
	case FieldMaxAttendees:
		return cmp.Compare(a.MaxAttendees, b.MaxAttendees)
	case FieldName:
		return cmp.Compare(a.Name, b.Name)
	}
	return 0
}

func minTopic(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	return slices.Min(topics)
}
