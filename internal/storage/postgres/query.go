package postgres

import (
	"fmt"
	"strings"

	"confcentral/internal/conference/query"
	"confcentral/internal/storage"
)

var conferenceColumnFor = map[query.Field]string{
	query.FieldCity:         "city",
	query.FieldTopics:       "topics",
	query.FieldMonth:        "month",
	query.FieldMaxAttendees: "max_attendees",
	query.FieldName:         "name",
}

var sqlOperator = map[query.Operator]string{
	query.OpEQ:  "=",
	query.OpGT:  ">",
	query.OpGTE: ">=",
	query.OpLT:  "<",
	query.OpLTE: "<=",
	query.OpNE:  "<>",
}

// conferenceQuery renders a compiled plan as a parameterized SELECT.
// Predicates on repeated columns hold when any array element satisfies them.
func conferenceQuery(plan query.Plan) (string, []any) {
	var (
		where []string
		args  []any
	)
	for _, p := range plan.Predicates {
		args = append(args, p.Value())
		col := conferenceColumnFor[p.Field]
		op := sqlOperator[p.Operator]
		if p.Field.IsRepeated() {
			where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE elem %s $%d)", col, op, len(args)))
			continue
		}
		where = append(where, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}

	order := make([]string, 0, len(plan.Order)+1)
	for _, f := range plan.Order {
		col := conferenceColumnFor[f]
		if f.IsRepeated() {
			col = fmt.Sprintf("(SELECT min(elem) FROM unnest(%s) AS elem)", col)
		}
		order = append(order, col)
	}
	order = append(order, "key")

	var b strings.Builder
	b.WriteString("SELECT " + conferenceColumns + " FROM conferences")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + strings.Join(order, ", "))
	return b.String(), args
}

// sessionQuery renders a session filter, ordered by start time then name.
func sessionQuery(f storage.SessionFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if !f.Conference.IsNil() {
		add("conference_key = $%d", f.Conference.String())
	}
	if f.Speaker != "" {
		add("speaker = $%d", f.Speaker)
	}
	if f.Type != "" {
		add("$%d = ANY(types)", f.Type)
	}
	if f.StartTime != "" {
		add("start_time = $%d", f.StartTime)
	}
	if f.StartsBefore != "" {
		add("start_time <> '' AND start_time < $%d", f.StartsBefore)
	}

	var b strings.Builder
	b.WriteString("SELECT " + sessionColumns + " FROM sessions")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY start_time, name, key")
	return b.String(), args
}
