package query

// Field is a filterable or sortable conference attribute.
type Field int

const (
	FieldCity Field = iota + 1
	FieldTopics
	FieldMonth
	FieldMaxAttendees
	// FieldName is sortable only; clients cannot filter on it.
	FieldName
)

var fieldNames = map[Field]string{
	FieldCity:         "city",
	FieldTopics:       "topics",
	FieldMonth:        "month",
	FieldMaxAttendees: "maxAttendees",
	FieldName:         "name",
}

// filterableFields maps every accepted spelling to its field: the canonical
// attribute name and the short code older clients send.
var filterableFields = map[string]Field{
	"city":          FieldCity,
	"topics":        FieldTopics,
	"month":         FieldMonth,
	"maxAttendees":  FieldMaxAttendees,
	"CITY":          FieldCity,
	"TOPIC":         FieldTopics,
	"MONTH":         FieldMonth,
	"MAX_ATTENDEES": FieldMaxAttendees,
}

// ParseField resolves a client-supplied field name.
func ParseField(s string) (Field, bool) {
	f, ok := filterableFields[s]
	return f, ok
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// IsInteger reports whether values for f are coerced to integers.
func (f Field) IsInteger() bool {
	return f == FieldMonth || f == FieldMaxAttendees
}

// IsRepeated reports whether f holds a list; predicates on it match when any
// element satisfies them.
func (f Field) IsRepeated() bool {
	return f == FieldTopics
}

// Operator is a comparison operator.
type Operator int

const (
	OpEQ Operator = iota + 1
	OpGT
	OpGTE
	OpLT
	OpLTE
	OpNE
)

var operatorSymbols = map[Operator]string{
	OpEQ:  "=",
	OpGT:  ">",
	OpGTE: ">=",
	OpLT:  "<",
	OpLTE: "<=",
	OpNE:  "!=",
}

var operators = map[string]Operator{
	"=":    OpEQ,
	">":    OpGT,
	">=":   OpGTE,
	"<":    OpLT,
	"<=":   OpLTE,
	"!=":   OpNE,
	"EQ":   OpEQ,
	"GT":   OpGT,
	"GTEQ": OpGTE,
	"LT":   OpLT,
	"LTEQ": OpLTE,
	"NE":   OpNE,
}

// ParseOperator resolves a symbol or short code.
func ParseOperator(s string) (Operator, bool) {
	op, ok := operators[s]
	return op, ok
}

func (o Operator) String() string {
	if sym, ok := operatorSymbols[o]; ok {
		return sym
	}
	return "?"
}

// IsInequality reports whether o is anything other than equality.
func (o Operator) IsInequality() bool {
	return o != OpEQ
}

// holds reports whether cmp (the sign of stored minus wanted) satisfies o.
func (o Operator) holds(cmp int) bool {
	switch o {
	case OpEQ:
		return cmp == 0
	case OpGT:
		return cmp > 0
	case OpGTE:
		return cmp >= 0
	case OpLT:
		return cmp < 0
	case OpLTE:
		return cmp <= 0
	case OpNE:
		return cmp != 0
	}
	return false
}
