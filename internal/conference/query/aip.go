package query

import (
	"strconv"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	dErrors "confcentral/pkg/domain-errors"
)

// declarations lists the identifiers an AIP-160 filter string may use.
func declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent(FieldCity.String(), filtering.TypeString),
		filtering.DeclareIdent(FieldTopics.String(), filtering.TypeString),
		filtering.DeclareIdent(FieldMonth.String(), filtering.TypeInt),
		filtering.DeclareIdent(FieldMaxAttendees.String(), filtering.TypeInt),
	)
}

// ParseFilter translates an AIP-160 filter string such as
// `city = "London" AND month > 5` into criteria, preserving the order the
// comparisons appear in. Only conjunctions of field-vs-constant comparisons
// are accepted. An empty string yields no criteria.
func ParseFilter(filter string) ([]Criterion, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil
	}
	decls, err := declarations()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to declare filter fields")
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidFilter, "filter expression is invalid")
	}
	var out []Criterion
	if err := collectCriteria(parsed.CheckedExpr.GetExpr(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectCriteria(e *expr.Expr, out *[]Criterion) error {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return dErrors.New(dErrors.CodeInvalidFilter, "filter must be a conjunction of comparisons")
	}
	fn := call.CallExpr.GetFunction()
	args := call.CallExpr.GetArgs()
	if fn == filtering.FunctionAnd {
		for _, arg := range args {
			if err := collectCriteria(arg, out); err != nil {
				return err
			}
		}
		return nil
	}
	if _, ok := ParseOperator(fn); !ok || len(args) != 2 {
		return dErrors.New(dErrors.CodeInvalidFilter, "unsupported filter function: "+fn)
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return dErrors.New(dErrors.CodeInvalidFilter, "comparison must start with a field name")
	}
	value, err := constantText(args[1])
	if err != nil {
		return err
	}
	*out = append(*out, Criterion{Field: ident.IdentExpr.GetName(), Operator: fn, Value: value})
	return nil
}

func constantText(e *expr.Expr) (string, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidFilter, "comparison must end with a constant")
	}
	switch v := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return v.StringValue, nil
	case *expr.Constant_Int64Value:
		return strconv.FormatInt(v.Int64Value, 10), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidFilter, "unsupported constant in filter")
	}
}
