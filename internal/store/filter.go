package store

import (
	"fmt"
	"strings"
)

// Filter is a rule's selection predicate, pushed down to the store so a run
// only pulls candidate rows. Conditions are combined with AND.
type Filter struct {
	conds []cond
}

type cond struct {
	column string
	op     string // "eq", "like", "nonblank"
	value  any
}

func NewFilter() *Filter {
	return &Filter{}
}

// Eq adds an exact-match condition.
func (f *Filter) Eq(column string, value any) *Filter {
	f.conds = append(f.conds, cond{column: column, op: "eq", value: value})
	return f
}

// Like adds a substring-match condition. The pattern uses SQL LIKE syntax.
func (f *Filter) Like(column, pattern string) *Filter {
	f.conds = append(f.conds, cond{column: column, op: "like", value: pattern})
	return f
}

// NonBlank adds a condition requiring a non-null, non-empty value.
func (f *Filter) NonBlank(column string) *Filter {
	f.conds = append(f.conds, cond{column: column, op: "nonblank"})
	return f
}

// Empty reports whether the filter has no conditions (full-table scan).
func (f *Filter) Empty() bool {
	return f == nil || len(f.conds) == 0
}

// whereClause renders the filter as a WHERE clause with positional args
// starting at $startArg. An empty filter renders as an empty string.
func (f *Filter) whereClause(startArg int) (string, []any) {
	if f.Empty() {
		return "", nil
	}

	var parts []string
	var args []any
	n := startArg
	for _, c := range f.conds {
		switch c.op {
		case "eq":
			parts = append(parts, fmt.Sprintf("%s = $%d", c.column, n))
			args = append(args, c.value)
			n++
		case "like":
			parts = append(parts, fmt.Sprintf("%s LIKE $%d", c.column, n))
			args = append(args, c.value)
			n++
		case "nonblank":
			parts = append(parts, fmt.Sprintf("(%s IS NOT NULL AND %s <> '')", c.column, c.column))
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}
