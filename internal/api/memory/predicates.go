package memory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"vibes/internal/core"
	"vibes/internal/query"
)

func matchesAll(e core.Expense, preds []query.Predicate) (bool, error) {
	for _, p := range preds {
		ok, err := matches(e, p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matches(e core.Expense, p query.Predicate) (bool, error) {
	switch p.Column {
	case "description":
		return compareText(e.Description, p)
	case "date":
		// ISO dates order lexically
		return compareText(e.Date.String(), p)
	case "id":
		return compareInt(e.ID, p)
	case "category_id":
		return compareInt(e.CategoryID, p)
	case "amount":
		operand, err := core.ParseDecimalToCents(p.Operand)
		if err != nil {
			return false, fmt.Errorf("amount operand %q: %w", p.Operand, err)
		}
		return compareOrdered(e.Amount.Cents, operand, p.Operator)
	default:
		return false, fmt.Errorf("unknown column %q", p.Column)
	}
}

func compareText(v string, p query.Predicate) (bool, error) {
	if p.Operator == query.OpILike {
		return likeMatch(strings.ToLower(p.Operand), strings.ToLower(v)), nil
	}
	return compareOrdered(v, p.Operand, p.Operator)
}

func compareInt(v int64, p query.Predicate) (bool, error) {
	operand, err := strconv.ParseInt(p.Operand, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%s operand %q: %w", p.Column, p.Operand, err)
	}
	return compareOrdered(v, operand, p.Operator)
}

func compareOrdered[T int64 | string](v, operand T, op string) (bool, error) {
	switch op {
	case query.OpEq:
		return v == operand, nil
	case query.OpGte:
		return v >= operand, nil
	case query.OpLte:
		return v <= operand, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", op)
	}
}

// likeMatch matches s against a pattern where * stands for any run of characters.
func likeMatch(pattern, s string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == s
	}
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, mid := range parts[1 : len(parts)-1] {
		i := strings.Index(s, mid)
		if i < 0 {
			return false
		}
		s = s[i+len(mid):]
	}
	return strings.HasSuffix(s, last)
}

// sortExpenses applies an order such as "date.desc". Ties fall back to newest id first.
func sortExpenses(items []core.Expense, order string) error {
	if order == "" {
		return nil
	}
	column, dir, _ := strings.Cut(order, ".")
	desc := dir == "desc"
	if dir != "" && dir != "asc" && dir != "desc" {
		return fmt.Errorf("unsupported order direction %q", dir)
	}
	var less func(a, b core.Expense) int
	switch column {
	case "date":
		less = func(a, b core.Expense) int { return a.Date.Compare(b.Date.Time) }
	case "id":
		less = func(a, b core.Expense) int { return cmpInt(a.ID, b.ID) }
	case "amount":
		less = func(a, b core.Expense) int { return cmpInt(a.Amount.Cents, b.Amount.Cents) }
	case "description":
		less = func(a, b core.Expense) int { return strings.Compare(a.Description, b.Description) }
	default:
		return fmt.Errorf("unsupported order column %q", column)
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			return items[i].ID > items[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
