// Package query turns the expense filter into PostgREST request descriptors.
//
// Two descriptors are produced for one filter: the page of records and the
// matching count. Both carry the same predicates so the count always
// describes the records being paged through.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"vibes/internal/core"
)

const (
	OpEq    = "eq"
	OpILike = "ilike"
	OpGte   = "gte"
	OpLte   = "lte"
)

// AllCategories is the sentinel meaning "no category predicate".
const AllCategories = "all"

// PageSize is the number of records per page.
const PageSize = 10

type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod maps form input to a Period; anything unknown means all time.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return p
	default:
		return PeriodAll
	}
}

// Predicate is one column filter, rendered as column=operator.operand.
type Predicate struct {
	Column   string
	Operator string
	Operand  string
}

func (p Predicate) encode() string {
	return url.QueryEscape(p.Column) + "=" + p.Operator + "." + escapeOperand(p.Operand)
}

var operandEscaper = strings.NewReplacer("%2A", "*", "+", "%20")

// escapeOperand escapes like QueryEscape but keeps the PostgREST wildcard
// literal and spells spaces as %20.
func escapeOperand(s string) string {
	return operandEscaper.Replace(url.QueryEscape(s))
}

// Request describes one read against a table or view.
type Request struct {
	Predicates []Predicate
	Order      string // e.g. "date.desc"
	Limit      int    // 0 means no limit
	Offset     int
	CountOnly  bool
}

// PredicateString renders only the predicates, in insertion order.
func (r Request) PredicateString() string {
	parts := make([]string, 0, len(r.Predicates))
	for _, p := range r.Predicates {
		parts = append(parts, p.encode())
	}
	return strings.Join(parts, "&")
}

// Encode renders the full query string. The output is deterministic:
// select/order/limit/offset first, then predicates in insertion order.
func (r Request) Encode() string {
	var parts []string
	if r.CountOnly {
		parts = append(parts, "select=count")
	}
	if r.Order != "" {
		parts = append(parts, "order="+r.Order)
	}
	if r.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(r.Limit))
		parts = append(parts, "offset="+strconv.Itoa(r.Offset))
	}
	if ps := r.PredicateString(); ps != "" {
		parts = append(parts, ps)
	}
	return strings.Join(parts, "&")
}

// Filter is the effective, already debounced filter of the expense list.
type Filter struct {
	Search     string
	CategoryID string
	Period     Period
}

// Predicates returns the predicates implied by f relative to today.
func (f Filter) Predicates(today core.Date) []Predicate {
	var preds []Predicate
	if f.Search != "" {
		preds = append(preds, Predicate{Column: "description", Operator: OpILike, Operand: "*" + f.Search + "*"})
	}
	if f.CategoryID != "" && f.CategoryID != AllCategories {
		preds = append(preds, Predicate{Column: "category_id", Operator: OpEq, Operand: f.CategoryID})
	}
	if start, end, ok := PeriodRange(f.Period, today); ok {
		preds = append(preds,
			Predicate{Column: "date", Operator: OpGte, Operand: start.String()},
			Predicate{Column: "date", Operator: OpLte, Operand: end.String()},
		)
	}
	return preds
}

// Build returns the record and count requests for page (1-based) of f.
func Build(f Filter, page int, today core.Date) (records, count Request) {
	if page < 1 {
		page = 1
	}
	preds := f.Predicates(today)
	records = Request{
		Predicates: preds,
		Order:      "date.desc",
		Limit:      PageSize,
		Offset:     (page - 1) * PageSize,
	}
	count = Request{
		Predicates: append([]Predicate(nil), preds...),
		CountOnly:  true,
	}
	return records, count
}

// PeriodRange returns the inclusive date range of p ending today.
// ok is false for PeriodAll. Weeks start on Sunday.
func PeriodRange(p Period, today core.Date) (start, end core.Date, ok bool) {
	end = core.DateOf(today.Time)
	switch p {
	case PeriodToday:
		start = end
	case PeriodWeek:
		start = core.DateOf(end.AddDate(0, 0, -int(end.Weekday())))
	case PeriodMonth:
		start = core.NewDate(end.Year(), int(end.Month()), 1)
	case PeriodYear:
		start = core.NewDate(end.Year(), int(time.January), 1)
	default:
		return core.Date{}, core.Date{}, false
	}
	return start, end, true
}

// ByID is the request addressing a single row, used by PATCH and DELETE.
func ByID(id int64) Request {
	return Request{Predicates: []Predicate{{Column: "id", Operator: OpEq, Operand: strconv.FormatInt(id, 10)}}}
}

// All is the request for a whole table, ordered.
func All(order string) Request {
	return Request{Order: order}
}
