package query

import (
	"testing"

	"vibes/internal/core"
)

// Friday
var today = core.NewDate(2024, 3, 22)

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"today":  PeriodToday,
		"WEEK":   PeriodWeek,
		" month": PeriodMonth,
		"year":   PeriodYear,
		"all":    PeriodAll,
		"":       PeriodAll,
		"decade": PeriodAll,
	}
	for in, want := range cases {
		if got := ParsePeriod(in); got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestPeriodRange(t *testing.T) {
	cases := []struct {
		p     Period
		today core.Date
		start string
		ok    bool
	}{
		{PeriodToday, today, "2024-03-22", true},
		{PeriodWeek, today, "2024-03-17", true},
		{PeriodWeek, core.NewDate(2024, 3, 17), "2024-03-17", true}, // sunday itself
		{PeriodWeek, core.NewDate(2024, 3, 2), "2024-02-25", true},  // crosses month
		{PeriodMonth, today, "2024-03-01", true},
		{PeriodYear, today, "2024-01-01", true},
		{PeriodAll, today, "", false},
	}
	for _, tc := range cases {
		start, end, ok := PeriodRange(tc.p, tc.today)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v", tc.p, ok)
		}
		if !ok {
			continue
		}
		if start.String() != tc.start {
			t.Fatalf("%s on %s: expected start %s, got %s", tc.p, tc.today, tc.start, start)
		}
		if end.String() != tc.today.String() {
			t.Fatalf("%s: expected end %s, got %s", tc.p, tc.today, end)
		}
		if start.After(end.Time) {
			t.Fatalf("%s: start %s after end %s", tc.p, start, end)
		}
	}
}

func TestBuild(t *testing.T) {
	cases := []struct {
		name    string
		f       Filter
		page    int
		records string
		count   string
	}{
		{
			name:    "no filters",
			f:       Filter{CategoryID: AllCategories, Period: PeriodAll},
			page:    1,
			records: "order=date.desc&limit=10&offset=0",
			count:   "select=count",
		},
		{
			name:    "third page",
			f:       Filter{CategoryID: AllCategories},
			page:    3,
			records: "order=date.desc&limit=10&offset=20",
			count:   "select=count",
		},
		{
			name:    "search category and month",
			f:       Filter{Search: "mercado", CategoryID: "3", Period: PeriodMonth},
			page:    1,
			records: "order=date.desc&limit=10&offset=0&description=ilike.*mercado*&category_id=eq.3&date=gte.2024-03-01&date=lte.2024-03-22",
			count:   "select=count&description=ilike.*mercado*&category_id=eq.3&date=gte.2024-03-01&date=lte.2024-03-22",
		},
		{
			name:    "search is escaped",
			f:       Filter{Search: "café & pão", CategoryID: AllCategories},
			page:    0,
			records: "order=date.desc&limit=10&offset=0&description=ilike.*caf%C3%A9%20%26%20p%C3%A3o*",
			count:   "select=count&description=ilike.*caf%C3%A9%20%26%20p%C3%A3o*",
		},
		{
			name:    "empty search ignored",
			f:       Filter{Search: "", CategoryID: "", Period: PeriodToday},
			page:    1,
			records: "order=date.desc&limit=10&offset=0&date=gte.2024-03-22&date=lte.2024-03-22",
			count:   "select=count&date=gte.2024-03-22&date=lte.2024-03-22",
		},
		{
			name:    "search operand kept verbatim",
			f:       Filter{Search: " café ", CategoryID: AllCategories},
			page:    1,
			records: "order=date.desc&limit=10&offset=0&description=ilike.*%20caf%C3%A9%20*",
			count:   "select=count&description=ilike.*%20caf%C3%A9%20*",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, count := Build(tc.f, tc.page, today)
			if got := records.Encode(); got != tc.records {
				t.Fatalf("records:\n got  %s\n want %s", got, tc.records)
			}
			if got := count.Encode(); got != tc.count {
				t.Fatalf("count:\n got  %s\n want %s", got, tc.count)
			}
			if records.PredicateString() != count.PredicateString() {
				t.Fatalf("predicate mismatch: %q vs %q", records.PredicateString(), count.PredicateString())
			}
		})
	}
}

func TestBuildCountIsIndependentCopy(t *testing.T) {
	records, count := Build(Filter{Search: "x", CategoryID: "1"}, 1, today)
	records.Predicates[0].Operand = "changed"
	if count.Predicates[0].Operand == "changed" {
		t.Fatalf("count predicates alias record predicates")
	}
}

func TestByID(t *testing.T) {
	if got := ByID(42).Encode(); got != "id=eq.42" {
		t.Fatalf("got %s", got)
	}
}
