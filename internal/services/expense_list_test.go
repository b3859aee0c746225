package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vibes/internal/api/memory"
	"vibes/internal/core"
	"vibes/internal/filter"
	"vibes/internal/query"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 22, 12, 0, 0, 0, time.UTC) }

func storeWith(t *testing.T, n int) *memory.Store {
	t.Helper()
	s := memory.New(memory.DefaultCategories(), memory.WithNow(fixedNow))
	for i := 0; i < n; i++ {
		in := core.ExpenseInput{
			Date:        core.NewDate(2024, 3, 1+i%20),
			Description: "despesa",
			CategoryID:  int64(1 + i%4),
			Amount:      core.Money{Cents: int64(100 * (i + 1))},
		}
		if err := s.CreateExpense(context.Background(), in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return s
}

func TestListJoinsCountAndCategories(t *testing.T) {
	s := storeWith(t, 23)
	l := NewExpenseLister(s, s, WithClock(fixedNow))

	st := filter.DefaultState()
	st.Page = 2
	out, err := l.List(context.Background(), st)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 23 || out.TotalPages != 3 || len(out.Rows) != 10 {
		t.Fatalf("unexpected list total=%d pages=%d rows=%d", out.Total, out.TotalPages, len(out.Rows))
	}
	if len(out.Categories) != 4 {
		t.Fatalf("expected categories alongside rows, got %d", len(out.Categories))
	}
	for _, r := range out.Rows {
		if r.Category.ID != r.CategoryID {
			t.Fatalf("row %d joined to category %d", r.ID, r.Category.ID)
		}
	}
	if len(out.Strip) == 0 {
		t.Fatalf("expected pagination strip")
	}
}

func TestListUnknownCategoryShowsFallback(t *testing.T) {
	s := memory.New(nil, memory.WithNow(fixedNow))
	in := core.ExpenseInput{Date: core.NewDate(2024, 3, 1), Description: "órfã", CategoryID: 42, Amount: core.Money{Cents: 100}}
	if err := s.CreateExpense(context.Background(), in); err != nil {
		t.Fatalf("seed: %v", err)
	}
	out, err := NewExpenseLister(s, s).List(context.Background(), filter.DefaultState())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Rows[0].Category.Name != core.FallbackCategoryName {
		t.Fatalf("expected fallback category, got %+v", out.Rows[0].Category)
	}
}

func TestListPastEnd(t *testing.T) {
	s := storeWith(t, 21)
	st := filter.DefaultState()
	st.Page = 5

	t.Run("placeholder by default", func(t *testing.T) {
		out, err := NewExpenseLister(s, s, WithClock(fixedNow)).List(context.Background(), st)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !out.Empty() || out.State.Page != 5 {
			t.Fatalf("expected empty page 5, got rows=%d page=%d", len(out.Rows), out.State.Page)
		}
	})

	t.Run("clamped", func(t *testing.T) {
		out, err := NewExpenseLister(s, s, WithClock(fixedNow), WithClampPage(true)).List(context.Background(), st)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if out.State.Page != 3 || len(out.Rows) != 1 {
			t.Fatalf("expected last page 3 with 1 row, got page=%d rows=%d", out.State.Page, len(out.Rows))
		}
	})
}

// failingCount makes the count read fail while records succeed.
type failingCount struct {
	*memory.Store
}

func (failingCount) CountExpenses(context.Context, query.Request) (int, error) {
	return 0, errors.New("connection refused")
}

func TestListFailsWholeJoin(t *testing.T) {
	s := storeWith(t, 3)
	l := NewExpenseLister(failingCount{s}, s)
	if _, err := l.List(context.Background(), filter.DefaultState()); err == nil {
		t.Fatalf("expected the join to fail when count fails")
	}
}

func TestListHonoursFilter(t *testing.T) {
	s := storeWith(t, 20)
	l := NewExpenseLister(s, s, WithClock(fixedNow))
	st := filter.DefaultState()
	st.CategoryID = "2"
	out, err := l.List(context.Background(), st)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 5 {
		t.Fatalf("expected 5 expenses in category 2, got %d", out.Total)
	}
	for _, r := range out.Rows {
		if r.CategoryID != 2 {
			t.Fatalf("row outside category filter: %+v", r)
		}
	}
}
