package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"vibes/internal/api"
	"vibes/internal/core"
	"vibes/internal/filter"
	"vibes/internal/pagination"
	"vibes/internal/query"
)

// ExpenseRow is an expense joined with its category for display.
type ExpenseRow struct {
	core.Expense
	Category core.Category
}

// ExpenseList is one rendered page of the expense table.
type ExpenseList struct {
	State      filter.State
	Rows       []ExpenseRow
	Total      int
	TotalPages int
	Strip      []pagination.Item
	Categories []core.Category
}

// Empty reports whether the current page has no rows.
func (l ExpenseList) Empty() bool { return len(l.Rows) == 0 }

// ExpenseLister composes the record, count and category fetches of the list view.
type ExpenseLister struct {
	expenses   api.ExpenseStore
	categories api.CategoryStore
	clampPage  bool
	now        func() time.Time
}

type ListerOption func(*ExpenseLister)

// WithClampPage makes a page past the end re-fetch the last valid page.
func WithClampPage(on bool) ListerOption {
	return func(l *ExpenseLister) { l.clampPage = on }
}

// WithClock sets the clock used to resolve periods.
func WithClock(now func() time.Time) ListerOption {
	return func(l *ExpenseLister) { l.now = now }
}

func NewExpenseLister(expenses api.ExpenseStore, categories api.CategoryStore, opts ...ListerOption) *ExpenseLister {
	l := &ExpenseLister{expenses: expenses, categories: categories, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List fetches the page described by st. The three reads run concurrently and
// any failure fails the whole list. The returned State may carry a clamped page.
func (l *ExpenseLister) List(ctx context.Context, st filter.State) (ExpenseList, error) {
	today := core.DateOf(l.now())
	out, err := l.fetch(ctx, st, today)
	if err != nil {
		return ExpenseList{}, err
	}
	if l.clampPage && out.Empty() && out.Total > 0 && st.Page > out.TotalPages {
		st.Page = out.TotalPages
		records, _ := query.Build(st.Filter(), st.Page, today)
		expenses, err := l.expenses.ListExpenses(ctx, records)
		if err != nil {
			return ExpenseList{}, fmt.Errorf("list expenses: %w", err)
		}
		out.State = st
		out.Rows = joinRows(expenses, out.Categories)
	}
	out.Strip = pagination.Strip(out.State.Page, out.Total, pagination.PageSize)
	return out, nil
}

func (l *ExpenseLister) fetch(ctx context.Context, st filter.State, today core.Date) (ExpenseList, error) {
	records, count := query.Build(st.Filter(), st.Page, today)

	var (
		expenses   []core.Expense
		total      int
		categories []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if expenses, err = l.expenses.ListExpenses(gctx, records); err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if total, err = l.expenses.CountExpenses(gctx, count); err != nil {
			return fmt.Errorf("count expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = l.categories.ListCategories(gctx); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ExpenseList{}, err
	}

	return ExpenseList{
		State:      st,
		Rows:       joinRows(expenses, categories),
		Total:      total,
		TotalPages: pagination.TotalPages(total, pagination.PageSize),
		Categories: categories,
	}, nil
}

func joinRows(expenses []core.Expense, categories []core.Category) []ExpenseRow {
	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, ExpenseRow{Expense: e, Category: core.CategoryFor(categories, e.CategoryID)})
	}
	return rows
}
