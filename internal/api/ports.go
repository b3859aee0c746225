// Package api defines the ports the UI uses to reach the expense data API.
package api

import (
	"context"

	"vibes/internal/core"
	"vibes/internal/query"
)

// Ports for outbound adapters.
type (
	CategoryStore interface {
		// ListCategories returns every category ordered by name.
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		CreateCategory(ctx context.Context, in core.CategoryInput) error
		UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) error
		DeleteCategory(ctx context.Context, id int64) error
	}

	ExpenseStore interface {
		// ListExpenses returns the page of expenses described by req.
		ListExpenses(ctx context.Context, req query.Request) ([]core.Expense, error)
		// CountExpenses returns how many expenses match the predicates of req.
		CountExpenses(ctx context.Context, req query.Request) (int, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		CreateExpense(ctx context.Context, in core.ExpenseInput) error
		UpdateExpense(ctx context.Context, id int64, in core.ExpenseInput) error
		DeleteExpense(ctx context.Context, id int64) error
	}

	// AggregateReader reads the precomputed views. Single-record views
	// return ErrNoData when the view is empty.
	AggregateReader interface {
		DashboardData(ctx context.Context) (core.DashboardData, error)
		MonthlyTrend(ctx context.Context) ([]core.MonthlyTotal, error)
		CategoryDistribution(ctx context.Context) ([]core.CategoryTotal, error)
		CategoryComparison(ctx context.Context) ([]core.CategoryTotal, error)
		ExpenseSummary(ctx context.Context) (core.ExpenseSummary, error)
	}

	// Pinger reports whether the data API is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Backend is everything the web layer needs from one data source.
	Backend interface {
		CategoryStore
		ExpenseStore
		AggregateReader
		Pinger
	}
)
