package postgrest

import (
	"context"
	"fmt"
	"net/http"

	"vibes/internal/api"
	"vibes/internal/core"
	"vibes/internal/query"
)

// createCategoryBody adds the spent counter the table requires on insert.
type createCategoryBody struct {
	core.CategoryInput
	Spent core.Money `json:"spent"`
}

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	if err := c.get(ctx, PathCategories, query.All("name.asc"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var out []core.Category
	if err := c.get(ctx, PathCategories, query.ByID(id), &out); err != nil {
		return core.Category{}, err
	}
	if len(out) == 0 {
		return core.Category{}, fmt.Errorf("category %d: %w", id, api.ErrNotFound)
	}
	return out[0], nil
}

func (c *Client) CreateCategory(ctx context.Context, in core.CategoryInput) error {
	return c.do(ctx, http.MethodPost, PathCategories, "", createCategoryBody{CategoryInput: in}, nil)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in core.CategoryInput) error {
	return c.do(ctx, http.MethodPatch, PathCategories, query.ByID(id).Encode(), in, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, PathCategories, query.ByID(id).Encode(), nil, nil)
}

func (c *Client) ListExpenses(ctx context.Context, req query.Request) ([]core.Expense, error) {
	req.CountOnly = false
	var out []core.Expense
	if err := c.get(ctx, PathExpenses, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountExpenses reads the [{"count":N}] answer of a select=count request.
func (c *Client) CountExpenses(ctx context.Context, req query.Request) (int, error) {
	count := query.Request{Predicates: req.Predicates, CountOnly: true}
	var resp []struct {
		Count *int `json:"count"`
	}
	if err := c.get(ctx, PathExpenses, count, &resp); err != nil {
		return 0, err
	}
	if len(resp) == 0 || resp[0].Count == nil {
		return 0, fmt.Errorf("%w: count response without count", api.ErrInvalidRecord)
	}
	n := *resp[0].Count
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d", api.ErrInvalidRecord, n)
	}
	return n, nil
}

func (c *Client) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var out []core.Expense
	if err := c.get(ctx, PathExpenses, query.ByID(id), &out); err != nil {
		return core.Expense{}, err
	}
	if len(out) == 0 {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, api.ErrNotFound)
	}
	return out[0], nil
}

func (c *Client) CreateExpense(ctx context.Context, in core.ExpenseInput) error {
	return c.do(ctx, http.MethodPost, PathExpenses, "", in, nil)
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, in core.ExpenseInput) error {
	return c.do(ctx, http.MethodPatch, PathExpenses, query.ByID(id).Encode(), in, nil)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, PathExpenses, query.ByID(id).Encode(), nil, nil)
}

func (c *Client) DashboardData(ctx context.Context) (core.DashboardData, error) {
	return single[core.DashboardData](ctx, c, PathDashboardData)
}

func (c *Client) ExpenseSummary(ctx context.Context) (core.ExpenseSummary, error) {
	return single[core.ExpenseSummary](ctx, c, PathExpenseSummary)
}

func (c *Client) MonthlyTrend(ctx context.Context) ([]core.MonthlyTotal, error) {
	return rows[core.MonthlyTotal](ctx, c, PathMonthlyTrend)
}

func (c *Client) CategoryDistribution(ctx context.Context) ([]core.CategoryTotal, error) {
	return rows[core.CategoryTotal](ctx, c, PathCategoryDistribution)
}

func (c *Client) CategoryComparison(ctx context.Context) ([]core.CategoryTotal, error) {
	return rows[core.CategoryTotal](ctx, c, PathCategoryComparison)
}

// rows reads and validates every record of a view.
func rows[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, query.Request{}, &out); err != nil {
		return nil, err
	}
	for i, rec := range out {
		if err := core.ValidateRecord(rec); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", api.ErrInvalidRecord, path, i, err)
		}
	}
	return out, nil
}

// single reads a one-record view; an empty view is ErrNoData.
func single[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	out, err := rows[T](ctx, c, path)
	if err != nil {
		return zero, err
	}
	if len(out) == 0 {
		return zero, fmt.Errorf("%s: %w", path, api.ErrNoData)
	}
	return out[0], nil
}

var _ api.Backend = (*Client)(nil)
