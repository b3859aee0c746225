package services

import (
	"context"
	"fmt"

	"vibes/internal/api"
	"vibes/internal/core"
)

// ExpenseService validates and forwards expense mutations to the data API.
type ExpenseService struct {
	store api.ExpenseStore
}

func NewExpenseService(store api.ExpenseStore) *ExpenseService {
	return &ExpenseService{store: store}
}

// Get loads one expense for the edit form.
func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// Create validates in and creates the expense. A core.ValidationErrors
// result means no request was sent.
func (s *ExpenseService) Create(ctx context.Context, in core.ExpenseInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateExpense(ctx, in); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, in core.ExpenseInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateExpense(ctx, id, in); err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

// CategoryService validates and forwards category mutations to the data API.
type CategoryService struct {
	store api.CategoryStore
}

func NewCategoryService(store api.CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (core.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in core.CategoryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateCategory(ctx, in); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, in core.CategoryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateCategory(ctx, id, in); err != nil {
		return fmt.Errorf("update category %d: %w", id, err)
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}
