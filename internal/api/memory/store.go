// Package memory is an in-process data API used for development and tests.
// It evaluates the same request descriptors the PostgREST client sends.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"vibes/internal/api"
	"vibes/internal/core"
	"vibes/internal/query"
)

type Store struct {
	mu         sync.Mutex
	now        func() time.Time
	categories []core.Category
	expenses   []core.Expense
	nextCatID  int64
	nextExpID  int64
}

type Option func(*Store)

// WithNow sets the clock used by the aggregate views.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(categories []core.CategoryInput, opts ...Option) *Store {
	s := &Store{now: time.Now, nextCatID: 1, nextExpID: 1}
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range categories {
		s.categories = append(s.categories, core.Category{ID: s.nextCatID, Name: c.Name, Color: c.Color, Budget: c.Budget})
		s.nextCatID++
	}
	return s
}

// DefaultCategories seeds a fresh store when no seed file is present.
func DefaultCategories() []core.CategoryInput {
	return []core.CategoryInput{
		{Name: "Alimentação", Color: "#0088FE", Budget: core.Money{Cents: 100000}},
		{Name: "Transporte", Color: "#00C49F", Budget: core.Money{Cents: 50000}},
		{Name: "Entretenimento", Color: "#FFBB28", Budget: core.Money{Cents: 30000}},
		{Name: "Compras", Color: "#FF8042", Budget: core.Money{Cents: 40000}},
	}
}

// NewFromFiles seeds categories from base/seed_categories.txt, one
// "name|#color|budget" per line. Missing or empty files fall back to DefaultCategories.
func NewFromFiles(base string, opts ...Option) *Store {
	cats := readCategories(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	return New(cats, opts...)
}

func readCategories(path string) []core.CategoryInput {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.CategoryInput
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}
		budget, err := core.ParseAmount(parts[2])
		if err != nil {
			continue
		}
		in := core.CategoryInput{Name: strings.TrimSpace(parts[0]), Color: strings.TrimSpace(parts[1]), Budget: budget}
		if in.Validate() != nil {
			continue
		}
		if _, dup := seen[in.Name]; dup {
			continue
		}
		seen[in.Name] = struct{}{}
		out = append(out, in)
	}
	return out
}

func (s *Store) Ping(context.Context) error { return nil }

func badRequest(method, path string, err error) error {
	return &api.StatusError{Method: method, Path: path, StatusCode: http.StatusBadRequest, Body: err.Error()}
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, s.withSpent(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			return s.withSpent(c), nil
		}
	}
	return core.Category{}, fmt.Errorf("category %d: %w", id, api.ErrNotFound)
}

// withSpent fills the computed spent column. Callers hold s.mu.
func (s *Store) withSpent(c core.Category) core.Category {
	c.Spent = core.Money{}
	for _, e := range s.expenses {
		if e.CategoryID == c.ID {
			c.Spent.Cents += e.Amount.Cents
		}
	}
	return c
}

func (s *Store) CreateCategory(_ context.Context, in core.CategoryInput) error {
	if err := in.Validate(); err != nil {
		return badRequest(http.MethodPost, "/categories", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, core.Category{ID: s.nextCatID, Name: in.Name, Color: in.Color, Budget: in.Budget})
	s.nextCatID++
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, id int64, in core.CategoryInput) error {
	if err := in.Validate(); err != nil {
		return badRequest(http.MethodPatch, "/categories", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = in.Name
			s.categories[i].Color = in.Color
			s.categories[i].Budget = in.Budget
		}
	}
	return nil
}

// DeleteCategory refuses categories still referenced by expenses, like the foreign key would.
func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.CategoryID == id {
			return &api.StatusError{
				Method: http.MethodDelete, Path: "/categories", StatusCode: http.StatusConflict,
				Body: fmt.Sprintf("category %d is still referenced by expenses", id),
			}
		}
	}
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func (s *Store) ListExpenses(_ context.Context, req query.Request) ([]core.Expense, error) {
	s.mu.Lock()
	matched, err := s.match(req)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := sortExpenses(matched, req.Order); err != nil {
		return nil, badRequest(http.MethodGet, "/expenses", err)
	}
	if req.Offset >= len(matched) {
		return []core.Expense{}, nil
	}
	matched = matched[req.Offset:]
	if req.Limit > 0 && req.Limit < len(matched) {
		matched = matched[:req.Limit]
	}
	return matched, nil
}

func (s *Store) CountExpenses(_ context.Context, req query.Request) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched, err := s.match(req)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// match returns copies of the expenses satisfying every predicate. Callers hold s.mu.
func (s *Store) match(req query.Request) ([]core.Expense, error) {
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		ok, err := matchesAll(e, req.Predicates)
		if err != nil {
			return nil, badRequest(http.MethodGet, "/expenses", err)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("expense %d: %w", id, api.ErrNotFound)
}

func (s *Store) CreateExpense(_ context.Context, in core.ExpenseInput) error {
	if err := in.Validate(); err != nil {
		return badRequest(http.MethodPost, "/expenses", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, core.Expense{
		ID:          s.nextExpID,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
	})
	s.nextExpID++
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, id int64, in core.ExpenseInput) error {
	if err := in.Validate(); err != nil {
		return badRequest(http.MethodPatch, "/expenses", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses[i].Date = in.Date
			s.expenses[i].Description = in.Description
			s.expenses[i].CategoryID = in.CategoryID
			s.expenses[i].Amount = in.Amount
		}
	}
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.expenses[:0]
	for _, e := range s.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	return nil
}

var _ api.Backend = (*Store)(nil)
