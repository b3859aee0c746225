package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used on the wire.
const DateLayout = "2006-01-02"

const (
	// FallbackCategoryName labels expenses whose category no longer exists.
	FallbackCategoryName  = "Outros"
	FallbackCategoryColor = "#6c757d"
)

type (
	// Date is a calendar day without time component, always stored at UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          int64  `json:"id"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
		CategoryID  int64  `json:"category_id"`
		Amount      Money  `json:"amount"`
	}

	Category struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Color  string `json:"color"`
		Budget Money  `json:"budget"`
		Spent  Money  `json:"spent"` // computed by the data API
	}

	// ExpenseInput is the body of an expense create or update.
	ExpenseInput struct {
		Date        Date   `json:"date" validate:"required"`
		Description string `json:"description" validate:"required,max=200"`
		CategoryID  int64  `json:"category_id" validate:"gt=0"`
		Amount      Money  `json:"amount" validate:"gt=0"`
	}

	// CategoryInput is the body of a category create or update.
	CategoryInput struct {
		Name   string `json:"name" validate:"required,max=100"`
		Color  string `json:"color" validate:"required,hexcolor"`
		Budget Money  `json:"budget" validate:"gt=0"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the UTC calendar day containing t.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), int(u.Month()), u.Day())
}

// ParseDate parses a YYYY-MM-DD string. Timestamps are accepted and truncated to their day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// String returns the ISO form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Display renders the date the way the pt-BR UI shows it (dd/mm/yyyy).
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// OtherCategory is the synthetic category shown for unknown references.
func OtherCategory() Category {
	return Category{Name: FallbackCategoryName, Color: FallbackCategoryColor}
}

// CategoryFor finds the category with the given id, falling back to OtherCategory.
func CategoryFor(categories []Category, id int64) Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return OtherCategory()
}

// Input returns the editable fields of an existing expense.
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{
		Date:        e.Date,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
	}
}

// Input returns the editable fields of an existing category.
func (c Category) Input() CategoryInput {
	return CategoryInput{Name: c.Name, Color: c.Color, Budget: c.Budget}
}

// BudgetUsage returns spent/budget as a percentage clamped to [0,100].
func (c Category) BudgetUsage() int {
	if c.Budget.Cents <= 0 || c.Spent.Cents <= 0 {
		return 0
	}
	pct := (c.Spent.Cents*100 + c.Budget.Cents/2) / c.Budget.Cents
	if pct > 100 {
		pct = 100
	}
	return int(pct)
}

// OverBudget reports whether the category spent more than its budget.
func (c Category) OverBudget() bool {
	return c.Budget.Cents > 0 && c.Spent.Cents > c.Budget.Cents
}

// Validate checks the form rules for an expense.
func (in ExpenseInput) Validate() error {
	return validateStruct(in)
}

// Validate checks the form rules for a category.
func (in CategoryInput) Validate() error {
	return validateStruct(in)
}
