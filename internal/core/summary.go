package core

// DashboardData is the single record returned by the dashboard_data view.
type DashboardData struct {
	MonthlyTotal              Money   `json:"monthly_total"`
	MonthlyChangePercentage   float64 `json:"monthly_change_percentage"`
	YearlyTotal               Money   `json:"yearly_total"`
	YearlyChangePercentage    float64 `json:"yearly_change_percentage"`
	TopCategory               string  `json:"top_category"`
	TopCategoryPercentage     float64 `json:"top_category_percentage" validate:"gte=0,lte=100"`
	RemainingBudget           Money   `json:"remaining_budget"`
	RemainingBudgetPercentage float64 `json:"remaining_budget_percentage"`
}

// MonthlyTotal is one row of the monthly_expenses_trend view.
type MonthlyTotal struct {
	MonthName   string `json:"month_name" validate:"required"`
	MonthNumber int    `json:"month_number" validate:"min=1,max=12"`
	TotalAmount Money  `json:"total_amount"`
}

// CategoryTotal is one row of category_distribution or category_comparison.
type CategoryTotal struct {
	CategoryName  string `json:"category_name" validate:"required"`
	CategoryColor string `json:"category_color" validate:"omitempty,hexcolor"`
	TotalAmount   Money  `json:"total_amount"`
}

// ExpenseSummary is the single record returned by the expense_summary view.
type ExpenseSummary struct {
	TotalSpending         Money   `json:"total_spending"`
	AverageDaily          Money   `json:"average_daily"`
	TopCategory           string  `json:"top_category"`
	TopCategoryPercentage float64 `json:"top_category_percentage" validate:"gte=0,lte=100"`
}

// Color returns the category color, or the fallback color when the view left it empty.
func (c CategoryTotal) Color() string {
	if c.CategoryColor == "" {
		return FallbackCategoryColor
	}
	return c.CategoryColor
}

// Share returns c.TotalAmount as a percentage of the sum over all rows.
func Share(rows []CategoryTotal, c CategoryTotal) float64 {
	var sum int64
	for _, r := range rows {
		sum += r.TotalAmount.Cents
	}
	if sum <= 0 {
		return 0
	}
	return float64(c.TotalAmount.Cents) * 100 / float64(sum)
}
