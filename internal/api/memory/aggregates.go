package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vibes/internal/api"
	"vibes/internal/core"
)

var monthNames = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func (s *Store) today() core.Date {
	return core.DateOf(s.now())
}

// sumBetween totals expenses dated in [from, to]. Callers hold s.mu.
func (s *Store) sumBetween(from, to core.Date) int64 {
	var sum int64
	for _, e := range s.expenses {
		if !e.Date.Before(from.Time) && !e.Date.After(to.Time) {
			sum += e.Amount.Cents
		}
	}
	return sum
}

// totalsByCategory groups expenses dated in [from, to]. Callers hold s.mu.
func (s *Store) totalsByCategory(from, to core.Date) []core.CategoryTotal {
	sums := map[int64]int64{}
	for _, e := range s.expenses {
		if e.Date.Before(from.Time) || e.Date.After(to.Time) {
			continue
		}
		sums[e.CategoryID] += e.Amount.Cents
	}
	out := make([]core.CategoryTotal, 0, len(sums))
	for id, cents := range sums {
		c := core.CategoryFor(s.categories, id)
		out = append(out, core.CategoryTotal{CategoryName: c.Name, CategoryColor: c.Color, TotalAmount: core.Money{Cents: cents}})
	}
	out = mergeByName(out)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount.Cents != out[j].TotalAmount.Cents {
			return out[i].TotalAmount.Cents > out[j].TotalAmount.Cents
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

// mergeByName folds rows sharing a name (several unknown ids all map to the fallback).
func mergeByName(rows []core.CategoryTotal) []core.CategoryTotal {
	idx := map[string]int{}
	out := rows[:0]
	for _, r := range rows {
		if i, ok := idx[r.CategoryName]; ok {
			out[i].TotalAmount.Cents += r.TotalAmount.Cents
			continue
		}
		idx[r.CategoryName] = len(out)
		out = append(out, r)
	}
	return out
}

func changePct(cur, prev int64) float64 {
	if prev == 0 {
		return 0
	}
	return round1(float64(cur-prev) * 100 / float64(prev))
}

func pct(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(whole))
}

func round1(f float64) float64 {
	if f < 0 {
		return -float64(int64(-f*10+0.5)) / 10
	}
	return float64(int64(f*10+0.5)) / 10
}

func monthRange(year int, month time.Month) (core.Date, core.Date) {
	start := core.NewDate(year, int(month), 1)
	end := core.DateOf(start.AddDate(0, 1, -1))
	return start, end
}

func (s *Store) DashboardData(_ context.Context) (core.DashboardData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.expenses) == 0 {
		return core.DashboardData{}, fmt.Errorf("dashboard_data: %w", api.ErrNoData)
	}
	today := s.today()
	y, m := today.Year(), today.Month()

	monthStart, monthEnd := monthRange(y, m)
	prev := monthStart.AddDate(0, -1, 0)
	prevStart, prevEnd := monthRange(prev.Year(), prev.Month())
	monthly := s.sumBetween(monthStart, monthEnd)
	prevMonthly := s.sumBetween(prevStart, prevEnd)

	yearly := s.sumBetween(core.NewDate(y, 1, 1), core.NewDate(y, 12, 31))
	prevYearly := s.sumBetween(core.NewDate(y-1, 1, 1), core.NewDate(y-1, 12, 31))

	var budget int64
	for _, c := range s.categories {
		budget += c.Budget.Cents
	}

	d := core.DashboardData{
		MonthlyTotal:              core.Money{Cents: monthly},
		MonthlyChangePercentage:   changePct(monthly, prevMonthly),
		YearlyTotal:               core.Money{Cents: yearly},
		YearlyChangePercentage:    changePct(yearly, prevYearly),
		RemainingBudget:           core.Money{Cents: budget - monthly},
		RemainingBudgetPercentage: pct(budget-monthly, budget),
	}
	if top := s.totalsByCategory(monthStart, monthEnd); len(top) > 0 {
		d.TopCategory = top[0].CategoryName
		d.TopCategoryPercentage = pct(top[0].TotalAmount.Cents, monthly)
	}
	return d, nil
}

// MonthlyTrend lists every month of the current year up to the current one.
func (s *Store) MonthlyTrend(_ context.Context) ([]core.MonthlyTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.expenses) == 0 {
		return []core.MonthlyTotal{}, nil
	}
	today := s.today()
	out := make([]core.MonthlyTotal, 0, int(today.Month()))
	for m := time.January; m <= today.Month(); m++ {
		start, end := monthRange(today.Year(), m)
		out = append(out, core.MonthlyTotal{
			MonthName:   monthNames[m-1],
			MonthNumber: int(m),
			TotalAmount: core.Money{Cents: s.sumBetween(start, end)},
		})
	}
	return out, nil
}

// CategoryDistribution groups all expenses by category.
func (s *Store) CategoryDistribution(_ context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsByCategory(core.Date{}, core.NewDate(9999, 12, 31)), nil
}

// CategoryComparison groups the current year by category.
func (s *Store) CategoryComparison(_ context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y := s.today().Year()
	return s.totalsByCategory(core.NewDate(y, 1, 1), core.NewDate(y, 12, 31)), nil
}

func (s *Store) ExpenseSummary(_ context.Context) (core.ExpenseSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.expenses) == 0 {
		return core.ExpenseSummary{}, fmt.Errorf("expense_summary: %w", api.ErrNoData)
	}
	first := s.expenses[0].Date
	var total int64
	for _, e := range s.expenses {
		total += e.Amount.Cents
		if e.Date.Before(first.Time) {
			first = e.Date
		}
	}
	days := int64(s.today().Sub(first.Time).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	sum := core.ExpenseSummary{
		TotalSpending: core.Money{Cents: total},
		AverageDaily:  core.Money{Cents: (total + days/2) / days},
	}
	if top := s.totalsByCategory(core.Date{}, core.NewDate(9999, 12, 31)); len(top) > 0 {
		sum.TopCategory = top[0].CategoryName
		sum.TopCategoryPercentage = pct(top[0].TotalAmount.Cents, total)
	}
	return sum, nil
}
