package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"

	"vibes/internal/api"
	"vibes/internal/core"
)

// Dashboard is the joined data of the dashboard page.
type Dashboard struct {
	Data         core.DashboardData
	HasData      bool
	Trend        []core.MonthlyTotal
	Distribution []core.CategoryTotal
}

// Report is the joined data of the reports page.
type Report struct {
	Trend      []core.MonthlyTotal
	Comparison []core.CategoryTotal
	Summary    core.ExpenseSummary
	HasSummary bool
}

// Empty reports whether nothing at all has been recorded yet.
func (r Report) Empty() bool {
	return !r.HasSummary && len(r.Trend) == 0 && len(r.Comparison) == 0
}

// ReportService joins the aggregate views each page needs.
type ReportService struct {
	agg api.AggregateReader
}

func NewReportService(agg api.AggregateReader) *ReportService {
	return &ReportService{agg: agg}
}

// Dashboard fetches dashboard_data, the monthly trend and the category
// distribution concurrently. An empty dashboard_data view is not a failure.
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.agg.DashboardData(gctx)
		switch {
		case errors.Is(err, api.ErrNoData):
			return nil
		case err != nil:
			return fmt.Errorf("dashboard data: %w", err)
		}
		out.Data, out.HasData = d, true
		return nil
	})
	g.Go(func() error {
		trend, err := s.agg.MonthlyTrend(gctx)
		if err != nil {
			return fmt.Errorf("monthly trend: %w", err)
		}
		out.Trend = trend
		return nil
	})
	g.Go(func() error {
		dist, err := s.agg.CategoryDistribution(gctx)
		if err != nil {
			return fmt.Errorf("category distribution: %w", err)
		}
		out.Distribution = dist
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

// Report fetches the monthly trend, category comparison and expense summary concurrently.
func (s *ReportService) Report(ctx context.Context) (Report, error) {
	var out Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		trend, err := s.agg.MonthlyTrend(gctx)
		if err != nil {
			return fmt.Errorf("monthly trend: %w", err)
		}
		out.Trend = trend
		return nil
	})
	g.Go(func() error {
		comp, err := s.agg.CategoryComparison(gctx)
		if err != nil {
			return fmt.Errorf("category comparison: %w", err)
		}
		out.Comparison = comp
		return nil
	})
	g.Go(func() error {
		sum, err := s.agg.ExpenseSummary(gctx)
		switch {
		case errors.Is(err, api.ErrNoData):
			return nil
		case err != nil:
			return fmt.Errorf("expense summary: %w", err)
		}
		out.Summary, out.HasSummary = sum, true
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return out, nil
}

// WriteReportCSV writes the report as section,label,amount,detail rows.
func WriteReportCSV(w io.Writer, r Report) error {
	writer := csv.NewWriter(w)
	header := []string{"section", "label", "amount", "detail"}
	if err := writer.Write(header); err != nil {
		return err
	}

	if r.HasSummary {
		records := [][]string{
			{"summary", "total_spending", r.Summary.TotalSpending.Decimal(), ""},
			{"summary", "average_daily", r.Summary.AverageDaily.Decimal(), ""},
			{"summary", "top_category", "", r.Summary.TopCategory},
			{"summary", "top_category_percentage", "", formatFloat(r.Summary.TopCategoryPercentage)},
		}
		if err := writer.WriteAll(records); err != nil {
			return err
		}
	}
	for _, m := range r.Trend {
		record := []string{"monthly_trend", m.MonthName, m.TotalAmount.Decimal(), strconv.Itoa(m.MonthNumber)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	for _, c := range r.Comparison {
		record := []string{"category", c.CategoryName, c.TotalAmount.Decimal(), c.Color()}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
