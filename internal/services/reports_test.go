package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"vibes/internal/api/memory"
	"vibes/internal/core"
)

type failingTrend struct {
	*memory.Store
}

func (failingTrend) MonthlyTrend(context.Context) ([]core.MonthlyTotal, error) {
	return nil, errors.New("502 from data API")
}

func TestDashboardJoin(t *testing.T) {
	s := storeWith(t, 6)
	d, err := NewReportService(s).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !d.HasData || d.Data.MonthlyTotal.Cents == 0 {
		t.Fatalf("expected dashboard data, got %+v", d.Data)
	}
	if len(d.Trend) != 3 || len(d.Distribution) != 4 {
		t.Fatalf("unexpected trend=%d distribution=%d", len(d.Trend), len(d.Distribution))
	}
}

func TestDashboardNoDataIsNotFailure(t *testing.T) {
	s := memory.New(memory.DefaultCategories(), memory.WithNow(fixedNow))
	d, err := NewReportService(s).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.HasData {
		t.Fatalf("expected no data")
	}
}

func TestJoinsFailTogether(t *testing.T) {
	svc := NewReportService(failingTrend{storeWith(t, 2)})
	if _, err := svc.Dashboard(context.Background()); err == nil {
		t.Fatalf("dashboard should fail when the trend fails")
	}
	if _, err := svc.Report(context.Background()); err == nil {
		t.Fatalf("report should fail when the trend fails")
	}
}

func TestReportCSV(t *testing.T) {
	s := storeWith(t, 4)
	r, err := NewReportService(s).Report(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Empty() || !r.HasSummary {
		t.Fatalf("expected report data")
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, r); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	want := 1 + 4 + len(r.Trend) + len(r.Comparison)
	if len(records) != want {
		t.Fatalf("expected %d records, got %d", want, len(records))
	}
	if records[0][0] != "section" || records[1][1] != "total_spending" || records[1][2] != "10.00" {
		t.Fatalf("unexpected csv head %v %v", records[0], records[1])
	}
	last := records[len(records)-1]
	if last[0] != "category" || last[3] == "" {
		t.Fatalf("expected category row with color, got %v", last)
	}
}

func TestReportEmpty(t *testing.T) {
	s := memory.New(nil, memory.WithNow(fixedNow))
	r, err := NewReportService(s).Report(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !r.Empty() {
		t.Fatalf("expected empty report, got %+v", r)
	}
	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, r); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if buf.String() != "section,label,amount,detail\n" {
		t.Fatalf("unexpected csv %q", buf.String())
	}
}
