package http

import (
	"bytes"
	"net/http"

	"vibes/internal/core"
	"vibes/internal/log"
	"vibes/internal/services"
)

// chartData is serialised into a data-chart attribute and drawn by app.js.
type chartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
}

func trendChart(rows []core.MonthlyTotal) chartData {
	c := chartData{Labels: make([]string, 0, len(rows)), Values: make([]float64, 0, len(rows))}
	for _, m := range rows {
		c.Labels = append(c.Labels, m.MonthName)
		c.Values = append(c.Values, m.TotalAmount.Reais())
	}
	return c
}

func categoryChart(rows []core.CategoryTotal) chartData {
	c := chartData{
		Labels: make([]string, 0, len(rows)),
		Values: make([]float64, 0, len(rows)),
		Colors: make([]string, 0, len(rows)),
	}
	for _, t := range rows {
		c.Labels = append(c.Labels, t.CategoryName)
		c.Values = append(c.Values, t.TotalAmount.Reais())
		c.Colors = append(c.Colors, t.Color())
	}
	return c
}

type dashboardView struct {
	services.Dashboard
	Failed            bool
	TrendChart        chartData
	DistributionChart chartData
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", pageData{Title: "Vibes Expense", Active: "home"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.Dashboard(r.Context())
	view := dashboardView{Dashboard: d}
	if err != nil {
		s.readFailed(r.Context(), log.ComponentReport, "dashboard", err)
		view = dashboardView{Failed: true}
	}
	view.TrendChart = trendChart(view.Trend)
	view.DistributionChart = categoryChart(view.Distribution)
	s.render(w, r, http.StatusOK, "dashboard.html", pageData{
		Title:  "Painel de Controle",
		Active: "dashboard",
		Data:   view,
	})
}

type reportsView struct {
	services.Report
	Failed          bool
	TrendChart      chartData
	ComparisonChart chartData
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Report(r.Context())
	view := reportsView{Report: rep}
	if err != nil {
		s.readFailed(r.Context(), log.ComponentReport, "reports", err)
		view = reportsView{Failed: true}
	}
	view.TrendChart = trendChart(view.Trend)
	view.ComparisonChart = categoryChart(view.Comparison)
	s.render(w, r, http.StatusOK, "reports.html", pageData{
		Title:  "Relatórios & Análises",
		Active: "reports",
		Data:   view,
	})
}

// handleReportExport downloads the report datasets as CSV.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Report(r.Context())
	if err != nil {
		s.readFailed(r.Context(), log.ComponentReport, "report_export", err)
		http.Error(w, "Erro ao gerar relatório", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteReportCSV(&buf, rep); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentReport).ErrorContext(r.Context(), "CSV export failed",
			log.FieldError, err,
			log.FieldOperation, log.OpExport)
		http.Error(w, "Erro ao gerar relatório", http.StatusInternalServerError)
		return
	}

	filename := "relatorio-vibes-" + core.DateOf(s.now()).String() + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
