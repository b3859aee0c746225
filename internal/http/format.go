package http

import (
	"encoding/json"
	"html/template"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"vibes/internal/core"
)

// FormatBRL renders m the way pt-BR shows reais, e.g. "R$ 1.234,56".
func FormatBRL(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "R$ " + humanize.FormatFloat("#.###,##", float64(cents)/100)
}

// FormatSignedPercent renders a change with an explicit plus sign, e.g. "+12.5%".
func FormatSignedPercent(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(round1(v), 'f', 1, 64) + "%"
}

// FormatPercent renders a share, e.g. "45.2%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(round1(v), 'f', 1, 64) + "%"
}

func round1(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0 // no "-0.0"
	}
	return r
}

// FormatCount groups thousands with dots.
func FormatCount(n int) string {
	return humanize.FormatInteger("#.###,", n)
}

// ResultsLabel is the caption under the expense table.
func ResultsLabel(shown, total int) string {
	return "Mostrando " + FormatCount(shown) + " de " + FormatCount(total) + " resultados"
}

// amountInput renders m for the amount field of a form, e.g. "1.234,56".
func amountInput(m core.Money) string {
	if m.Cents == 0 {
		return ""
	}
	return humanize.FormatFloat("#.###,##", float64(m.Cents)/100)
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"brl":          FormatBRL,
		"signedPct":    FormatSignedPercent,
		"pct":          FormatPercent,
		"count":        FormatCount,
		"resultsLabel": ResultsLabel,
		"amountInput":  amountInput,
		"json":         toJSON,
		"add":          func(a, b int) int { return a + b },
		"share": func(rows []core.CategoryTotal, c core.CategoryTotal) float64 {
			return core.Share(rows, c)
		},
	}
}
