// Package output provides utilities for formatting and displaying analysis reports.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/plantation-analytics/internal/engine"
	"github.com/iwvelando/plantation-analytics/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind controls how a metric value is rendered for humans.
type Kind int

const (
	KindCurrency Kind = iota
	KindUnits
	KindPercent
	KindNumber
	KindFlag
)

// Metric is one named figure of a report module.
type Metric struct {
	Module string
	Name   string
	Value  float64
	Kind   Kind
}

// Metrics flattens a report into module metrics, in module order.
func Metrics(report engine.Report) []Metric {
	var metrics []Metric
	add := func(module, name string, value float64, kind Kind) {
		metrics = append(metrics, Metric{Module: module, Name: name, Value: value, Kind: kind})
	}

	if r := report.Optimization; r != nil {
		add("optimization", "exportUnits", float64(r.ExportUnits), KindUnits)
		add("optimization", "nationalUnits", float64(r.NationalUnits), KindUnits)
		add("optimization", "maxProfit", r.MaxProfit, KindCurrency)
		add("optimization", "feasible", flag(r.Feasible), KindFlag)
	}
	if r := report.Inventory; r != nil {
		add("inventory", "orderQuantity", r.OrderQuantity, KindNumber)
		add("inventory", "ordersPerYear", r.OrdersPerYear, KindNumber)
		add("inventory", "totalCost", r.TotalCost, KindCurrency)
	}
	if r := report.Financial; r != nil {
		add("financial", "npv", r.NPV, KindCurrency)
		add("financial", "irr", r.IRR, KindPercent)
		add("financial", "payback", r.Payback, KindNumber)
		add("financial", "viable", flag(r.Viable), KindFlag)
		add("financial", "irrConverged", flag(r.IRRConverged), KindFlag)
	}
	if r := report.Leverage; r != nil {
		add("leverage", "optimalDebt", r.OptimalDebt, KindCurrency)
		add("leverage", "maxROE", r.MaxROE, KindPercent)
	}
	if r := report.Risk; r != nil {
		add("risk", "breakEvenRate", r.BreakEvenRate, KindNumber)
		add("risk", "safetyMargin", r.SafetyMargin, KindPercent)
		add("risk", "minProfit", r.MinProfit, KindCurrency)
		add("risk", "maxProfit", r.MaxProfit, KindCurrency)
		add("risk", "meanProfit", r.MeanProfit, KindCurrency)
		add("risk", "profitStdDev", r.ProfitStdDev, KindCurrency)
	}
	if r := report.ProductionCost; r != nil {
		add("productionCost", "totalCost", r.TotalCost, KindCurrency)
		add("productionCost", "totalPlants", r.TotalPlants, KindUnits)
		add("productionCost", "totalWeightKg", r.TotalWeightKg, KindNumber)
		add("productionCost", "costPerBunch", r.CostPerBunch, KindCurrency)
		add("productionCost", "costPerKg", r.CostPerKg, KindCurrency)
		add("productionCost", "costPerHectare", r.CostPerHectare, KindCurrency)
		for _, category := range r.CategoryBreakdown {
			add("productionCost", "category."+category.Key, category.Value, KindCurrency)
		}
	}

	return metrics
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func pretty(p *message.Printer, m Metric) string {
	switch m.Kind {
	case KindCurrency:
		return format.Currency(m.Value)
	case KindUnits:
		return format.Units(m.Value)
	case KindPercent:
		return format.Percent(m.Value)
	case KindFlag:
		if m.Value != 0 {
			return "yes"
		}
		return "no"
	default:
		return p.Sprintf("%.2f", m.Value)
	}
}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, reports []engine.Report) {
	p := message.NewPrinter(language.English)
	for i, report := range reports {
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", report.Scenario)
		_, _ = fmt.Fprintf(w, "Module         | Metric                   | Value\n")
		_, _ = fmt.Fprintf(w, "______         | ______                   | _____\n")
		for _, m := range Metrics(report) {
			_, _ = fmt.Fprintf(w, "%-14s | %-24s | %s\n", m.Module, m.Name, pretty(p, m))
		}
		if report.Risk != nil && len(report.Risk.Points) > 0 {
			_, _ = fmt.Fprintf(w, "\nExchange rate | Profit\n")
			for _, point := range report.Risk.Points {
				_, _ = p.Fprintf(w, "%13.2f | %s\n", point.Rate, format.Currency(point.Profit))
			}
		}
		if i < len(reports)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one quoted row per scenario metric.
func CsvFormat(w io.Writer, reports []engine.Report) {
	_, _ = fmt.Fprintf(w, `"scenario","module","metric","value"`+"\n")
	for _, report := range reports {
		for _, m := range Metrics(report) {
			_, _ = fmt.Fprintf(w, `"%s","%s","%s","%s"`+"\n",
				quote(report.Scenario), m.Module, m.Name, strconv.FormatFloat(m.Value, 'f', -1, 64))
		}
	}
}

func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
