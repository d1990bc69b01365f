package renderer

import (
	"github.com/etnz/folio"
)

// Chart is a performance report ready to be drawn as horizontal bars.
type Chart struct {
	*folio.PerformanceReport
	Width int    // widest label
	Lines []Line // one per bucket
}

// Line is a bar of a Chart.
type Line struct {
	Label   string
	Markers int
	Value   folio.Money
	Known   bool
}

// NewChart lays out the bars of a report.
func NewChart(r *folio.PerformanceReport) *Chart {
	c := &Chart{PerformanceReport: r}
	for i, b := range r.Buckets {
		c.Width = max(c.Width, len(b.Label))
		c.Lines = append(c.Lines, Line{Label: b.Label, Markers: r.Markers[i], Value: b.Value, Known: b.Known})
	}
	return c
}

// RenderPerformance renders a performance report: the bar chart, its scale and summary
// statistics.
func RenderPerformance(r *folio.PerformanceReport) string {
	partials := map[string]string{
		"performance_chart":   "performance_chart.md",
		"performance_summary": "performance_summary.md",
	}
	if r.Summary.Count == 0 {
		partials["performance_summary"] = ""
	}
	return renderTemplate("performance", "performance.md", partials, NewChart(r))
}
