/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	htmltemplate "html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/template"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lifetrace/lifetrace/db"
)

// examSeries is the chronological numeric history of one exam name
type examSeries struct {
	Name         string
	Unit         string
	Dates        []string
	Values       []float64
	RefMin       *float64
	RefMax       *float64
	Latest       db.ExamRecord
	LatestStatus db.HealthStatus
}

// examStats summarizes a series for the analytics side panel
type examStats struct {
	Name   string
	Count  int
	Min    float64
	Max    float64
	Latest float64
	Unit   string
	Trend  string
	Status db.HealthStatus
}

// Analytics renders per-exam evolution charts for every exam name that
// has at least two numeric results, plus summary statistics.
func Analytics(c flamego.Context, t template.Template, data template.Data, state *db.State) {
	series := buildExamSeries(state.Exams())

	selected := strings.TrimSpace(c.Query("exam"))

	rendered := make([]htmltemplate.HTML, 0, len(series))
	stats := make([]examStats, 0, len(series))
	names := make([]string, 0, len(series))

	for _, s := range series {
		names = append(names, s.Name)
		stats = append(stats, summarizeSeries(s))

		if selected != "" && !strings.EqualFold(s.Name, selected) {
			continue
		}
		if chart, err := renderExamChart(s); err == nil {
			rendered = append(rendered, htmltemplate.HTML(chart))
		}
	}

	data["IsAnalytics"] = true
	data["Charts"] = rendered
	data["Stats"] = stats
	data["ExamNames"] = names
	data["SelectedExam"] = selected

	t.HTML(http.StatusOK, "analytics")
}

// buildExamSeries groups exams by name and keeps the names that have at
// least two numeric results, ordered chronologically. Two results on the
// same date keep the later entry.
func buildExamSeries(exams []db.ExamRecord) []examSeries {
	byName := make(map[string][]db.ExamRecord)
	for _, exam := range exams {
		key := strings.ToUpper(strings.TrimSpace(exam.ExamName))
		if key == "" {
			continue
		}
		if _, ok := db.NumericValue(exam.Value); !ok {
			continue
		}
		byName[key] = append(byName[key], exam)
	}

	series := make([]examSeries, 0, len(byName))
	for _, records := range byName {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date < records[j].Date
		})

		// Deduplicate by date, keeping the last entry for each day
		byDate := make(map[string]db.ExamRecord, len(records))
		order := make([]string, 0, len(records))
		for _, record := range records {
			if _, seen := byDate[record.Date]; !seen {
				order = append(order, record.Date)
			}
			byDate[record.Date] = record
		}

		if len(order) < 2 {
			continue
		}

		latest := byDate[order[len(order)-1]]
		s := examSeries{
			Name:   latest.ExamName,
			Unit:   latest.Unit,
			Latest: latest,
		}
		s.RefMin, s.RefMax = db.ReferenceBounds(latest.ReferenceRange)
		s.LatestStatus = latest.Status()

		for _, date := range order {
			record := byDate[date]
			value, _ := db.NumericValue(record.Value)
			s.Dates = append(s.Dates, record.DisplayDate())
			s.Values = append(s.Values, value)
		}

		series = append(series, s)
	}

	sort.SliceStable(series, func(i, j int) bool {
		return strings.ToUpper(series[i].Name) < strings.ToUpper(series[j].Name)
	})

	return series
}

// summarizeSeries computes the side-panel statistics for one series
func summarizeSeries(s examSeries) examStats {
	stats := examStats{
		Name:   s.Name,
		Count:  len(s.Values),
		Min:    s.Values[0],
		Max:    s.Values[0],
		Latest: s.Values[len(s.Values)-1],
		Unit:   s.Unit,
		Status: s.LatestStatus,
	}

	for _, v := range s.Values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}

	previous := s.Values[len(s.Values)-2]
	switch {
	case stats.Latest > previous:
		stats.Trend = "up"
	case stats.Latest < previous:
		stats.Trend = "down"
	default:
		stats.Trend = "stable"
	}

	return stats
}

// renderExamChart renders one series as a line chart with the reference
// bounds drawn as dashed mark lines.
func renderExamChart(s examSeries) (string, error) {
	yData := make([]opts.LineData, 0, len(s.Values))
	dataMin, dataMax := s.Values[0], s.Values[0]
	for _, v := range s.Values {
		yData = append(yData, opts.LineData{Value: v})
		if v < dataMin {
			dataMin = v
		}
		if v > dataMax {
			dataMax = v
		}
	}

	// Widen the y axis so the reference band stays visible even when all
	// results sit inside it
	var yAxisMin, yAxisMax interface{}
	if s.RefMin != nil && s.RefMax != nil {
		padding := (*s.RefMax - *s.RefMin) * 0.1
		minVal := *s.RefMin - padding
		maxVal := *s.RefMax + padding

		if dataMin < minVal {
			minVal = dataMin - (dataMax-dataMin)*0.05
		}
		if dataMax > maxVal {
			maxVal = dataMax + (dataMax-dataMin)*0.05
		}

		yAxisMin = minVal
		yAxisMax = maxVal
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: s.Name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: s.Unit,
			Min:  yAxisMin,
			Max:  yAxisMax,
		}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
		charts.WithMarkPointNameTypeItemOpts(
			opts.MarkPointNameTypeItem{Name: "Máximo", Type: "max"},
			opts.MarkPointNameTypeItem{Name: "Mínimo", Type: "min"},
		),
		charts.WithMarkLineNameTypeItemOpts(
			opts.MarkLineNameTypeItem{Name: "Média", Type: "average"},
		),
	}

	var markLineItems []interface{}
	if s.RefMin != nil {
		markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{
			Name:  "Ref Mín",
			YAxis: *s.RefMin,
		})
	}
	if s.RefMax != nil {
		markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{
			Name:  "Ref Máx",
			YAxis: *s.RefMax,
		})
	}

	if len(markLineItems) > 0 {
		seriesOpts = append(seriesOpts, func(series *charts.SingleSeries) {
			series.MarkLines = &opts.MarkLines{
				Data: markLineItems,
				MarkLineStyle: opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Color: "rgba(128, 128, 128, 0.6)",
						Type:  "dashed",
						Width: 1.5,
					},
				},
			}
		})
	}

	line.SetXAxis(s.Dates).
		AddSeries(s.Name, yData).
		SetSeriesOptions(seriesOpts...)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
