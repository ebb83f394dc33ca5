/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// reportFilters holds the report screen's query parameters
type reportFilters struct {
	Query      string
	Status     string
	Laboratory string
	From       string // ISO date, inclusive
	To         string // ISO date, inclusive
}

func reportFiltersFromQuery(c flamego.Context) reportFilters {
	return reportFilters{
		Query:      strings.TrimSpace(c.Query("q")),
		Status:     strings.TrimSpace(c.Query("status")),
		Laboratory: strings.TrimSpace(c.Query("laboratory")),
		From:       strings.TrimSpace(c.Query("from")),
		To:         strings.TrimSpace(c.Query("to")),
	}
}

// filterReportExams applies the report filters to the exam history.
// Malformed from/to dates are ignored rather than rejected.
func filterReportExams(exams []db.ExamRecord, filters reportFilters) []db.ExamRecord {
	if _, err := time.Parse("2006-01-02", filters.From); err != nil {
		filters.From = ""
	}
	if _, err := time.Parse("2006-01-02", filters.To); err != nil {
		filters.To = ""
	}

	filtered := make([]db.ExamRecord, 0, len(exams))
	for _, exam := range exams {
		if filters.Query != "" &&
			!strings.Contains(strings.ToLower(exam.ExamName), strings.ToLower(filters.Query)) {
			continue
		}
		if filters.Status != "" && string(exam.Status()) != filters.Status {
			continue
		}
		if filters.Laboratory != "" &&
			!strings.EqualFold(strings.TrimSpace(exam.Laboratory), filters.Laboratory) {
			continue
		}
		if filters.From != "" && exam.Date < filters.From {
			continue
		}
		if filters.To != "" && exam.Date > filters.To {
			continue
		}
		filtered = append(filtered, exam)
	}

	return filtered
}

// ReportsList renders the filterable exam history table
func ReportsList(c flamego.Context, t template.Template, data template.Data, state *db.State) {
	filters := reportFiltersFromQuery(c)
	exams := filterReportExams(sortExamsNewestFirst(state.Exams()), filters)

	data["IsReports"] = true
	data["Exams"] = exams
	data["Filters"] = filters
	data["Laboratories"] = state.UnifiedLaboratories()
	data["TotalCount"] = len(state.Exams())

	t.HTML(http.StatusOK, "reports")
}

// ReportsPrint renders the same filtered table without navigation, for
// handing to a doctor on paper.
func ReportsPrint(c flamego.Context, t template.Template, data template.Data, state *db.State) {
	filters := reportFiltersFromQuery(c)

	data["Exams"] = filterReportExams(sortExamsNewestFirst(state.Exams()), filters)
	data["User"] = state.User()
	data["GeneratedAt"] = time.Now().Format("02/01/2006 15:04")

	t.HTML(http.StatusOK, "reports_print")
}

// ExportReportsCSV streams the filtered exam history as a CSV download
// that opens cleanly in spreadsheet applications.
func ExportReportsCSV(c flamego.Context, state *db.State) {
	filters := reportFiltersFromQuery(c)
	exams := filterReportExams(sortExamsNewestFirst(state.Exams()), filters)

	w := c.ResponseWriter()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="exames_`+time.Now().Format("2006-01-02")+`.csv"`)

	if err := db.ExportExamsCSV(w, exams); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}
