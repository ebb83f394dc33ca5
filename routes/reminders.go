/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// Re-test intervals by last result status. Worrying results deserve an
// earlier follow-up than normal ones.
const (
	retestIntervalNormal  = 12 * 30 * 24 * time.Hour
	retestIntervalWarning = 6 * 30 * 24 * time.Hour
	retestIntervalDanger  = 3 * 30 * 24 * time.Hour
)

// reminder is a suggested re-test, derived from the exam history rather
// than stored anywhere.
type reminder struct {
	ExamName   string
	LastDate   string
	LastStatus db.HealthStatus
	DueDate    string
	Overdue    bool
}

func (r reminder) DisplayLastDate() string { return displayISODate(r.LastDate) }
func (r reminder) DisplayDueDate() string  { return displayISODate(r.DueDate) }

func displayISODate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// buildReminders derives one reminder per exam name from the most recent
// result, ordered most-overdue first.
func buildReminders(exams []db.ExamRecord, now time.Time) []reminder {
	latest := make(map[string]db.ExamRecord)
	for _, exam := range exams {
		key := strings.ToUpper(strings.TrimSpace(exam.ExamName))
		if key == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", exam.Date); err != nil {
			continue
		}
		if existing, ok := latest[key]; !ok || exam.Date > existing.Date {
			latest[key] = exam
		}
	}

	reminders := make([]reminder, 0, len(latest))
	for _, exam := range latest {
		lastDate, _ := time.Parse("2006-01-02", exam.Date)

		status := exam.Status()
		interval := retestIntervalNormal
		switch status {
		case db.StatusWarning:
			interval = retestIntervalWarning
		case db.StatusDanger:
			interval = retestIntervalDanger
		}

		due := lastDate.Add(interval)
		reminders = append(reminders, reminder{
			ExamName:   exam.ExamName,
			LastDate:   exam.Date,
			LastStatus: status,
			DueDate:    due.Format("2006-01-02"),
			Overdue:    due.Before(now),
		})
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].DueDate != reminders[j].DueDate {
			return reminders[i].DueDate < reminders[j].DueDate
		}
		return reminders[i].ExamName < reminders[j].ExamName
	})

	return reminders
}

// Reminders renders suggested re-test dates derived from the history
func Reminders(t template.Template, data template.Data, state *db.State) {
	reminders := buildReminders(state.Exams(), time.Now())

	overdue := 0
	for _, r := range reminders {
		if r.Overdue {
			overdue++
		}
	}

	data["IsReminders"] = true
	data["Reminders"] = reminders
	data["OverdueCount"] = overdue

	t.HTML(http.StatusOK, "reminders")
}
