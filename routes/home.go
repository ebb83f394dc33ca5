/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"sort"
	"time"

	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// How many records the dashboard panels show
const (
	dashboardExamCount        = 3
	dashboardAppointmentCount = 6
)

// sortExamsNewestFirst orders exams by date descending for display
func sortExamsNewestFirst(exams []db.ExamRecord) []db.ExamRecord {
	sort.SliceStable(exams, func(i, j int) bool {
		return exams[i].Date > exams[j].Date
	})

	return exams
}

// upcomingAppointments returns future appointments ordered by due time
func upcomingAppointments(appointments []db.Appointment, now time.Time) []db.Appointment {
	upcoming := make([]db.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.IsUpcoming(now) {
			upcoming = append(upcoming, appt)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date < upcoming[j].Date
		}
		return upcoming[i].Time < upcoming[j].Time
	})

	return upcoming
}

// Dashboard renders the main screen: the latest results with their
// status badges and the next scheduled appointments.
func Dashboard(t template.Template, data template.Data, state *db.State) {
	exams := sortExamsNewestFirst(state.Exams())
	if len(exams) > dashboardExamCount {
		exams = exams[:dashboardExamCount]
	}

	upcoming := upcomingAppointments(state.Appointments(), time.Now())
	if len(upcoming) > dashboardAppointmentCount {
		upcoming = upcoming[:dashboardAppointmentCount]
	}

	data["IsDashboard"] = true
	data["LatestExams"] = exams
	data["UpcomingAppointments"] = upcoming
	data["ExamCount"] = len(state.Exams())
	data["ImagingCount"] = len(state.ImagingExams())
	data["AppointmentCount"] = len(state.Appointments())

	t.HTML(http.StatusOK, "home")
}
