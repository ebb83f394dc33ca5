// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"testing"
	"time"

	"github.com/lifetrace/lifetrace/db"
)

func TestBuildRemindersOnePerExamName(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	exams := []db.ExamRecord{
		{ExamName: "Glicemia", Value: "95", ReferenceRange: "70 - 99", Date: "2025-06-01"},
		{ExamName: "glicemia", Value: "90", ReferenceRange: "70 - 99", Date: "2025-01-01"},
		{ExamName: "Colesterol Total", Value: "180", ReferenceRange: "< 200", Date: "2024-01-01"},
	}

	reminders := buildReminders(exams, now)

	if len(reminders) != 2 {
		t.Fatalf("buildReminders() returned %d reminders, want 2", len(reminders))
	}

	// Most overdue first
	if reminders[0].ExamName != "Colesterol Total" {
		t.Fatalf("first reminder = %q, want Colesterol Total", reminders[0].ExamName)
	}
	if !reminders[0].Overdue {
		t.Fatal("year-old normal result should be overdue")
	}
	if reminders[1].Overdue {
		t.Fatal("month-old normal result should not be overdue")
	}

	// Only the most recent result per name counts
	if reminders[1].LastDate != "2025-06-01" {
		t.Fatalf("LastDate = %q, want 2025-06-01", reminders[1].LastDate)
	}
}

func TestBuildRemindersWorryingResultsDueSooner(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	exams := []db.ExamRecord{
		{ExamName: "Glicemia", Value: "95", ReferenceRange: "70 - 99", Date: "2025-02-01"},
		{ExamName: "Ferritina", Value: "500", ReferenceRange: "30 - 400", Date: "2025-02-01"},
	}

	reminders := buildReminders(exams, now)
	if len(reminders) != 2 {
		t.Fatalf("buildReminders() returned %d reminders, want 2", len(reminders))
	}

	var normal, danger reminder
	for _, r := range reminders {
		switch r.ExamName {
		case "Glicemia":
			normal = r
		case "Ferritina":
			danger = r
		}
	}

	if normal.LastStatus != db.StatusSuccess {
		t.Fatalf("Glicemia status = %q, want success", normal.LastStatus)
	}
	if danger.LastStatus != db.StatusDanger {
		t.Fatalf("Ferritina status = %q, want danger", danger.LastStatus)
	}
	if !(danger.DueDate < normal.DueDate) {
		t.Fatalf("danger due %q should come before normal due %q", danger.DueDate, normal.DueDate)
	}
	if !danger.Overdue {
		t.Fatal("critical result from five months ago should be overdue")
	}
}

func TestBuildRemindersSkipsUnparseableDates(t *testing.T) {
	t.Parallel()

	exams := []db.ExamRecord{
		{ExamName: "Glicemia", Value: "95", Date: "junho de 2025"},
		{ExamName: "", Value: "95", Date: "2025-06-01"},
	}

	if got := buildReminders(exams, time.Now()); len(got) != 0 {
		t.Fatalf("buildReminders() returned %d reminders, want 0", len(got))
	}
}
