// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAppointmentTypeIsValid(t *testing.T) {
	cases := []struct {
		typ  AppointmentType
		want bool
	}{
		{typ: AppointmentConsulta, want: true},
		{typ: AppointmentExame, want: true},
		{typ: AppointmentType("CIRURGIA"), want: false},
		{typ: AppointmentType(""), want: false},
	}

	for _, tc := range cases {
		if got := tc.typ.IsValid(); got != tc.want {
			t.Fatalf("IsValid(%q) = %v, expected %v", tc.typ, got, tc.want)
		}
	}
}

func TestAppointmentDueAt(t *testing.T) {
	appt := Appointment{Date: "2025-06-01", Time: "14:30"}

	due, err := appt.DueAt(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, time.June, 1, 14, 30, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("expected %v, got %v", want, due)
	}

	appt = Appointment{Date: "junho", Time: "logo"}
	if _, err := appt.DueAt(time.UTC); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestAppointmentIsUpcoming(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local)

	future := Appointment{Date: "2025-06-01", Time: "14:30"}
	if !future.IsUpcoming(now) {
		t.Fatal("expected same-day later appointment to be upcoming")
	}

	past := Appointment{Date: "2025-05-31", Time: "09:00"}
	if past.IsUpcoming(now) {
		t.Fatal("expected past appointment not to be upcoming")
	}

	broken := Appointment{Date: "", Time: ""}
	if broken.IsUpcoming(now) {
		t.Fatal("expected unparseable appointment not to be upcoming")
	}
}

func TestExamRecordStatus(t *testing.T) {
	exam := ExamRecord{Value: "95", ReferenceRange: "70-99"}
	if got := exam.Status(); got != StatusSuccess {
		t.Fatalf("expected success, got %v", got)
	}

	exam = ExamRecord{Value: "REAGENTE", ReferenceRange: "não reagente"}
	if got := exam.Status(); got != StatusDanger {
		t.Fatalf("expected danger, got %v", got)
	}
}

func TestDisplayDate(t *testing.T) {
	exam := ExamRecord{Date: "2025-06-01"}
	if got := exam.DisplayDate(); got != "01/06/2025" {
		t.Fatalf("expected 01/06/2025, got %q", got)
	}

	exam = ExamRecord{Date: "amanhã"}
	if got := exam.DisplayDate(); got != "amanhã" {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}

func TestUserSanitized(t *testing.T) {
	user := User{ID: "1", Name: "Maria", Username: "maria", Password: "segredo"}

	clean := user.Sanitized()
	if clean.Password != "" {
		t.Fatal("expected password to be stripped")
	}
	if clean.Name != "Maria" || clean.ID != "1" {
		t.Fatalf("sanitize must not change other fields: %+v", clean)
	}
	if user.Password != "segredo" {
		t.Fatal("sanitize must not mutate the original")
	}
}

func TestExamRecordJSONFieldNames(t *testing.T) {
	exam := ExamRecord{
		ID:             "1",
		ExamName:       "Glicemia",
		Value:          "95",
		ReferenceRange: "70-99",
		DoctorName:     "Dr. Ana",
		Date:           "2025-06-01",
	}

	data, err := json.Marshal(exam)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Stored documents use the historical camelCase field names; renaming
	// them would orphan existing data
	for _, key := range []string{`"examName"`, `"referenceRange"`, `"doctorName"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected key %s in %s", key, data)
		}
	}
}
