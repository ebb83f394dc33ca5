// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"errors"
	"net/url"
	"testing"
)

func TestDraftFromFormTrimsFields(t *testing.T) {
	t.Parallel()

	form := url.Values{}
	form.Set("exam_name", "  Glicemia  ")
	form.Set("value", " 95 ")
	form.Set("unit", "mg/dL")
	form.Set("reference_range", " 70 - 99 ")
	form.Set("laboratory", " Lab Central ")
	form.Set("doctor_name", " Dra. Silva ")
	form.Set("date", "2025-06-01")

	draft := draftFromForm(form)

	if draft.ExamName != "Glicemia" {
		t.Fatalf("ExamName = %q, want %q", draft.ExamName, "Glicemia")
	}
	if draft.Value != "95" {
		t.Fatalf("Value = %q, want %q", draft.Value, "95")
	}
	if draft.ReferenceRange != "70 - 99" {
		t.Fatalf("ReferenceRange = %q, want %q", draft.ReferenceRange, "70 - 99")
	}
	if draft.Laboratory != "Lab Central" {
		t.Fatalf("Laboratory = %q, want %q", draft.Laboratory, "Lab Central")
	}
}

func TestExamDraftCommitValidation(t *testing.T) {
	t.Parallel()

	valid := ExamDraft{
		ExamName: "Glicemia",
		Value:    "95",
		Date:     "2025-06-01",
	}

	tests := []struct {
		name    string
		mutate  func(d ExamDraft) ExamDraft
		wantErr error
	}{
		{
			name:   "valid draft",
			mutate: func(d ExamDraft) ExamDraft { return d },
		},
		{
			name:    "missing name",
			mutate:  func(d ExamDraft) ExamDraft { d.ExamName = ""; return d },
			wantErr: errExamNameRequired,
		},
		{
			name:    "missing value",
			mutate:  func(d ExamDraft) ExamDraft { d.Value = ""; return d },
			wantErr: errExamValueRequired,
		},
		{
			name:    "missing date",
			mutate:  func(d ExamDraft) ExamDraft { d.Date = ""; return d },
			wantErr: errExamDateRequired,
		},
		{
			name:    "malformed date",
			mutate:  func(d ExamDraft) ExamDraft { d.Date = "01/06/2025"; return d },
			wantErr: errInvalidDate,
		},
		{
			name:    "impossible date",
			mutate:  func(d ExamDraft) ExamDraft { d.Date = "2025-13-40"; return d },
			wantErr: errInvalidDate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.mutate(valid).Commit()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Commit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExamDraftCommitKeepsFields(t *testing.T) {
	t.Parallel()

	draft := ExamDraft{
		ID:             "abc",
		ExamName:       "Colesterol Total",
		Value:          "180",
		Unit:           "mg/dL",
		ReferenceRange: "< 200",
		Laboratory:     "Lab Central",
		DoctorName:     "Dra. Silva",
		Date:           "2025-06-01",
		Notes:          "jejum de 12h",
	}

	record, err := draft.Commit()
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if record.ID != "abc" {
		t.Fatalf("ID = %q, want %q", record.ID, "abc")
	}
	if record.ExamName != "Colesterol Total" {
		t.Fatalf("ExamName = %q, want %q", record.ExamName, "Colesterol Total")
	}
	if record.ReferenceRange != "< 200" {
		t.Fatalf("ReferenceRange = %q, want %q", record.ReferenceRange, "< 200")
	}
	if record.Notes != "jejum de 12h" {
		t.Fatalf("Notes = %q, want %q", record.Notes, "jejum de 12h")
	}
}
