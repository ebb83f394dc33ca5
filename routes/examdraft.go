/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/url"
	"strings"
	"time"

	"github.com/lifetrace/lifetrace/db"
)

// ExamDraft accumulates a new lab result while the user (or the
// extraction service) fills it in. Nothing is validated until Commit;
// only committed records are admitted to the collection, so no partial
// record ever reaches storage.
type ExamDraft struct {
	ID             string
	ExamName       string
	Value          string
	Unit           string
	ReferenceRange string
	Laboratory     string
	DoctorName     string
	Date           string
	Notes          string
}

// draftFromForm builds a draft from submitted form values
func draftFromForm(form url.Values) ExamDraft {
	return ExamDraft{
		ID:             strings.TrimSpace(form.Get("id")),
		ExamName:       strings.TrimSpace(form.Get("exam_name")),
		Value:          strings.TrimSpace(form.Get("value")),
		Unit:           strings.TrimSpace(form.Get("unit")),
		ReferenceRange: strings.TrimSpace(form.Get("reference_range")),
		Laboratory:     strings.TrimSpace(form.Get("laboratory")),
		DoctorName:     strings.TrimSpace(form.Get("doctor_name")),
		Date:           strings.TrimSpace(form.Get("date")),
		Notes:          strings.TrimSpace(form.Get("notes")),
	}
}

// Commit validates the required fields and produces the record to store.
// The ID stays empty for new records; the state assigns one on insert.
func (d ExamDraft) Commit() (db.ExamRecord, error) {
	if d.ExamName == "" {
		return db.ExamRecord{}, errExamNameRequired
	}
	if d.Value == "" {
		return db.ExamRecord{}, errExamValueRequired
	}
	if d.Date == "" {
		return db.ExamRecord{}, errExamDateRequired
	}
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return db.ExamRecord{}, errInvalidDate
	}

	return db.ExamRecord{
		ID:             d.ID,
		ExamName:       d.ExamName,
		Value:          d.Value,
		Unit:           d.Unit,
		ReferenceRange: d.ReferenceRange,
		Laboratory:     d.Laboratory,
		DoctorName:     d.DoctorName,
		Date:           d.Date,
		Notes:          d.Notes,
	}, nil
}
