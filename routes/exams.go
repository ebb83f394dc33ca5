/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// Uploaded reports larger than this are rejected before extraction
const maxExtractUploadBytes = 10 << 20

// ExamsList renders the lab results, newest first, with optional name
// and status filters.
func ExamsList(c flamego.Context, t template.Template, data template.Data, state *db.State) {
	exams := sortExamsNewestFirst(state.Exams())

	nameFilter := strings.TrimSpace(c.Query("q"))
	statusFilter := strings.TrimSpace(c.Query("status"))

	exams = filterExams(exams, nameFilter, statusFilter)

	data["IsExams"] = true
	data["Exams"] = exams
	data["NameFilter"] = nameFilter
	data["StatusFilter"] = statusFilter

	t.HTML(http.StatusOK, "exams")
}

// filterExams keeps exams matching a case-insensitive name substring and
// a status, both optional.
func filterExams(exams []db.ExamRecord, nameFilter, statusFilter string) []db.ExamRecord {
	if nameFilter == "" && statusFilter == "" {
		return exams
	}

	nameFilter = strings.ToLower(nameFilter)

	filtered := make([]db.ExamRecord, 0, len(exams))
	for _, exam := range exams {
		if nameFilter != "" && !strings.Contains(strings.ToLower(exam.ExamName), nameFilter) {
			continue
		}
		if statusFilter != "" && string(exam.Status()) != statusFilter {
			continue
		}
		filtered = append(filtered, exam)
	}

	return filtered
}

// NewExamForm renders the manual entry form
func NewExamForm(t template.Template, data template.Data, state *db.State) {
	data["IsExams"] = true
	data["Doctors"] = state.UnifiedDoctors()
	data["Laboratories"] = state.UnifiedLaboratories()

	t.HTML(http.StatusOK, "exam_form")
}

// CreateExam commits a new lab result
func CreateExam(c flamego.Context, s session.Session, state *db.State) {
	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing exam form: %v", err)
		c.Redirect("/exams/new", http.StatusSeeOther)
		return
	}

	draft := draftFromForm(c.Request().Form)
	draft.ID = ""

	exam, err := draft.Commit()
	if err != nil {
		log.Printf("Rejected exam draft: %v", err)
		SetErrorFlash(s, "Preencha nome do exame, resultado e data")
		c.Redirect("/exams/new", http.StatusSeeOther)
		return
	}

	state.AddExam(c.Request().Context(), exam)
	SetSuccessFlash(s, "Exame registrado")
	c.Redirect("/exams", http.StatusSeeOther)
}

// EditExamForm renders the edit form for an existing result
func EditExamForm(c flamego.Context, s session.Session, t template.Template, data template.Data, state *db.State) {
	id := c.Param("id")

	var exam *db.ExamRecord
	for _, e := range state.Exams() {
		if e.ID == id {
			exam = &e
			break
		}
	}

	if exam == nil {
		SetErrorFlash(s, "Exame não encontrado")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}

	data["IsExams"] = true
	data["Exam"] = *exam
	data["Doctors"] = state.UnifiedDoctors()
	data["Laboratories"] = state.UnifiedLaboratories()

	t.HTML(http.StatusOK, "exam_form")
}

// UpdateExam commits changes to an existing result
func UpdateExam(c flamego.Context, s session.Session, state *db.State) {
	id := c.Param("id")

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing exam form: %v", err)
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}

	draft := draftFromForm(c.Request().Form)
	draft.ID = id

	exam, err := draft.Commit()
	if err != nil {
		log.Printf("Rejected exam draft: %v", err)
		SetErrorFlash(s, "Preencha nome do exame, resultado e data")
		c.Redirect("/exams/"+id+"/edit", http.StatusSeeOther)
		return
	}

	if !state.UpdateExam(c.Request().Context(), exam) {
		SetErrorFlash(s, "Exame não encontrado")
	} else {
		SetSuccessFlash(s, "Exame atualizado")
	}

	c.Redirect("/exams", http.StatusSeeOther)
}

// DeleteExam removes a result permanently
func DeleteExam(c flamego.Context, s session.Session, state *db.State) {
	if state.DeleteExam(c.Request().Context(), c.Param("id")) {
		SetSuccessFlash(s, "Exame removido")
	} else {
		SetErrorFlash(s, "Exame não encontrado")
	}

	c.Redirect("/exams", http.StatusSeeOther)
}

// ExtractExams accepts an uploaded report, runs AI extraction, and
// inserts the recognized results. Extraction failure is not fatal: the
// user is pointed back to manual entry.
func ExtractExams(c flamego.Context, s session.Session, state *db.State) {
	if err := c.Request().ParseMultipartForm(maxExtractUploadBytes); err != nil {
		log.Printf("Error parsing upload: %v", err)
		SetErrorFlash(s, "Falha ao receber o arquivo")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}

	file, header, err := c.Request().FormFile("report")
	if err != nil {
		SetErrorFlash(s, "Selecione um arquivo")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxExtractUploadBytes))
	if err != nil {
		log.Printf("Error reading upload: %v", err)
		SetErrorFlash(s, "Falha ao ler o arquivo")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}

	mimeType := header.Header.Get("Content-Type")

	payload := string(content)
	if !strings.HasPrefix(mimeType, "text/") {
		payload = base64.StdEncoding.EncodeToString(content)
	}

	records, err := db.ExtractExamRecords(c.Request().Context(), header.Filename, mimeType, payload)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", header.Filename, err)
		SetWarningFlash(s, "Não foi possível extrair resultados; registre manualmente")
		c.Redirect("/exams", http.StatusSeeOther)
		return
	}

	added := 0
	for _, record := range records {
		draft := ExamDraft{
			ExamName:       record.ExamName,
			Value:          record.Value,
			Unit:           record.Unit,
			ReferenceRange: record.ReferenceRange,
			Laboratory:     record.Laboratory,
			DoctorName:     record.DoctorName,
			Date:           record.Date,
		}

		exam, err := draft.Commit()
		if err != nil {
			// Incomplete extracted rows are dropped, not stored partially
			continue
		}

		state.AddExam(c.Request().Context(), exam)
		added++
	}

	if added == 0 {
		SetWarningFlash(s, "Nenhum resultado reconhecido; registre manualmente")
	} else {
		SetSuccessFlash(s, "Resultados importados")
	}

	c.Redirect("/exams", http.StatusSeeOther)
}

// ExamIcon serves (and lazily generates) the icon for an exam name
func ExamIcon(c flamego.Context, icons *db.IconCache) {
	name := c.Query("name")

	icon, err := icons.GetOrGenerate(c.Request().Context(), name)
	if err != nil {
		log.Printf("Icon lookup failed for %q: %v", name, err)
	}

	if icon == "" {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
		return
	}

	c.ResponseWriter().Header().Set("Content-Type", "text/plain")
	_, _ = c.ResponseWriter().Write([]byte(icon))
}

// ExamInfo returns a short educational description of an exam name
func ExamInfo(c flamego.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.ResponseWriter().WriteHeader(http.StatusBadRequest)
		return
	}

	info, err := db.GetExamInformation(c.Request().Context(), name)
	if err != nil {
		log.Printf("Exam info lookup failed for %q: %v", name, err)
		c.ResponseWriter().WriteHeader(http.StatusBadGateway)
		return
	}

	c.ResponseWriter().Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = c.ResponseWriter().Write([]byte(info))
}
