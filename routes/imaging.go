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
	"sort"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// Attached report files are embedded as data URIs; cap their size
const maxImagingFileBytes = 5 << 20

// ImagingList renders the imaging reports, newest first
func ImagingList(c flamego.Context, t template.Template, data template.Data, state *db.State) {
	exams := state.ImagingExams()

	sort.SliceStable(exams, func(i, j int) bool {
		return exams[i].Date > exams[j].Date
	})

	typeFilter := strings.TrimSpace(c.Query("q"))
	if typeFilter != "" {
		filtered := make([]db.ImagingExam, 0, len(exams))
		needle := strings.ToLower(typeFilter)
		for _, exam := range exams {
			if strings.Contains(strings.ToLower(exam.ExamType), needle) ||
				strings.Contains(strings.ToLower(exam.Region), needle) {
				filtered = append(filtered, exam)
			}
		}
		exams = filtered
	}

	data["IsImaging"] = true
	data["ImagingExams"] = exams
	data["TypeFilter"] = typeFilter

	t.HTML(http.StatusOK, "imaging")
}

// NewImagingForm renders the imaging entry form
func NewImagingForm(t template.Template, data template.Data, state *db.State) {
	data["IsImaging"] = true
	data["Doctors"] = state.UnifiedDoctors()
	data["Laboratories"] = state.UnifiedLaboratories()

	t.HTML(http.StatusOK, "imaging_form")
}

// CreateImaging stores a new imaging report, optionally embedding an
// attached file as a data URI.
func CreateImaging(c flamego.Context, s session.Session, state *db.State) {
	if err := c.Request().ParseMultipartForm(maxImagingFileBytes); err != nil {
		log.Printf("Error parsing imaging form: %v", err)
		c.Redirect("/imaging/new", http.StatusSeeOther)
		return
	}

	form := c.Request().Form

	exam := db.ImagingExam{
		PatientName:   strings.TrimSpace(form.Get("patient_name")),
		ExamType:      strings.TrimSpace(form.Get("exam_type")),
		Region:        strings.TrimSpace(form.Get("region")),
		DoctorName:    strings.TrimSpace(form.Get("doctor_name")),
		Laboratory:    strings.TrimSpace(form.Get("laboratory")),
		Date:          strings.TrimSpace(form.Get("date")),
		ReportSummary: strings.TrimSpace(form.Get("report_summary")),
		Conclusion:    strings.TrimSpace(form.Get("conclusion")),
		Notes:         strings.TrimSpace(form.Get("notes")),
	}

	if exam.ExamType == "" || exam.Date == "" {
		SetErrorFlash(s, "Tipo do exame e data são obrigatórios")
		c.Redirect("/imaging/new", http.StatusSeeOther)
		return
	}

	if fileURI, mimeType := readImagingFile(c); fileURI != "" {
		exam.FileURI = fileURI
		exam.FileMimeType = mimeType
	} else if link := strings.TrimSpace(form.Get("file_url")); link != "" {
		exam.FileURI = link
	}

	state.AddImagingExam(c.Request().Context(), exam)
	SetSuccessFlash(s, "Exame de imagem registrado")
	c.Redirect("/imaging", http.StatusSeeOther)
}

// readImagingFile embeds an uploaded attachment as a data URI
func readImagingFile(c flamego.Context) (string, string) {
	file, header, err := c.Request().FormFile("file")
	if err != nil {
		return "", ""
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImagingFileBytes))
	if err != nil {
		log.Printf("Error reading imaging attachment: %v", err)
		return "", ""
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content), mimeType
}

// ViewImaging renders a single imaging report
func ViewImaging(c flamego.Context, s session.Session, t template.Template, data template.Data, state *db.State) {
	id := c.Param("id")

	for _, exam := range state.ImagingExams() {
		if exam.ID == id {
			data["IsImaging"] = true
			data["Exam"] = exam
			t.HTML(http.StatusOK, "imaging_view")
			return
		}
	}

	SetErrorFlash(s, "Exame não encontrado")
	c.Redirect("/imaging", http.StatusSeeOther)
}

// DeleteImaging removes an imaging report permanently
func DeleteImaging(c flamego.Context, s session.Session, state *db.State) {
	if state.DeleteImagingExam(c.Request().Context(), c.Param("id")) {
		SetSuccessFlash(s, "Exame removido")
	} else {
		SetErrorFlash(s, "Exame não encontrado")
	}

	c.Redirect("/imaging", http.StatusSeeOther)
}
