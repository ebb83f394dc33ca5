/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// DoctorsList renders the unified doctor directory. Duplicate records
// referring to the same doctor are merged by name, so the list may be
// shorter than the raw collection.
func DoctorsList(t template.Template, data template.Data, state *db.State) {
	data["IsDoctors"] = true
	data["Doctors"] = state.UnifiedDoctors()

	t.HTML(http.StatusOK, "doctors")
}

// CreateDoctor registers a doctor from the directory form
func CreateDoctor(c flamego.Context, s session.Session, state *db.State) {
	doctor := db.Doctor{
		Name:      strings.TrimSpace(c.Request().FormValue("name")),
		Specialty: strings.TrimSpace(c.Request().FormValue("specialty")),
		CRM:       strings.TrimSpace(c.Request().FormValue("crm")),
		Phone:     strings.TrimSpace(c.Request().FormValue("phone")),
		Address:   strings.TrimSpace(c.Request().FormValue("address")),
	}

	if db.IsUnknownName(doctor.Name) {
		SetErrorFlash(s, "Nome do médico é obrigatório")
		c.Redirect("/doctors", http.StatusSeeOther)
		return
	}

	state.AddDoctor(c.Request().Context(), doctor)
	SetSuccessFlash(s, "Médico registrado")
	c.Redirect("/doctors", http.StatusSeeOther)
}

// DeleteDoctor removes a doctor record. Exams keep referring to the
// doctor by name, so deleting the directory entry does not touch them.
func DeleteDoctor(c flamego.Context, s session.Session, state *db.State) {
	if state.DeleteDoctor(c.Request().Context(), c.Param("id")) {
		SetSuccessFlash(s, "Médico removido")
	} else {
		SetErrorFlash(s, "Médico não encontrado")
	}

	c.Redirect("/doctors", http.StatusSeeOther)
}
