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

// LaboratoriesList renders the unified laboratory directory
func LaboratoriesList(t template.Template, data template.Data, state *db.State) {
	data["IsLaboratories"] = true
	data["Laboratories"] = state.UnifiedLaboratories()

	t.HTML(http.StatusOK, "laboratories")
}

// CreateLaboratory registers a laboratory from the directory form
func CreateLaboratory(c flamego.Context, s session.Session, state *db.State) {
	lab := db.Laboratory{
		Name:    strings.TrimSpace(c.Request().FormValue("name")),
		Address: strings.TrimSpace(c.Request().FormValue("address")),
		Phone:   strings.TrimSpace(c.Request().FormValue("phone")),
	}

	if db.IsUnknownName(lab.Name) {
		SetErrorFlash(s, "Nome do laboratório é obrigatório")
		c.Redirect("/laboratories", http.StatusSeeOther)
		return
	}

	state.AddLaboratory(c.Request().Context(), lab)
	SetSuccessFlash(s, "Laboratório registrado")
	c.Redirect("/laboratories", http.StatusSeeOther)
}

// DeleteLaboratory removes a laboratory record
func DeleteLaboratory(c flamego.Context, s session.Session, state *db.State) {
	if state.DeleteLaboratory(c.Request().Context(), c.Param("id")) {
		SetSuccessFlash(s, "Laboratório removido")
	} else {
		SetErrorFlash(s, "Laboratório não encontrado")
	}

	c.Redirect("/laboratories", http.StatusSeeOther)
}
