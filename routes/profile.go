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

// Profile renders the account and health-profile form
func Profile(t template.Template, data template.Data, state *db.State) {
	data["IsProfile"] = true
	data["Profile"] = state.User()

	t.HTML(http.StatusOK, "profile")
}

// UpdateProfile applies edits to the single local account. An empty
// password field keeps the current password.
func UpdateProfile(c flamego.Context, s session.Session, state *db.State) {
	current := state.User()
	if current == nil {
		c.Redirect("/register", http.StatusSeeOther)
		return
	}

	form := c.Request()

	updated := db.User{
		ID:                    current.ID,
		Name:                  strings.TrimSpace(form.FormValue("name")),
		BirthDate:             strings.TrimSpace(form.FormValue("birth_date")),
		Email:                 strings.TrimSpace(form.FormValue("email")),
		PreExistingConditions: strings.TrimSpace(form.FormValue("pre_existing_conditions")),
		ContinuousMedications: strings.TrimSpace(form.FormValue("continuous_medications")),
		Username:              strings.TrimSpace(form.FormValue("username")),
		Password:              form.FormValue("password"),
		BloodType:             strings.TrimSpace(form.FormValue("blood_type")),
		PhotoURL:              strings.TrimSpace(form.FormValue("photo_url")),
	}

	if updated.Name == "" || updated.Username == "" {
		SetErrorFlash(s, "Nome e usuário são obrigatórios")
		c.Redirect("/profile", http.StatusSeeOther)
		return
	}

	state.SetUser(c.Request().Context(), updated)
	SetSuccessFlash(s, "Perfil atualizado")
	c.Redirect("/profile", http.StatusSeeOther)
}
