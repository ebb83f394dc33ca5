/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// LoginForm renders the login page. When no account exists yet the user
// is sent to registration instead.
func LoginForm(c flamego.Context, s session.Session, t template.Template, data template.Data, state *db.State) {
	if state.User() == nil {
		c.Redirect("/register")
		return
	}

	if authenticated, ok := s.Get("authenticated").(bool); ok && authenticated {
		c.Redirect("/")
		return
	}

	data["HeaderOnly"] = true
	t.HTML(http.StatusOK, "login")
}

// Login checks the submitted credentials against the stored account.
// Credentials are compared in plaintext: this is a local, single-user
// application with no account security model.
func Login(c flamego.Context, s session.Session, state *db.State) {
	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing login form: %v", err)
		c.Redirect("/login", http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	username := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")

	if !state.Authenticate(username, password) {
		SetErrorFlash(s, "Usuário ou senha inválidos")
		c.Redirect("/login", http.StatusSeeOther)
		return
	}

	s.Set("authenticated", true)
	c.Redirect("/")
}

// RegisterForm renders the account creation page
func RegisterForm(c flamego.Context, t template.Template, data template.Data, state *db.State) {
	if state.User() != nil {
		c.Redirect("/login")
		return
	}

	data["HeaderOnly"] = true
	t.HTML(http.StatusOK, "register")
}

// Register creates the single local account
func Register(c flamego.Context, s session.Session, state *db.State) {
	if state.User() != nil {
		c.Redirect("/login")
		return
	}

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing register form: %v", err)
		c.Redirect("/register", http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	username := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")
	name := strings.TrimSpace(form.Get("name"))

	if username == "" || password == "" || name == "" {
		SetErrorFlash(s, "Nome, usuário e senha são obrigatórios")
		c.Redirect("/register", http.StatusSeeOther)
		return
	}

	state.SetUser(c.Request().Context(), db.User{
		Name:      name,
		Username:  username,
		Password:  password,
		Email:     strings.TrimSpace(form.Get("email")),
		BirthDate: strings.TrimSpace(form.Get("birth_date")),
	})

	s.Set("authenticated", true)
	SetSuccessFlash(s, "Conta criada")
	c.Redirect("/")
}

// ForgotForm renders the password recovery page
func ForgotForm(t template.Template, data template.Data) {
	data["HeaderOnly"] = true
	t.HTML(http.StatusOK, "forgot")
}

// Forgot resets the password after the username matches the stored
// account. There is no email loop; everything is local.
func Forgot(c flamego.Context, s session.Session, state *db.State) {
	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing forgot form: %v", err)
		c.Redirect("/forgot", http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	username := strings.TrimSpace(form.Get("username"))
	newPassword := form.Get("new_password")

	user := state.User()
	if user == nil || user.Username != username || newPassword == "" {
		SetErrorFlash(s, "Usuário não encontrado")
		c.Redirect("/forgot", http.StatusSeeOther)
		return
	}

	updated := *user
	updated.Password = newPassword
	state.SetUser(c.Request().Context(), updated)

	SetSuccessFlash(s, "Senha atualizada")
	c.Redirect("/login", http.StatusSeeOther)
}

// Logout handles logout request
func Logout(s session.Session, c flamego.Context) {
	s.Delete("authenticated")
	c.Redirect("/login")
}

// RequireAuth is a middleware that checks if user is authenticated
func RequireAuth(s session.Session, c flamego.Context) {
	authenticated, ok := s.Get("authenticated").(bool)
	if !ok || !authenticated {
		c.Redirect("/login")
		return
	}
	c.Next()
}
