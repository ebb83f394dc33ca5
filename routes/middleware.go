/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/lifetrace/lifetrace/db"
)

// CSRFInjector automatically injects CSRF token into template data for all routes
func CSRFInjector() flamego.Handler {
	return func(x csrf.CSRF, data template.Data) {
		data["csrf_token"] = x.Token()
	}
}

// NoCacheHeaders disables caching for all page responses and blocks
// indexing. Health records never belong in an intermediary cache.
func NoCacheHeaders() flamego.Handler {
	return func(c flamego.Context) {
		header := c.ResponseWriter().Header()
		header.Set("X-Robots-Tag", "noindex, nofollow, noarchive, nosnippet")

		if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
			header.Set("Cache-Control", "no-store, max-age=0")
			header.Set("Pragma", "no-cache")
			header.Set("Expires", "0")
		}

		c.Next()
	}
}

// FlashInjector moves a pending flash message into template data. The
// session middleware injects the consumed flash as a session.Flash value.
func FlashInjector() flamego.Handler {
	return func(f session.Flash, data template.Data) {
		if flash, ok := f.(FlashMessage); ok {
			data["Flash"] = flash
		}
	}
}

// UserInjector exposes the sanitized account record to every template
func UserInjector(state *db.State) flamego.Handler {
	return func(data template.Data) {
		if user := state.User(); user != nil {
			data["CurrentUser"] = *user
		}
	}
}
