/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/skip2/go-qrcode"

	"github.com/lifetrace/lifetrace/db"
)

// Default appointment length used for the calendar export
const appointmentDuration = time.Hour

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// agendaEntry pairs an appointment with the links the schedule renders
type agendaEntry struct {
	db.Appointment
	MapLink      string
	CalendarLink string
}

// AgendaList renders the appointment schedule, soonest first
func AgendaList(t template.Template, data template.Data, state *db.State) {
	appointments := state.Appointments()

	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date < appointments[j].Date
		}
		return appointments[i].Time < appointments[j].Time
	})

	entries := make([]agendaEntry, 0, len(appointments))
	for _, appt := range appointments {
		entries = append(entries, agendaEntry{
			Appointment:  appt,
			MapLink:      mapLink(appt),
			CalendarLink: calendarLink(appt),
		})
	}

	data["IsAgenda"] = true
	data["Appointments"] = entries
	data["UpcomingCount"] = len(upcomingAppointments(appointments, time.Now()))

	t.HTML(http.StatusOK, "agenda")
}

// NewAppointmentForm renders the appointment entry form
func NewAppointmentForm(t template.Template, data template.Data) {
	data["IsAgenda"] = true

	t.HTML(http.StatusOK, "agenda_form")
}

// CreateAppointment schedules a new appointment
func CreateAppointment(c flamego.Context, s session.Session, state *db.State) {
	appt, err := appointmentFromForm(c)
	if err != nil {
		SetErrorFlash(s, "Preencha título, data e horário válidos")
		c.Redirect("/agenda/new", http.StatusSeeOther)
		return
	}

	state.AddAppointment(c.Request().Context(), appt)
	SetSuccessFlash(s, "Compromisso agendado")
	c.Redirect("/agenda", http.StatusSeeOther)
}

// EditAppointmentForm renders the edit form for one appointment
func EditAppointmentForm(c flamego.Context, s session.Session, t template.Template, data template.Data, state *db.State) {
	id := c.Param("id")

	for _, appt := range state.Appointments() {
		if appt.ID == id {
			data["IsAgenda"] = true
			data["Appointment"] = appt
			t.HTML(http.StatusOK, "agenda_form")
			return
		}
	}

	SetErrorFlash(s, "Compromisso não encontrado")
	c.Redirect("/agenda", http.StatusSeeOther)
}

// UpdateAppointment applies edits to an existing appointment
func UpdateAppointment(c flamego.Context, s session.Session, state *db.State) {
	appt, err := appointmentFromForm(c)
	if err != nil {
		SetErrorFlash(s, "Preencha título, data e horário válidos")
		c.Redirect("/agenda", http.StatusSeeOther)
		return
	}
	appt.ID = c.Param("id")

	if !state.UpdateAppointment(c.Request().Context(), appt) {
		SetErrorFlash(s, "Compromisso não encontrado")
		c.Redirect("/agenda", http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Compromisso atualizado")
	c.Redirect("/agenda", http.StatusSeeOther)
}

// DeleteAppointment removes an appointment from the schedule
func DeleteAppointment(c flamego.Context, s session.Session, state *db.State) {
	if state.DeleteAppointment(c.Request().Context(), c.Param("id")) {
		SetSuccessFlash(s, "Compromisso removido")
	} else {
		SetErrorFlash(s, "Compromisso não encontrado")
	}

	c.Redirect("/agenda", http.StatusSeeOther)
}

func appointmentFromForm(c flamego.Context) (db.Appointment, error) {
	form := c.Request()

	appt := db.Appointment{
		Title:    strings.TrimSpace(form.FormValue("title")),
		Type:     db.AppointmentType(strings.TrimSpace(form.FormValue("type"))),
		Date:     strings.TrimSpace(form.FormValue("date")),
		Time:     strings.TrimSpace(form.FormValue("time")),
		Location: strings.TrimSpace(form.FormValue("location")),
		Address:  strings.TrimSpace(form.FormValue("address")),
		Notes:    strings.TrimSpace(form.FormValue("notes")),
	}

	if appt.Title == "" {
		return db.Appointment{}, errTitleRequired
	}
	if !appt.Type.IsValid() {
		appt.Type = db.AppointmentConsulta
	}
	if _, err := time.Parse("2006-01-02", appt.Date); err != nil {
		return db.Appointment{}, errInvalidDate
	}
	if !timePattern.MatchString(appt.Time) {
		return db.Appointment{}, errInvalidTime
	}

	return appt, nil
}

// AppointmentQR serves a QR code PNG that adds the appointment to a
// phone's calendar via a Google Calendar link.
func AppointmentQR(c flamego.Context, state *db.State) {
	id := c.Param("id")

	for _, appt := range state.Appointments() {
		if appt.ID != id {
			continue
		}

		png, err := qrcode.Encode(calendarLink(appt), qrcode.Medium, 256)
		if err != nil {
			log.Printf("Failed to generate appointment QR code: %v", err)
			c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			return
		}

		c.ResponseWriter().Header().Set("Content-Type", "image/png")
		_, _ = c.ResponseWriter().Write(png)
		return
	}

	c.ResponseWriter().WriteHeader(http.StatusNotFound)
}

// calendarLink builds a Google Calendar event-creation URL for the
// appointment. Times are rendered in local time, without a zone, so the
// phone interprets them in its own zone.
func calendarLink(appt db.Appointment) string {
	start, err := appt.DueAt(time.Local)
	if err != nil {
		start = time.Now()
	}
	end := start.Add(appointmentDuration)

	const stamp = "20060102T150405"

	values := url.Values{}
	values.Set("action", "TEMPLATE")
	values.Set("text", appt.Title)
	values.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	if location := appointmentPlace(appt); location != "" {
		values.Set("location", location)
	}
	if appt.Notes != "" {
		values.Set("details", appt.Notes)
	}

	return "https://calendar.google.com/calendar/render?" + values.Encode()
}

// mapLink builds an OpenStreetMap search URL for the appointment's place
func mapLink(appt db.Appointment) string {
	place := appointmentPlace(appt)
	if place == "" {
		return ""
	}

	values := url.Values{}
	values.Set("query", place)

	return "https://www.openstreetmap.org/search?" + values.Encode()
}

func appointmentPlace(appt db.Appointment) string {
	switch {
	case appt.Location != "" && appt.Address != "":
		return appt.Location + ", " + appt.Address
	case appt.Location != "":
		return appt.Location
	default:
		return appt.Address
	}
}
