/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"
)

// Names of the persisted collections. Each collection is stored whole
// under a single slot; there are no per-record rows.
const (
	CollectionUser         = "user"
	CollectionExams        = "exams"
	CollectionImagingExams = "imagingExams"
	CollectionDoctors      = "doctors"
	CollectionLaboratories = "laboratories"
	CollectionAppointments = "appointments"
)

// KnownCollections lists every collection loaded at startup.
var KnownCollections = []string{
	CollectionUser,
	CollectionExams,
	CollectionImagingExams,
	CollectionDoctors,
	CollectionLaboratories,
	CollectionAppointments,
}

// AppointmentType distinguishes consultations from scheduled exams
type AppointmentType string

const (
	AppointmentConsulta AppointmentType = "CONSULTA"
	AppointmentExame    AppointmentType = "EXAME"
)

// IsValid reports whether the appointment type is one of the known kinds
func (t AppointmentType) IsValid() bool {
	return t == AppointmentConsulta || t == AppointmentExame
}

// ExamRecord is a single lab result. The health status is never stored;
// it is recomputed from Value and ReferenceRange on every read.
type ExamRecord struct {
	ID             string `json:"id"`
	ExamName       string `json:"examName"`
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"referenceRange"`
	Laboratory     string `json:"laboratory"`
	DoctorName     string `json:"doctorName"`
	Date           string `json:"date"` // ISO date (2006-01-02)
	Notes          string `json:"notes,omitempty"`
}

// Status classifies the record's value against its reference range
func (e ExamRecord) Status() HealthStatus {
	return Classify(e.Value, e.ReferenceRange)
}

// DisplayDate formats the ISO date as dd/mm/yyyy, falling back to the
// raw string when it doesn't parse.
func (e ExamRecord) DisplayDate() string {
	return displayDate(e.Date)
}

// ImagingExam is an imaging report (X-ray, ultrasound, MRI, ...).
// FileURI may hold an embedded data URI, which can be large.
type ImagingExam struct {
	ID            string `json:"id"`
	PatientName   string `json:"patientName"`
	ExamType      string `json:"examType"`
	Region        string `json:"region"`
	DoctorName    string `json:"doctorName"`
	Laboratory    string `json:"laboratory"`
	Date          string `json:"date"`
	ReportSummary string `json:"reportSummary"`
	Conclusion    string `json:"conclusion"`
	Notes         string `json:"notes,omitempty"`
	FileURI       string `json:"fileUri,omitempty"`
	FileMimeType  string `json:"fileMimeType,omitempty"`
}

// DisplayDate formats the ISO date as dd/mm/yyyy
func (e ImagingExam) DisplayDate() string {
	return displayDate(e.Date)
}

// Doctor's logical identity is the uppercased, trimmed name, not the ID.
// The raw collection may hold several records for the same doctor; the
// unified view reconciles them at read time.
type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	CRM       string `json:"crm"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// Laboratory follows the same name-based identity rule as Doctor
type Laboratory struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Appointment is a scheduled consultation or exam. Notified records that
// the alarm already fired for it; the monitor keeps its own per-day set
// and does not rely on this flag to decide whether to fire.
type Appointment struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Type     AppointmentType `json:"type"`
	Date     string          `json:"date"` // ISO date (2006-01-02)
	Time     string          `json:"time"` // HH:MM, local
	Location string          `json:"location"`
	Address  string          `json:"address"`
	Notes    string          `json:"notes,omitempty"`
	Notified bool            `json:"notified"`
}

// DueAt parses the appointment's date and time in the given location
func (a Appointment) DueAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}

// IsUpcoming reports whether the appointment is due after now
func (a Appointment) IsUpcoming(now time.Time) bool {
	due, err := a.DueAt(now.Location())
	if err != nil {
		return false
	}
	return due.After(now)
}

// DisplayDate formats the ISO date as dd/mm/yyyy
func (a Appointment) DisplayDate() string {
	return displayDate(a.Date)
}

// User is the single local account. Password is kept only in the raw
// stored record; use Sanitized before handing the user to anything that
// renders or serializes it outward.
type User struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	BirthDate             string `json:"birthDate"`
	Email                 string `json:"email"`
	PreExistingConditions string `json:"preExistingConditions"`
	ContinuousMedications string `json:"continuousMedications"`
	Username              string `json:"username"`
	Password              string `json:"password,omitempty"`
	BloodType             string `json:"bloodType"`
	PhotoURL              string `json:"photoUrl,omitempty"`
}

// Sanitized returns a copy of the user with the password stripped
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
