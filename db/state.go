/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// State holds every collection in memory and mirrors all of them back to
// the store after each mutation. The whole collection is the unit of read
// and write; there is no partial loading.
//
// Saves never fire before Load completes. Save failures are logged, not
// surfaced: the backing store has no meaningful capacity ceiling, so a
// failed write is exceptional rather than a quota condition the user can
// act on.
type State struct {
	store CollectionStore

	mu     sync.RWMutex
	loaded bool

	user         *User
	exams        []ExamRecord
	imagingExams []ImagingExam
	doctors      []Doctor
	laboratories []Laboratory
	appointments []Appointment
}

// NewState returns an empty, not-yet-loaded State over the given store
func NewState(store CollectionStore) *State {
	return &State{store: store}
}

// Load fetches all six collections concurrently and blocks until every
// one resolves. Nothing should serve requests before it returns. A
// collection that was never written, or whose stored document no longer
// decodes, comes up empty rather than failing the whole load.
func (s *State) Load(ctx context.Context) error {
	var (
		user         *User
		exams        []ExamRecord
		imagingExams []ImagingExam
		doctors      []Doctor
		laboratories []Laboratory
		appointments []Appointment
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := s.store.Load(gctx, CollectionUser)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		user = decodeUser(data)
		return nil
	})
	g.Go(func() error {
		data, err := s.store.Load(gctx, CollectionExams)
		if err != nil {
			return fmt.Errorf("failed to load exams: %w", err)
		}
		exams = decodeCollection[ExamRecord](CollectionExams, data)
		return nil
	})
	g.Go(func() error {
		data, err := s.store.Load(gctx, CollectionImagingExams)
		if err != nil {
			return fmt.Errorf("failed to load imaging exams: %w", err)
		}
		imagingExams = decodeCollection[ImagingExam](CollectionImagingExams, data)
		return nil
	})
	g.Go(func() error {
		data, err := s.store.Load(gctx, CollectionDoctors)
		if err != nil {
			return fmt.Errorf("failed to load doctors: %w", err)
		}
		doctors = decodeCollection[Doctor](CollectionDoctors, data)
		return nil
	})
	g.Go(func() error {
		data, err := s.store.Load(gctx, CollectionLaboratories)
		if err != nil {
			return fmt.Errorf("failed to load laboratories: %w", err)
		}
		laboratories = decodeCollection[Laboratory](CollectionLaboratories, data)
		return nil
	})
	g.Go(func() error {
		data, err := s.store.Load(gctx, CollectionAppointments)
		if err != nil {
			return fmt.Errorf("failed to load appointments: %w", err)
		}
		appointments = decodeCollection[Appointment](CollectionAppointments, data)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.exams = exams
	s.imagingExams = imagingExams
	s.doctors = doctors
	s.laboratories = laboratories
	s.appointments = appointments
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Loaded reports whether the initial load has completed
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// decodeCollection unmarshals a stored collection document. A document
// that no longer decodes is treated as "no data", never as a fatal error.
func decodeCollection[T any](name string, data []byte) []T {
	if len(data) == 0 {
		return nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Discarding unreadable collection", "collection", name, "error", err)
		return nil
	}

	return records
}

func decodeUser(data []byte) *User {
	if len(data) == 0 {
		return nil
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		logger.Warn("Discarding unreadable collection", "collection", CollectionUser, "error", err)
		return nil
	}

	return &user
}

// saveAll mirrors every collection back to the store. Every mutation
// triggers a full save, not just the changed collection; rapid successive
// mutations simply overwrite each other (last write wins per slot).
func (s *State) saveAll(ctx context.Context) {
	s.mu.RLock()

	if !s.loaded {
		s.mu.RUnlock()
		logger.Error("Dropping save", "error", ErrStateNotLoaded)
		return
	}

	payloads := make(map[string][]byte, len(KnownCollections))
	encode := func(name string, value any) {
		data, err := json.Marshal(value)
		if err != nil {
			logger.Error("Failed to encode collection", "collection", name, "error", err)
			return
		}
		payloads[name] = data
	}

	if s.user != nil {
		encode(CollectionUser, s.user)
	}
	encode(CollectionExams, emptyAsList(s.exams))
	encode(CollectionImagingExams, emptyAsList(s.imagingExams))
	encode(CollectionDoctors, emptyAsList(s.doctors))
	encode(CollectionLaboratories, emptyAsList(s.laboratories))
	encode(CollectionAppointments, emptyAsList(s.appointments))

	s.mu.RUnlock()

	for _, name := range KnownCollections {
		data, ok := payloads[name]
		if !ok {
			continue
		}

		if err := s.store.Save(ctx, name, data); err != nil {
			logger.Error("Failed to save collection", "collection", name, "error", err)
		}
	}
}

// emptyAsList keeps nil slices round-tripping as [] rather than null
func emptyAsList[T any](records []T) []T {
	if records == nil {
		return []T{}
	}

	return records
}

// ========== Snapshot accessors ==========

// User returns the stored account with the password stripped, or nil
// when no account has been registered yet.
func (s *State) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}

	u := s.user.Sanitized()

	return &u
}

// Authenticate compares the given credentials against the stored account.
// Plaintext comparison: this is a single-user local application.
func (s *State) Authenticate(username, password string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return false
	}

	return s.user.Username == username && s.user.Password == password
}

// Exams returns a copy of the exam collection
func (s *State) Exams() []ExamRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]ExamRecord(nil), s.exams...)
}

// ImagingExams returns a copy of the imaging exam collection
func (s *State) ImagingExams() []ImagingExam {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]ImagingExam(nil), s.imagingExams...)
}

// Doctors returns a copy of the raw doctor collection, duplicates included
func (s *State) Doctors() []Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Doctor(nil), s.doctors...)
}

// UnifiedDoctors returns the reconciled read-time view of the doctors
func (s *State) UnifiedDoctors() []Doctor {
	return UnifyDoctors(s.Doctors())
}

// Laboratories returns a copy of the raw laboratory collection
func (s *State) Laboratories() []Laboratory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Laboratory(nil), s.laboratories...)
}

// UnifiedLaboratories returns the reconciled read-time view of the laboratories
func (s *State) UnifiedLaboratories() []Laboratory {
	return UnifyLaboratories(s.Laboratories())
}

// Appointments returns a copy of the appointment collection
func (s *State) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Appointment(nil), s.appointments...)
}

// ========== Mutators ==========

// SetUser stores the account record (registration or profile edit)
func (s *State) SetUser(ctx context.Context, user User) {
	s.mu.Lock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	// Profile edits come in without the password; keep the stored one
	if user.Password == "" && s.user != nil {
		user.Password = s.user.Password
	}
	s.user = &user
	s.mu.Unlock()

	s.saveAll(ctx)
}

// AddExam appends a lab result and auto-registers its doctor and
// laboratory when they are unseen.
func (s *State) AddExam(ctx context.Context, exam ExamRecord) ExamRecord {
	s.mu.Lock()
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	s.exams = append(s.exams, exam)
	s.registerDoctorLocked(exam.DoctorName, DefaultLabDoctorSpecialty)
	s.registerLaboratoryLocked(exam.Laboratory)
	s.mu.Unlock()

	s.saveAll(ctx)

	return exam
}

// UpdateExam replaces the exam with the same ID
func (s *State) UpdateExam(ctx context.Context, exam ExamRecord) bool {
	s.mu.Lock()

	found := false
	for i := range s.exams {
		if s.exams[i].ID == exam.ID {
			s.exams[i] = exam
			found = true
			break
		}
	}

	if found {
		s.registerDoctorLocked(exam.DoctorName, DefaultLabDoctorSpecialty)
		s.registerLaboratoryLocked(exam.Laboratory)
	}
	s.mu.Unlock()

	if found {
		s.saveAll(ctx)
	}

	return found
}

// DeleteExam removes an exam by ID
func (s *State) DeleteExam(ctx context.Context, id string) bool {
	s.mu.Lock()
	before := len(s.exams)
	s.exams = deleteByID(s.exams, id, func(e ExamRecord) string { return e.ID })
	removed := len(s.exams) != before
	s.mu.Unlock()

	if removed {
		s.saveAll(ctx)
	}

	return removed
}

// AddImagingExam appends an imaging report. Doctors discovered through
// the imaging flow default to the specialist specialty.
func (s *State) AddImagingExam(ctx context.Context, exam ImagingExam) ImagingExam {
	s.mu.Lock()
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	s.imagingExams = append(s.imagingExams, exam)
	s.registerDoctorLocked(exam.DoctorName, DefaultImagingDoctorSpecialty)
	s.registerLaboratoryLocked(exam.Laboratory)
	s.mu.Unlock()

	s.saveAll(ctx)

	return exam
}

// UpdateImagingExam replaces the imaging exam with the same ID
func (s *State) UpdateImagingExam(ctx context.Context, exam ImagingExam) bool {
	s.mu.Lock()

	found := false
	for i := range s.imagingExams {
		if s.imagingExams[i].ID == exam.ID {
			s.imagingExams[i] = exam
			found = true
			break
		}
	}

	if found {
		s.registerDoctorLocked(exam.DoctorName, DefaultImagingDoctorSpecialty)
		s.registerLaboratoryLocked(exam.Laboratory)
	}
	s.mu.Unlock()

	if found {
		s.saveAll(ctx)
	}

	return found
}

// DeleteImagingExam removes an imaging exam by ID
func (s *State) DeleteImagingExam(ctx context.Context, id string) bool {
	s.mu.Lock()
	before := len(s.imagingExams)
	s.imagingExams = deleteByID(s.imagingExams, id, func(e ImagingExam) string { return e.ID })
	removed := len(s.imagingExams) != before
	s.mu.Unlock()

	if removed {
		s.saveAll(ctx)
	}

	return removed
}

// AddDoctor appends a manually-entered doctor record
func (s *State) AddDoctor(ctx context.Context, doctor Doctor) Doctor {
	s.mu.Lock()
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	s.doctors = append(s.doctors, doctor)
	s.mu.Unlock()

	s.saveAll(ctx)

	return doctor
}

// DeleteDoctor removes a doctor record by ID. Only explicit deletion
// removes records; unification never does.
func (s *State) DeleteDoctor(ctx context.Context, id string) bool {
	s.mu.Lock()
	before := len(s.doctors)
	s.doctors = deleteByID(s.doctors, id, func(d Doctor) string { return d.ID })
	removed := len(s.doctors) != before
	s.mu.Unlock()

	if removed {
		s.saveAll(ctx)
	}

	return removed
}

// AddLaboratory appends a manually-entered laboratory record
func (s *State) AddLaboratory(ctx context.Context, lab Laboratory) Laboratory {
	s.mu.Lock()
	if lab.ID == "" {
		lab.ID = uuid.NewString()
	}
	s.laboratories = append(s.laboratories, lab)
	s.mu.Unlock()

	s.saveAll(ctx)

	return lab
}

// DeleteLaboratory removes a laboratory record by ID
func (s *State) DeleteLaboratory(ctx context.Context, id string) bool {
	s.mu.Lock()
	before := len(s.laboratories)
	s.laboratories = deleteByID(s.laboratories, id, func(l Laboratory) string { return l.ID })
	removed := len(s.laboratories) != before
	s.mu.Unlock()

	if removed {
		s.saveAll(ctx)
	}

	return removed
}

// AddAppointment appends a scheduled appointment
func (s *State) AddAppointment(ctx context.Context, appt Appointment) Appointment {
	s.mu.Lock()
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	s.appointments = append(s.appointments, appt)
	s.mu.Unlock()

	s.saveAll(ctx)

	return appt
}

// UpdateAppointment replaces the appointment with the same ID
func (s *State) UpdateAppointment(ctx context.Context, appt Appointment) bool {
	s.mu.Lock()

	found := false
	for i := range s.appointments {
		if s.appointments[i].ID == appt.ID {
			s.appointments[i] = appt
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.saveAll(ctx)
	}

	return found
}

// DeleteAppointment removes an appointment by ID
func (s *State) DeleteAppointment(ctx context.Context, id string) bool {
	s.mu.Lock()
	before := len(s.appointments)
	s.appointments = deleteByID(s.appointments, id, func(a Appointment) string { return a.ID })
	removed := len(s.appointments) != before
	s.mu.Unlock()

	if removed {
		s.saveAll(ctx)
	}

	return removed
}

// MarkAppointmentNotified flips the recorded notified flag after the
// alarm fires.
func (s *State) MarkAppointmentNotified(ctx context.Context, id string) {
	s.mu.Lock()

	changed := false
	for i := range s.appointments {
		if s.appointments[i].ID == id && !s.appointments[i].Notified {
			s.appointments[i].Notified = true
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.saveAll(ctx)
	}
}

// registerDoctorLocked auto-registers a doctor discovered on an exam
// record. Caller must hold s.mu. Sentinel names ("NÃO INFORMADO", "N/A",
// empty) are never registered.
func (s *State) registerDoctorLocked(name, defaultSpecialty string) {
	if IsUnknownName(name) {
		return
	}

	idx := doctorNameIndex(s.doctors)
	if _, exists := idx[NormalizeName(name)]; exists {
		return
	}

	s.doctors = append(s.doctors, Doctor{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Specialty: defaultSpecialty,
	})
}

// registerLaboratoryLocked is the laboratory counterpart of
// registerDoctorLocked. Caller must hold s.mu.
func (s *State) registerLaboratoryLocked(name string) {
	if IsUnknownName(name) {
		return
	}

	idx := laboratoryNameIndex(s.laboratories)
	if _, exists := idx[NormalizeName(name)]; exists {
		return
	}

	s.laboratories = append(s.laboratories, Laboratory{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(name),
	})
}

func deleteByID[T any](records []T, id string, idOf func(T) string) []T {
	kept := records[:0]
	for _, r := range records {
		if idOf(r) != id {
			kept = append(kept, r)
		}
	}

	return kept
}
