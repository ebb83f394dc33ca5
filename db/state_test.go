// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

// memoryStore is an in-memory CollectionStore for unit tests
type memoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte
	saves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{slots: map[string][]byte{}}
}

func (m *memoryStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.slots[name], nil
}

func (m *memoryStore) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[name] = append([]byte(nil), data...)
	m.saves++

	return nil
}

func (m *memoryStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}

func loadedState(t *testing.T, store *memoryStore) *State {
	t.Helper()

	state := NewState(store)
	if err := state.Load(context.Background()); err != nil {
		t.Fatalf("failed to load state: %v", err)
	}

	return state
}

func TestStateLoadEmptyStore(t *testing.T) {
	state := loadedState(t, newMemoryStore())

	if !state.Loaded() {
		t.Fatal("expected state to be loaded")
	}
	if state.User() != nil {
		t.Fatal("expected no user on empty store")
	}
	if len(state.Exams()) != 0 {
		t.Fatal("expected no exams on empty store")
	}
}

func TestStateLoadCorruptCollection(t *testing.T) {
	store := newMemoryStore()
	store.slots[CollectionExams] = []byte("{not json")
	store.slots[CollectionDoctors] = []byte(`[{"id":"1","name":"Dr. Ana"}]`)

	state := loadedState(t, store)

	// Corrupt data reads as empty, never as an error
	if len(state.Exams()) != 0 {
		t.Fatal("expected corrupt exams collection to come up empty")
	}
	if len(state.Doctors()) != 1 {
		t.Fatal("expected intact doctors collection to survive")
	}
}

func TestStateNoSaveBeforeLoad(t *testing.T) {
	store := newMemoryStore()
	state := NewState(store)

	// Mutation before Load must not write anything
	state.AddExam(context.Background(), ExamRecord{ExamName: "Glicemia", Value: "95"})

	if store.saveCount() != 0 {
		t.Fatalf("expected no saves before initial load, got %d", store.saveCount())
	}
}

func TestStateSavesAllCollectionsOnMutation(t *testing.T) {
	store := newMemoryStore()
	state := loadedState(t, store)

	state.AddExam(context.Background(), ExamRecord{
		ExamName:       "Glicemia",
		Value:          "95",
		ReferenceRange: "70-99",
	})

	// Every collection slot is written, not just exams
	for _, name := range []string{
		CollectionExams, CollectionImagingExams, CollectionDoctors,
		CollectionLaboratories, CollectionAppointments,
	} {
		if _, ok := store.slots[name]; !ok {
			t.Fatalf("expected collection %q to be saved", name)
		}
	}
}

func TestStateExamRoundTrip(t *testing.T) {
	store := newMemoryStore()
	state := loadedState(t, store)

	added := state.AddExam(context.Background(), ExamRecord{
		ExamName:       "Glicemia",
		Value:          "95",
		Unit:           "mg/dL",
		ReferenceRange: "70-99",
		Laboratory:     "Lab Vida",
		DoctorName:     "Dr. Ana",
		Date:           "2025-06-01",
	})

	if added.ID == "" {
		t.Fatal("expected an ID to be assigned on commit")
	}

	// A fresh state over the same store sees the identical record
	reloaded := loadedState(t, store)

	exams := reloaded.Exams()
	if len(exams) != 1 {
		t.Fatalf("expected 1 exam after reload, got %d", len(exams))
	}
	if exams[0] != added {
		t.Fatalf("round-trip mismatch:\nsaved:  %+v\nloaded: %+v", added, exams[0])
	}
}

func TestStateAutoRegistersDoctorAndLaboratory(t *testing.T) {
	store := newMemoryStore()
	state := loadedState(t, store)

	state.AddExam(context.Background(), ExamRecord{
		ExamName:   "Glicemia",
		Value:      "95",
		DoctorName: "Dr. Ana",
		Laboratory: "Lab Vida",
	})

	doctors := state.Doctors()
	if len(doctors) != 1 {
		t.Fatalf("expected exactly 1 auto-registered doctor, got %d", len(doctors))
	}
	if doctors[0].Specialty != DefaultLabDoctorSpecialty {
		t.Fatalf("expected default specialty %q, got %q", DefaultLabDoctorSpecialty, doctors[0].Specialty)
	}
	if doctors[0].ID == "" {
		t.Fatal("expected auto-registered doctor to get an ID")
	}

	labs := state.Laboratories()
	if len(labs) != 1 {
		t.Fatalf("expected exactly 1 auto-registered laboratory, got %d", len(labs))
	}

	// Saving a second exam with the same doctor, differently cased, must
	// not register a duplicate
	state.AddExam(context.Background(), ExamRecord{
		ExamName:   "Colesterol",
		Value:      "180",
		DoctorName: "DR. ANA ",
		Laboratory: "lab vida",
	})

	if got := len(state.Doctors()); got != 1 {
		t.Fatalf("expected 1 doctor after same-name exam, got %d", got)
	}
	if got := len(state.Laboratories()); got != 1 {
		t.Fatalf("expected 1 laboratory after same-name exam, got %d", got)
	}
}

func TestStateImagingExamRegistersSpecialist(t *testing.T) {
	state := loadedState(t, newMemoryStore())

	state.AddImagingExam(context.Background(), ImagingExam{
		ExamType:   "Raio-X",
		Region:     "Tórax",
		DoctorName: "Dr. Bruno",
		Laboratory: "Imagem Center",
	})

	doctors := state.Doctors()
	if len(doctors) != 1 {
		t.Fatalf("expected 1 doctor, got %d", len(doctors))
	}
	if doctors[0].Specialty != DefaultImagingDoctorSpecialty {
		t.Fatalf("expected specialty %q, got %q", DefaultImagingDoctorSpecialty, doctors[0].Specialty)
	}
}

func TestStateSentinelNamesNotRegistered(t *testing.T) {
	state := loadedState(t, newMemoryStore())

	for _, name := range []string{"", "N/A", "NÃO INFORMADO", "não informado"} {
		state.AddExam(context.Background(), ExamRecord{
			ExamName:   "Glicemia",
			Value:      "95",
			DoctorName: name,
			Laboratory: name,
		})
	}

	if got := len(state.Doctors()); got != 0 {
		t.Fatalf("expected no doctors registered from sentinel names, got %d", got)
	}
	if got := len(state.Laboratories()); got != 0 {
		t.Fatalf("expected no laboratories registered from sentinel names, got %d", got)
	}
}

func TestStateDeleteExam(t *testing.T) {
	state := loadedState(t, newMemoryStore())

	added := state.AddExam(context.Background(), ExamRecord{ExamName: "Glicemia", Value: "95"})

	if !state.DeleteExam(context.Background(), added.ID) {
		t.Fatal("expected delete to report success")
	}
	if len(state.Exams()) != 0 {
		t.Fatal("expected exam to be gone")
	}
	if state.DeleteExam(context.Background(), added.ID) {
		t.Fatal("expected second delete to report failure")
	}
}

func TestStateUserPasswordStripped(t *testing.T) {
	store := newMemoryStore()
	state := loadedState(t, store)

	state.SetUser(context.Background(), User{
		Name:     "Maria",
		Username: "maria",
		Password: "segredo",
	})

	user := state.User()
	if user == nil {
		t.Fatal("expected a stored user")
	}
	if user.Password != "" {
		t.Fatal("accessor must strip the password")
	}

	// The raw stored record keeps the password for authentication
	if !state.Authenticate("maria", "segredo") {
		t.Fatal("expected credentials to authenticate")
	}
	if state.Authenticate("maria", "errado") {
		t.Fatal("expected wrong password to fail")
	}

	// Profile edit without a password keeps the stored one
	state.SetUser(context.Background(), User{
		ID:       user.ID,
		Name:     "Maria Silva",
		Username: "maria",
	})

	if !state.Authenticate("maria", "segredo") {
		t.Fatal("expected password to survive a profile edit")
	}
}

func TestStateEmptyCollectionsPersistAsArrays(t *testing.T) {
	store := newMemoryStore()
	state := loadedState(t, store)

	state.SetUser(context.Background(), User{Username: "maria", Password: "x"})

	var exams []ExamRecord
	if err := json.Unmarshal(store.slots[CollectionExams], &exams); err != nil {
		t.Fatalf("exams slot is not a JSON array: %v", err)
	}
}

func TestStateMarkAppointmentNotified(t *testing.T) {
	store := newMemoryStore()
	state := loadedState(t, store)

	appt := state.AddAppointment(context.Background(), Appointment{
		Title: "Consulta",
		Type:  AppointmentConsulta,
		Date:  "2025-06-01",
		Time:  "14:30",
	})

	saves := store.saveCount()

	state.MarkAppointmentNotified(context.Background(), appt.ID)

	if !state.Appointments()[0].Notified {
		t.Fatal("expected notified flag to be set")
	}
	if store.saveCount() <= saves {
		t.Fatal("expected marking to persist")
	}

	// Marking again is a no-op and does not save
	saves = store.saveCount()
	state.MarkAppointmentNotified(context.Background(), appt.ID)
	if store.saveCount() != saves {
		t.Fatal("expected repeated marking not to save again")
	}
}
