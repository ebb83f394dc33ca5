// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "  Dr. Ana ", want: "DR. ANA"},
		{in: "dr. ana", want: "DR. ANA"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestIsUnknownName(t *testing.T) {
	for _, name := range []string{"", "  ", "N/A", "n/a", "NÃO INFORMADO", "não informado "} {
		if !IsUnknownName(name) {
			t.Fatalf("expected %q to be an unknown-name sentinel", name)
		}
	}

	if IsUnknownName("Dr. Ana") {
		t.Fatal("expected Dr. Ana not to be a sentinel")
	}
}

func TestUnifyDoctorsMergesByName(t *testing.T) {
	doctors := []Doctor{
		{ID: "1", Name: "Dr. Ana", Specialty: "CARDIOLOGIA"},
		{ID: "2", Name: "dr. ana ", CRM: "12345", Phone: "555-1234"},
		{ID: "3", Name: "Dr. Bruno", Address: "Av. Central, 10"},
	}

	unified := UnifyDoctors(doctors)

	if len(unified) != 2 {
		t.Fatalf("expected 2 unified doctors, got %d", len(unified))
	}

	// Name-ascending order
	if NormalizeName(unified[0].Name) != "DR. ANA" || NormalizeName(unified[1].Name) != "DR. BRUNO" {
		t.Fatalf("unexpected order: %q, %q", unified[0].Name, unified[1].Name)
	}

	// Field-by-field best-of merge: the kept Ana has every non-empty
	// field any duplicate had
	ana := unified[0]
	if ana.Specialty != "CARDIOLOGIA" || ana.CRM != "12345" || ana.Phone != "555-1234" {
		t.Fatalf("merge lost fields: %+v", ana)
	}
}

func TestUnifyDoctorsKeepsFirstNonEmptyField(t *testing.T) {
	doctors := []Doctor{
		{ID: "1", Name: "Dr. Ana", CRM: "11111"},
		{ID: "2", Name: "DR. ANA", CRM: "22222"},
	}

	unified := UnifyDoctors(doctors)
	if len(unified) != 1 {
		t.Fatalf("expected 1 unified doctor, got %d", len(unified))
	}
	// Presence wins, not recency: the already-kept CRM is not replaced
	if unified[0].CRM != "11111" {
		t.Fatalf("expected CRM 11111, got %q", unified[0].CRM)
	}
}

func TestUnifyDoctorsIdempotent(t *testing.T) {
	doctors := []Doctor{
		{ID: "1", Name: "Dr. Ana", Specialty: "CARDIOLOGIA"},
		{ID: "2", Name: "DR. ANA", CRM: "12345"},
		{ID: "3", Name: "Dr. Carla", Phone: "555-9999"},
	}

	once := UnifyDoctors(doctors)
	twice := UnifyDoctors(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("unify is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestUnifyDoctorsDoesNotMutateInput(t *testing.T) {
	doctors := []Doctor{
		{ID: "1", Name: "Dr. Ana"},
		{ID: "2", Name: "DR. ANA", CRM: "12345"},
	}
	original := append([]Doctor(nil), doctors...)

	UnifyDoctors(doctors)

	if !reflect.DeepEqual(doctors, original) {
		t.Fatal("unify mutated its input; it must be a read-time projection")
	}
}

func TestUnifyLaboratories(t *testing.T) {
	labs := []Laboratory{
		{ID: "1", Name: "Lab Vida", Phone: "555-0000"},
		{ID: "2", Name: "LAB VIDA ", Address: "Rua A, 1"},
		{ID: "3", Name: "Análises Central"},
	}

	unified := UnifyLaboratories(labs)

	if len(unified) != 2 {
		t.Fatalf("expected 2 unified laboratories, got %d", len(unified))
	}

	var vida *Laboratory
	for i := range unified {
		if NormalizeName(unified[i].Name) == "LAB VIDA" {
			vida = &unified[i]
		}
	}

	if vida == nil {
		t.Fatal("Lab Vida missing from unified view")
	}
	if vida.Phone != "555-0000" || vida.Address != "Rua A, 1" {
		t.Fatalf("merge lost fields: %+v", *vida)
	}
}
