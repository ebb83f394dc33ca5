/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"sort"
	"strings"
)

// Default fields for records auto-registered while saving an exam
const (
	DefaultLabDoctorSpecialty     = "CLÍNICO GERAL"
	DefaultImagingDoctorSpecialty = "RADIOLOGISTA/ESPECIALISTA"
)

// Sentinel names that mean "unknown" and must never be auto-registered
// as real doctors or laboratories.
var unknownNameSentinels = map[string]bool{
	"":              true,
	"N/A":           true,
	"NÃO INFORMADO": true,
}

// NormalizeName produces the canonical identity key for doctors and
// laboratories: uppercased, trimmed name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// IsUnknownName reports whether a name is a placeholder for "not informed"
func IsUnknownName(name string) bool {
	return unknownNameSentinels[NormalizeName(name)]
}

// nameIndex maps normalized names to record IDs, so identity lookups are
// a single structure instead of ad-hoc normalization at every call site.
type nameIndex map[string]string

func doctorNameIndex(doctors []Doctor) nameIndex {
	idx := make(nameIndex, len(doctors))
	for _, d := range doctors {
		key := NormalizeName(d.Name)
		if _, seen := idx[key]; !seen {
			idx[key] = d.ID
		}
	}

	return idx
}

func laboratoryNameIndex(labs []Laboratory) nameIndex {
	idx := make(nameIndex, len(labs))
	for _, l := range labs {
		key := NormalizeName(l.Name)
		if _, seen := idx[key]; !seen {
			idx[key] = l.ID
		}
	}

	return idx
}

// UnifyDoctors collapses records that share a normalized name into one
// representative per doctor, merging field by field so the result is at
// least as complete as every duplicate. It is a read-time projection:
// the input is not modified and the stored collection keeps duplicates.
func UnifyDoctors(doctors []Doctor) []Doctor {
	merged := make(map[string]Doctor)
	order := make([]string, 0, len(doctors))

	for _, d := range doctors {
		key := NormalizeName(d.Name)

		kept, seen := merged[key]
		if !seen {
			merged[key] = d
			order = append(order, key)
			continue
		}

		if kept.Specialty == "" {
			kept.Specialty = d.Specialty
		}
		if kept.CRM == "" {
			kept.CRM = d.CRM
		}
		if kept.Phone == "" {
			kept.Phone = d.Phone
		}
		if kept.Address == "" {
			kept.Address = d.Address
		}

		merged[key] = kept
	}

	unified := make([]Doctor, 0, len(order))
	for _, key := range order {
		unified = append(unified, merged[key])
	}

	sort.Slice(unified, func(i, j int) bool {
		return NormalizeName(unified[i].Name) < NormalizeName(unified[j].Name)
	})

	return unified
}

// UnifyLaboratories is the laboratory counterpart of UnifyDoctors
func UnifyLaboratories(labs []Laboratory) []Laboratory {
	merged := make(map[string]Laboratory)
	order := make([]string, 0, len(labs))

	for _, l := range labs {
		key := NormalizeName(l.Name)

		kept, seen := merged[key]
		if !seen {
			merged[key] = l
			order = append(order, key)
			continue
		}

		if kept.Address == "" {
			kept.Address = l.Address
		}
		if kept.Phone == "" {
			kept.Phone = l.Phone
		}

		merged[key] = kept
	}

	unified := make([]Laboratory, 0, len(order))
	for _, key := range order {
		unified = append(unified, merged[key])
	}

	sort.Slice(unified, func(i, j int) bool {
		return NormalizeName(unified[i].Name) < NormalizeName(unified[j].Name)
	})

	return unified
}
