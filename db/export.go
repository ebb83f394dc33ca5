/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"fmt"
	"io"
	"strings"
)

// Fixed header of the exam export, consumed by pt-BR spreadsheet tools
// (hence the semicolon delimiter and the BOM).
var csvExportHeader = []string{
	"Data", "Exame", "Resultado", "Unidade", "Referencia", "Status", "Laboratorio", "Medico",
}

// ExportExamsCSV writes the given exams as semicolon-delimited CSV with a
// UTF-8 BOM. Every data value is double-quoted, with embedded quotes doubled.
// Dates are formatted dd/mm/yyyy and the status column carries the
// user-facing label, not the internal status name.
func ExportExamsCSV(w io.Writer, exams []ExamRecord) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	// The header row goes out unquoted, only data rows are quoted.
	if _, err := io.WriteString(w, strings.Join(csvExportHeader, ";")+"\n"); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, exam := range exams {
		row := []string{
			exam.DisplayDate(),
			exam.ExamName,
			exam.Value,
			exam.Unit,
			exam.ReferenceRange,
			exam.Status().Label(),
			exam.Laboratory,
			exam.DoctorName,
		}

		if err := writeCSVRow(w, row); err != nil {
			return err
		}
	}

	return nil
}

func writeCSVRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}

	if _, err := io.WriteString(w, strings.Join(quoted, ";")+"\n"); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	return nil
}
