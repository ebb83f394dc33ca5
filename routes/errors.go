/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errExamNameRequired  = errors.New("exam name is required")
	errExamValueRequired = errors.New("exam value is required")
	errExamDateRequired  = errors.New("exam date is required")
	errTitleRequired     = errors.New("appointment title is required")
	errInvalidDate       = errors.New("invalid date")
	errInvalidTime       = errors.New("invalid time")
)
