/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection string")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrStateNotLoaded                   = errors.New("state not loaded")
	ErrUnknownCollection                = errors.New("unknown collection")
	ErrAIConfigIncomplete               = errors.New("AI configuration incomplete: AI_URL and AI_MODEL must be set")
)
