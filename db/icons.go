/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

// IconGenerator produces a small icon (as a data URI) for an exam name.
// Implemented by an external image-generation collaborator; tests stub it.
type IconGenerator interface {
	GenerateIcon(ctx context.Context, examName string) (string, error)
}

// IconCache lazily maps uppercased exam names to generated icons,
// persisted in their own table. An in-flight set prevents duplicate
// concurrent generation for the same name.
type IconCache struct {
	generator IconGenerator

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewIconCache returns a cache over the given generator. A nil generator
// disables generation; lookups still serve previously stored icons.
func NewIconCache(generator IconGenerator) *IconCache {
	return &IconCache{
		generator: generator,
		inFlight:  make(map[string]bool),
	}
}

// Get returns the stored icon for an exam name, or "" when none exists
func (c *IconCache) Get(ctx context.Context, examName string) (string, error) {
	return getExamIcon(ctx, NormalizeName(examName))
}

// GetOrGenerate returns the stored icon, generating and persisting one on
// a miss. While a generation for the same name is in flight, concurrent
// callers get "" instead of a second generation request.
func (c *IconCache) GetOrGenerate(ctx context.Context, examName string) (string, error) {
	name := NormalizeName(examName)
	if name == "" {
		return "", nil
	}

	icon, err := getExamIcon(ctx, name)
	if err != nil {
		return "", err
	}
	if icon != "" {
		return icon, nil
	}

	if c.generator == nil {
		return "", nil
	}

	c.mu.Lock()
	if c.inFlight[name] {
		c.mu.Unlock()
		return "", nil
	}
	c.inFlight[name] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, name)
		c.mu.Unlock()
	}()

	icon, err = c.generator.GenerateIcon(ctx, examName)
	if err != nil {
		return "", fmt.Errorf("failed to generate icon for %q: %w", examName, err)
	}
	if icon == "" {
		return "", nil
	}

	if err := saveExamIcon(ctx, name, icon); err != nil {
		return "", err
	}

	return icon, nil
}

// AIIconGenerator asks the configured chat model for a small inline SVG
// representing the exam, served as a data URI. Requires the same AI_URL
// and AI_MODEL configuration as report extraction.
type AIIconGenerator struct{}

func (AIIconGenerator) GenerateIcon(ctx context.Context, examName string) (string, error) {
	config, err := GetAIConfig()
	if err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model: config.Model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "Gere um ícone SVG minimalista e monocromático representando um exame de laboratório. " +
					"Responda SOMENTE com o elemento <svg>, com viewBox=\"0 0 24 24\", sem texto fora dele.",
			},
			{Role: "user", Content: examName},
		},
	}

	raw, err := completeChat(ctx, config, reqBody)
	if err != nil {
		return "", err
	}

	svg := stripCodeFence(raw)
	if !strings.HasPrefix(svg, "<svg") {
		return "", nil
	}

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)), nil
}

func getExamIcon(ctx context.Context, name string) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	var dataURI string

	query := `SELECT data_uri FROM exam_icons WHERE name = $1`

	err := pool.QueryRow(ctx, query, name).Scan(&dataURI)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("failed to get exam icon: %w", err)
	}

	return dataURI, nil
}

func saveExamIcon(ctx context.Context, name, dataURI string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO exam_icons (name, data_uri)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data_uri = EXCLUDED.data_uri
	`

	if _, err := pool.Exec(ctx, query, name, dataURI); err != nil {
		return fmt.Errorf("failed to save exam icon: %w", err)
	}

	return nil
}
