/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flamego/session"
	"github.com/jackc/pgx/v5"
)

// Session lifetime before an idle session is recycled
const sessionLifetime = 30 * 24 * time.Hour

// PostgresSessionStore implements session.Store over the sessions table,
// so logins survive server restarts.
type PostgresSessionStore struct {
	encoder session.Encoder
	decoder session.Decoder
}

// PostgresSessionIniter returns the Initer for the PostgreSQL session store
func PostgresSessionIniter() session.Initer {
	return func(ctx context.Context, args ...interface{}) (session.Store, error) {
		return &PostgresSessionStore{
			encoder: session.GobEncoder,
			decoder: session.GobDecoder,
		}, nil
	}
}

// Exist returns true if the session with given ID exists and hasn't expired
func (s *PostgresSessionStore) Exist(ctx context.Context, sid string) bool {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND expires_at > NOW())`,
		sid,
	).Scan(&exists)

	return err == nil && exists
}

// Read returns the session with given ID. If a session with the ID does
// not exist, a new session with the same ID is returned.
func (s *PostgresSessionStore) Read(ctx context.Context, sid string) (session.Session, error) {
	var data []byte
	err := pool.QueryRow(ctx,
		`SELECT data FROM sessions WHERE id = $1 AND expires_at > NOW()`,
		sid,
	).Scan(&data)

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// The session middleware manages the cookie; nothing to do here
	idWriter := func(w http.ResponseWriter, r *http.Request, newSid string) {}

	if errors.Is(err, pgx.ErrNoRows) || len(data) == 0 {
		return session.NewBaseSession(sid, s.encoder, idWriter), nil
	}

	sessionData, err := s.decoder(data)
	if err != nil {
		// Undecodable session data reads as a fresh session
		return session.NewBaseSession(sid, s.encoder, idWriter), nil
	}

	return session.NewBaseSessionWithData(sid, s.encoder, idWriter, sessionData), nil
}

// Destroy deletes the session with given ID from the store completely
func (s *PostgresSessionStore) Destroy(ctx context.Context, sid string) error {
	_, err := pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sid)
	return err
}

// Touch updates the expiry time of the session with given ID
func (s *PostgresSessionStore) Touch(ctx context.Context, sid string) error {
	_, err := pool.Exec(ctx,
		`UPDATE sessions SET expires_at = $1 WHERE id = $2`,
		time.Now().Add(sessionLifetime),
		sid,
	)

	return err
}

// Save persists session data to the store
func (s *PostgresSessionStore) Save(ctx context.Context, sess session.Session) error {
	data, err := sess.Encode()
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at`,
		sess.ID(),
		data,
		time.Now().Add(sessionLifetime),
	)

	return err
}

// GC removes expired sessions
func (s *PostgresSessionStore) GC(ctx context.Context) error {
	_, err := pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	return err
}
