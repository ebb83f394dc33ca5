/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"sync"
	"time"
)

// Interval between alarm polls. Short enough that a minute boundary is
// never skipped, long enough to stay cheap.
const alarmPollInterval = 5 * time.Second

// Notifier receives an appointment exactly once when it comes due
type Notifier func(Appointment)

// AlarmMonitor polls the appointment collection and fires the notifier
// for every appointment whose date and time match the current wall-clock
// minute. A per-day set of notified IDs guarantees at-most-once firing
// per appointment, including for multiple appointments due in the same
// minute. Each tick reads the live state, so appointments added after
// the monitor started are still picked up.
type AlarmMonitor struct {
	state    *State
	notify   Notifier
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	notifiedDay string
	notifiedIDs map[string]bool
}

// NewAlarmMonitor returns a monitor over the given state. The notifier
// may be nil, in which case due appointments are only logged and marked.
func NewAlarmMonitor(state *State, notify Notifier) *AlarmMonitor {
	return &AlarmMonitor{
		state:       state,
		notify:      notify,
		interval:    alarmPollInterval,
		now:         time.Now,
		notifiedIDs: make(map[string]bool),
	}
}

// Run polls until ctx is cancelled. No side effects fire after it returns.
func (m *AlarmMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	alarmLogger.Info("Alarm monitor started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			alarmLogger.Info("Alarm monitor stopped")
			return
		case <-ticker.C:
			m.check(ctx, m.now())
		}
	}
}

// check fires the notifier for every appointment due at the given
// instant that has not already been notified today.
func (m *AlarmMonitor) check(ctx context.Context, now time.Time) {
	day := now.Format("2006-01-02")
	minute := now.Format("15:04")

	m.mu.Lock()
	if m.notifiedDay != day {
		m.notifiedDay = day
		m.notifiedIDs = make(map[string]bool)
	}
	m.mu.Unlock()

	for _, appt := range m.state.Appointments() {
		if appt.Date != day || appt.Time != minute {
			continue
		}

		m.mu.Lock()
		already := m.notifiedIDs[appt.ID]
		if !already {
			m.notifiedIDs[appt.ID] = true
		}
		m.mu.Unlock()

		if already {
			continue
		}

		alarmLogger.Info("Appointment due", "id", appt.ID, "title", appt.Title, "time", appt.Time)

		if m.notify != nil {
			m.notify(appt)
		}

		m.state.MarkAppointmentNotified(ctx, appt.ID)
	}
}
