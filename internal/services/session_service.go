package services

import (
	"sync"
	"time"

	"tableorder_backend/internal/models"

	"github.com/google/uuid"
)

// SessionLedger tracks, per device token, which orders belong to that
// device's sitting and which PIN-protected tables it has unlocked. This is
// the server-side replacement for the browser's private receipt of "my"
// orders: the device token is issued by middleware and joined here instead
// of heuristic client-side matching.
type SessionLedger struct {
	mu      sync.Mutex
	entries map[string][]models.SessionEntry // device token -> ledger
	grants  map[string]map[int64]time.Time   // device token -> table ID -> granted at
}

// NewSessionLedger creates an empty SessionLedger.
func NewSessionLedger() *SessionLedger {
	return &SessionLedger{
		entries: map[string][]models.SessionEntry{},
		grants:  map[string]map[int64]time.Time{},
	}
}

// NewDeviceToken issues an opaque token identifying one device.
func NewDeviceToken() string {
	return uuid.NewString()
}

// Append records a successfully submitted order in the device's ledger.
func (l *SessionLedger) Append(device string, entry models.SessionEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[device] = append(l.entries[device], entry)
}

// Entries returns the device's ledger entries for one table, oldest first.
func (l *SessionLedger) Entries(device string, tableID int64) []models.SessionEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []models.SessionEntry{}
	for _, e := range l.entries[device] {
		if e.TableID == tableID {
			out = append(out, e)
		}
	}
	return out
}

// HasSession reports whether the device has any ledger entry for the table.
func (l *SessionLedger) HasSession(device string, tableID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries[device] {
		if e.TableID == tableID {
			return true
		}
	}
	return false
}

// ClearTable removes the table's ledger entries from every device. Called
// once at checkout finalize; entries are never removed individually, and the
// sitting ends for all devices regardless of which one paid.
func (l *SessionLedger) ClearTable(tableID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for device, entries := range l.entries {
		kept := entries[:0]
		for _, e := range entries {
			if e.TableID != tableID {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(l.entries, device)
			continue
		}
		l.entries[device] = kept
	}
}

// GrantPinAccess records that the device entered the correct PIN for a table.
func (l *SessionLedger) GrantPinAccess(device string, tableID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.grants[device] == nil {
		l.grants[device] = map[int64]time.Time{}
	}
	l.grants[device][tableID] = time.Now()
}

// HasPinAccess reports whether the device has unlocked the table.
func (l *SessionLedger) HasPinAccess(device string, tableID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.grants[device][tableID]
	return ok
}

// RevokePinAccess drops every device's grant for a table. Called when the
// table's PIN is changed or cleared.
func (l *SessionLedger) RevokePinAccess(tableID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tables := range l.grants {
		delete(tables, tableID)
	}
}
