package services

import "tableorder_backend/internal/models"

// StatusInputs are the four facts table status is derived from. Gathering
// them is the caller's job; resolution itself is a pure function so every
// render and poll recomputes it from scratch.
type StatusInputs struct {
	// HasPin reports whether a PIN is registered for the table.
	HasPin bool
	// Override is the staff-set manual status: models.StatusOccupied,
	// models.StatusAvailable, or empty when unset.
	Override models.TableStatus
	// HasLocalSession reports whether the requesting device's session
	// ledger holds an entry for the table.
	HasLocalSession bool
	// HasActiveOrder reports whether any active order (pending, preparing
	// or ready) exists for the table in the central store.
	HasActiveOrder bool
}

// ResolveTableStatus computes the displayed status of a table. Rules are
// evaluated in order, first match wins:
//
//  1. A registered PIN makes the table pin_protected, never occupied: a
//     PIN-guarded table is assumed single-party and the PIN alone gates
//     access.
//  2. A local session entry marks the table as this device's sitting.
//     Submission flips the shared override to occupied for everyone else;
//     the device that ordered must still see its own session.
//  3. Manual override occupied.
//  4. Manual override available.
//  5. An active order placed from another device marks the table occupied.
//  6. Otherwise available.
func ResolveTableStatus(in StatusInputs) models.TableStatus {
	if in.HasPin {
		return models.StatusPinProtected
	}
	if in.HasLocalSession {
		return models.StatusMySession
	}
	switch in.Override {
	case models.StatusOccupied:
		return models.StatusOccupied
	case models.StatusAvailable:
		return models.StatusAvailable
	}
	if in.HasActiveOrder {
		return models.StatusOccupied
	}
	return models.StatusAvailable
}
