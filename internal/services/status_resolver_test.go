package services

import (
	"testing"

	"tableorder_backend/internal/models"
)

func TestResolveTableStatus(t *testing.T) {
	tests := []struct {
		name string
		in   StatusInputs
		want models.TableStatus
	}{
		{
			name: "no signals",
			in:   StatusInputs{},
			want: models.StatusAvailable,
		},
		{
			name: "pin wins over everything",
			in: StatusInputs{
				HasPin:          true,
				Override:        models.StatusOccupied,
				HasLocalSession: true,
				HasActiveOrder:  true,
			},
			want: models.StatusPinProtected,
		},
		{
			// After submission the override is occupied for everyone,
			// but the device holding the session sees its own sitting.
			name: "local session wins over manual occupied",
			in: StatusInputs{
				Override:        models.StatusOccupied,
				HasLocalSession: true,
			},
			want: models.StatusMySession,
		},
		{
			name: "local session wins over manual available",
			in: StatusInputs{
				Override:        models.StatusAvailable,
				HasLocalSession: true,
			},
			want: models.StatusMySession,
		},
		{
			name: "manual available beats remote orders",
			in: StatusInputs{
				Override:       models.StatusAvailable,
				HasActiveOrder: true,
			},
			want: models.StatusAvailable,
		},
		{
			name: "local session beats remote order signal",
			in: StatusInputs{
				HasLocalSession: true,
				HasActiveOrder:  true,
			},
			want: models.StatusMySession,
		},
		{
			name: "remote active order alone reads occupied",
			in:   StatusInputs{HasActiveOrder: true},
			want: models.StatusOccupied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTableStatus(tt.in); got != tt.want {
				t.Errorf("ResolveTableStatus(%+v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveTableStatusNeverOccupiedWithPin(t *testing.T) {
	// Exhaust every combination of the non-pin signals: with a PIN set the
	// resolver must always answer pin_protected.
	overrides := []models.TableStatus{"", models.StatusOccupied, models.StatusAvailable}
	for _, override := range overrides {
		for _, session := range []bool{false, true} {
			for _, active := range []bool{false, true} {
				in := StatusInputs{
					HasPin:          true,
					Override:        override,
					HasLocalSession: session,
					HasActiveOrder:  active,
				}
				if got := ResolveTableStatus(in); got != models.StatusPinProtected {
					t.Errorf("ResolveTableStatus(%+v) = %q, want %q", in, got, models.StatusPinProtected)
				}
			}
		}
	}
}
