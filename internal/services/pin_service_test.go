package services

import (
	"errors"
	"testing"
)

// fakePinRepo is a central PIN store whose availability can be toggled.
type fakePinRepo struct {
	pins map[int64]string
	down bool
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{pins: map[int64]string{}}
}

func (f *fakePinRepo) GetAllPins() (map[int64]string, error) {
	if f.down {
		return nil, errors.New("central store unreachable")
	}
	out := make(map[int64]string, len(f.pins))
	for k, v := range f.pins {
		out[k] = v
	}
	return out, nil
}

func (f *fakePinRepo) UpsertPin(tableID int64, pin string) error {
	if f.down {
		return errors.New("central store unreachable")
	}
	f.pins[tableID] = pin
	return nil
}

func (f *fakePinRepo) DeletePin(tableID int64) error {
	if f.down {
		return errors.New("central store unreachable")
	}
	delete(f.pins, tableID)
	return nil
}

func TestPinServiceDegradeToCache(t *testing.T) {
	repo := newFakePinRepo()
	svc := NewPinService(repo)

	svc.Set(5, "42")

	// A healthy read refreshes the cache from central.
	pins := svc.GetAll()
	if pins[5] != "42" {
		t.Fatalf("GetAll()[5] = %q, want %q", pins[5], "42")
	}

	// With central down the cached mapping still answers.
	repo.down = true
	pins = svc.GetAll()
	if pins[5] != "42" {
		t.Errorf("GetAll()[5] during outage = %q, want cached %q", pins[5], "42")
	}
	if pin, ok := svc.Get(5); !ok || pin != "42" {
		t.Errorf("Get(5) during outage = %q, %v; want %q, true", pin, ok, "42")
	}
}

func TestPinServiceSetReportsSource(t *testing.T) {
	repo := newFakePinRepo()
	svc := NewPinService(repo)

	if source := svc.Set(1, "11"); source != PinSourceCentral {
		t.Errorf("Set with central up: source = %q, want %q", source, PinSourceCentral)
	}

	repo.down = true
	if source := svc.Set(2, "22"); source != PinSourceCache {
		t.Errorf("Set with central down: source = %q, want %q", source, PinSourceCache)
	}

	// The cache-only write must still be readable.
	if pin, ok := svc.Get(2); !ok || pin != "22" {
		t.Errorf("Get(2) after cache-only Set = %q, %v; want %q, true", pin, ok, "22")
	}
}

func TestPinServiceClearSurvivesOutage(t *testing.T) {
	repo := newFakePinRepo()
	svc := NewPinService(repo)

	svc.Set(3, "33")
	repo.down = true
	svc.Clear(3)

	if _, ok := svc.Get(3); ok {
		t.Error("Get(3) after Clear during outage: pin still present")
	}
}

func TestPinServiceCentralReadOverwritesCache(t *testing.T) {
	repo := newFakePinRepo()
	svc := NewPinService(repo)

	repo.down = true
	svc.Set(7, "77") // lands only in the cache
	repo.down = false
	repo.pins[7] = "99" // central has a different value

	if pin, _ := svc.Get(7); pin != "99" {
		t.Errorf("Get(7) after central recovery = %q, want central %q", pin, "99")
	}
}
