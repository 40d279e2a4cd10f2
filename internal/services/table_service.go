package services

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"
)

var (
	ErrPinMismatch = errors.New("wrong pin")
	ErrPinRequired = errors.New("table requires a pin")
)

// TableService resolves table lookups and per-device table status, and owns
// the PIN gate and manual override workflows.
type TableService interface {
	// ListTables returns every active table decorated with the status
	// resolved for the requesting device.
	ListTables(device string) ([]models.TableView, error)
	// GetTableBySlug resolves a slug, falling back to a deterministic
	// mock table when the slug is unknown or the store is unreachable.
	GetTableBySlug(slug string) (*models.Table, error)
	// ResolveStatus computes the table's status for one device.
	ResolveStatus(device string, tableID int64) models.TableStatus
	// AuthenticatePin verifies a customer-entered PIN and records the
	// device's access grant on success.
	AuthenticatePin(device string, tableID int64, pin string) error
	// CanOrder reports whether the device may submit orders for the
	// table: PIN-protected tables require a prior grant.
	CanOrder(device string, tableID int64) error
	// SetOverride and ClearOverride manage the staff manual status.
	SetOverride(tableID int64, status models.TableStatus) error
	ClearOverride(tableID int64)
	// ConfigurePin and RemovePin manage the table's PIN (staff action).
	ConfigurePin(tableID int64, pin string) (string, error)
	RemovePin(tableID int64)
}

type tableService struct {
	tableRepo repositories.TableRepository
	orderRepo repositories.OrderRepository
	pins      PinService
	ledger    *SessionLedger
	overrides *OverrideStore
}

// NewTableService creates a new TableService.
func NewTableService(
	tableRepo repositories.TableRepository,
	orderRepo repositories.OrderRepository,
	pins PinService,
	ledger *SessionLedger,
	overrides *OverrideStore,
) TableService {
	return &tableService{
		tableRepo: tableRepo,
		orderRepo: orderRepo,
		pins:      pins,
		ledger:    ledger,
		overrides: overrides,
	}
}

func (s *tableService) ListTables(device string) ([]models.TableView, error) {
	tables, err := s.tableRepo.GetActiveTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	pins := s.pins.GetAll()
	activeIDs, err := s.orderRepo.ActiveTableIDs()
	if err != nil {
		// Occupancy from remote orders is advisory; render the grid from
		// what we do know rather than failing the page.
		utils.LogWarn("table grid: active order lookup failed", map[string]interface{}{"error": err.Error()})
		activeIDs = map[int64]bool{}
	}

	views := make([]models.TableView, 0, len(tables))
	for _, t := range tables {
		_, hasPin := pins[t.ID]
		status := ResolveTableStatus(StatusInputs{
			HasPin:          hasPin,
			Override:        s.overrides.Get(t.ID),
			HasLocalSession: s.ledger.HasSession(device, t.ID),
			HasActiveOrder:  activeIDs[t.ID],
		})
		views = append(views, models.TableView{Table: t, Status: status})
	}
	return views, nil
}

func (s *tableService) GetTableBySlug(slug string) (*models.Table, error) {
	table, err := s.tableRepo.GetTableBySlug(slug)
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		utils.LogWarn("table lookup failed, using mock table", map[string]interface{}{
			"slug": slug, "error": err.Error(),
		})
	}
	return mockTableForSlug(slug), nil
}

func (s *tableService) ResolveStatus(device string, tableID int64) models.TableStatus {
	_, hasPin := s.pins.Get(tableID)
	activeIDs, err := s.orderRepo.ActiveTableIDs()
	if err != nil {
		activeIDs = map[int64]bool{}
	}
	return ResolveTableStatus(StatusInputs{
		HasPin:          hasPin,
		Override:        s.overrides.Get(tableID),
		HasLocalSession: s.ledger.HasSession(device, tableID),
		HasActiveOrder:  activeIDs[tableID],
	})
}

func (s *tableService) AuthenticatePin(device string, tableID int64, pin string) error {
	required, ok := s.pins.Get(tableID)
	if !ok {
		// No PIN registered means nothing to authenticate against.
		return nil
	}
	if strings.TrimSpace(pin) != required {
		return ErrPinMismatch
	}
	s.ledger.GrantPinAccess(device, tableID)
	return nil
}

func (s *tableService) CanOrder(device string, tableID int64) error {
	if _, hasPin := s.pins.Get(tableID); !hasPin {
		return nil
	}
	if s.ledger.HasPinAccess(device, tableID) {
		return nil
	}
	return ErrPinRequired
}

func (s *tableService) SetOverride(tableID int64, status models.TableStatus) error {
	if status != models.StatusOccupied && status != models.StatusAvailable {
		return fmt.Errorf("%w: override must be %q or %q", ErrValidation, models.StatusOccupied, models.StatusAvailable)
	}
	s.overrides.Set(tableID, status)
	return nil
}

func (s *tableService) ClearOverride(tableID int64) {
	s.overrides.Clear(tableID)
}

func (s *tableService) ConfigurePin(tableID int64, pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", fmt.Errorf("%w: pin cannot be empty", ErrValidation)
	}
	if _, err := strconv.Atoi(pin); err != nil {
		return "", fmt.Errorf("%w: pin must be numeric", ErrValidation)
	}
	source := s.pins.Set(tableID, pin)
	// A changed PIN invalidates every earlier unlock for the table.
	s.ledger.RevokePinAccess(tableID)
	return source, nil
}

func (s *tableService) RemovePin(tableID int64) {
	s.pins.Clear(tableID)
	s.ledger.RevokePinAccess(tableID)
}

// mockTableForSlug derives a deterministic placeholder table from a slug, so
// a misconfigured or unreachable table catalog degrades to a usable ordering
// page instead of failing closed. "table-3" maps to ID 3, "Table 3"; other
// slugs hash to a stable ID.
func mockTableForSlug(slug string) *models.Table {
	table := &models.Table{Slug: slug, Name: slug, IsActive: true}
	if n, ok := trailingNumber(slug); ok {
		table.ID = n
		table.Name = "Table " + utils.Int64ToStr(n)
		return table
	}
	h := fnv.New32a()
	h.Write([]byte(slug))
	table.ID = int64(h.Sum32())
	return table
}

func trailingNumber(slug string) (int64, bool) {
	idx := strings.LastIndex(slug, "-")
	if idx < 0 || idx == len(slug)-1 {
		return 0, false
	}
	n, err := utils.StrToInt64(slug[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
