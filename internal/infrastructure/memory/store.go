// Package memory implementa el store completo en memoria. Respeta la misma
// semántica transaccional que el adaptador PostgreSQL: Run serializa las
// transacciones con un mutex y restaura un snapshot si la función falla,
// de modo que los casos de uso son verificables sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/farmadepot/bodega-api/internal/application/ledger"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// Store guarda todas las colecciones del dominio en mapas protegidos por
// un único mutex.
type Store struct {
	mu sync.Mutex

	allocations     map[string]*entity.Allocation
	cells           map[string]*entity.Cell
	records         map[string]*entity.InventoryRecord // clave product|cell|status
	audits          []*entity.AuditLogEntry
	entryOrders     map[string]*entity.EntryOrder
	entryLines      map[string]*entity.EntryOrderLine
	departureOrders map[string]*entity.DepartureOrder
	departureLines  map[string]*entity.DepartureOrderLine
	reservations    map[string]*entity.DepartureAllocation
	users           map[string]*entity.User
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		allocations:     map[string]*entity.Allocation{},
		cells:           map[string]*entity.Cell{},
		records:         map[string]*entity.InventoryRecord{},
		entryOrders:     map[string]*entity.EntryOrder{},
		entryLines:      map[string]*entity.EntryOrderLine{},
		departureOrders: map[string]*entity.DepartureOrder{},
		departureLines:  map[string]*entity.DepartureOrderLine{},
		reservations:    map[string]*entity.DepartureAllocation{},
		users:           map[string]*entity.User{},
	}
}

func recordKey(productID, cellID, status string) string {
	return productID + "|" + cellID + "|" + status
}

// Clones: nunca se comparte un puntero con el caller. Las entidades solo
// contienen valores, punteros a time.Time y slices de string; basta con
// duplicar esos dos.

func cloneAllocation(a *entity.Allocation) *entity.Allocation {
	if a == nil {
		return nil
	}
	c := *a
	if a.ExpirationDate != nil {
		t := *a.ExpirationDate
		c.ExpirationDate = &t
	}
	return &c
}

func cloneCell(c *entity.Cell) *entity.Cell {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func cloneRecord(r *entity.InventoryRecord) *entity.InventoryRecord {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func cloneAudit(e *entity.AuditLogEntry) *entity.AuditLogEntry {
	cp := *e
	return &cp
}

func cloneEntryOrder(o *entity.EntryOrder) *entity.EntryOrder {
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}

func cloneEntryLine(l *entity.EntryOrderLine) *entity.EntryOrderLine {
	if l == nil {
		return nil
	}
	cp := *l
	if l.ExpirationDate != nil {
		t := *l.ExpirationDate
		cp.ExpirationDate = &t
	}
	return &cp
}

func cloneDepartureOrder(o *entity.DepartureOrder) *entity.DepartureOrder {
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}

func cloneDepartureLine(l *entity.DepartureOrderLine) *entity.DepartureOrderLine {
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}

func cloneReservation(da *entity.DepartureAllocation) *entity.DepartureAllocation {
	if da == nil {
		return nil
	}
	cp := *da
	if da.DispatchedAt != nil {
		t := *da.DispatchedAt
		cp.DispatchedAt = &t
	}
	return &cp
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.ClientIDs = append([]string(nil), u.ClientIDs...)
	return &cp
}

type snapshot struct {
	allocations     map[string]*entity.Allocation
	cells           map[string]*entity.Cell
	records         map[string]*entity.InventoryRecord
	audits          []*entity.AuditLogEntry
	entryOrders     map[string]*entity.EntryOrder
	entryLines      map[string]*entity.EntryOrderLine
	departureOrders map[string]*entity.DepartureOrder
	departureLines  map[string]*entity.DepartureOrderLine
	reservations    map[string]*entity.DepartureAllocation
	users           map[string]*entity.User
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		allocations:     make(map[string]*entity.Allocation, len(s.allocations)),
		cells:           make(map[string]*entity.Cell, len(s.cells)),
		records:         make(map[string]*entity.InventoryRecord, len(s.records)),
		audits:          append([]*entity.AuditLogEntry(nil), s.audits...),
		entryOrders:     make(map[string]*entity.EntryOrder, len(s.entryOrders)),
		entryLines:      make(map[string]*entity.EntryOrderLine, len(s.entryLines)),
		departureOrders: make(map[string]*entity.DepartureOrder, len(s.departureOrders)),
		departureLines:  make(map[string]*entity.DepartureOrderLine, len(s.departureLines)),
		reservations:    make(map[string]*entity.DepartureAllocation, len(s.reservations)),
		users:           make(map[string]*entity.User, len(s.users)),
	}
	for k, v := range s.allocations {
		snap.allocations[k] = cloneAllocation(v)
	}
	for k, v := range s.cells {
		snap.cells[k] = cloneCell(v)
	}
	for k, v := range s.records {
		snap.records[k] = cloneRecord(v)
	}
	for k, v := range s.entryOrders {
		snap.entryOrders[k] = cloneEntryOrder(v)
	}
	for k, v := range s.entryLines {
		snap.entryLines[k] = cloneEntryLine(v)
	}
	for k, v := range s.departureOrders {
		snap.departureOrders[k] = cloneDepartureOrder(v)
	}
	for k, v := range s.departureLines {
		snap.departureLines[k] = cloneDepartureLine(v)
	}
	for k, v := range s.reservations {
		snap.reservations[k] = cloneReservation(v)
	}
	for k, v := range s.users {
		snap.users[k] = cloneUser(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.allocations = snap.allocations
	s.cells = snap.cells
	s.records = snap.records
	s.audits = snap.audits
	s.entryOrders = snap.entryOrders
	s.entryLines = snap.entryLines
	s.departureOrders = snap.departureOrders
	s.departureLines = snap.departureLines
	s.reservations = snap.reservations
	s.users = snap.users
}

var _ ledger.TxRunner = (*Store)(nil)

// Run ejecuta fn como transacción: toma el mutex, guarda un snapshot y lo
// restaura si fn devuelve error. Dentro de fn los repos no vuelven a
// bloquear (el mutex ya está tomado).
func (s *Store) Run(ctx context.Context, fn func(r ledger.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	err := fn(ledger.Repos{
		Allocations: &AllocationRepo{s: s, inTx: true},
		Cells:       &CellRepo{s: s, inTx: true},
		Records:     &InventoryRecordRepo{s: s, inTx: true},
		Audit:       &AuditLogRepo{s: s, inTx: true},
		Entries:     &EntryOrderRepo{s: s, inTx: true},
		Departures:  &DepartureRepo{s: s, inTx: true},
	})
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Repos devuelve repositorios "de pool": cada llamada toma el mutex por su
// cuenta. Sirven para lecturas fuera de transacción y para sembrar tests.
func (s *Store) Repos() ledger.Repos {
	return ledger.Repos{
		Allocations: &AllocationRepo{s: s},
		Cells:       &CellRepo{s: s},
		Records:     &InventoryRecordRepo{s: s},
		Audit:       &AuditLogRepo{s: s},
		Entries:     &EntryOrderRepo{s: s},
		Departures:  &DepartureRepo{s: s},
	}
}

// Users devuelve el repositorio de usuarios en modo pool.
func (s *Store) Users() repository.UserRepository {
	return &UserRepo{s: s}
}

// lockIf toma el mutex salvo que el repo esté atado a una tx en curso.
// Devuelve la función de unlock (no-op dentro de tx).
func (s *Store) lockIf(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
