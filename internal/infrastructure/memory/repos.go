package memory

import (
	"sort"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

// Implementaciones en memoria de los puertos de repositorio. Con inTx el
// repo asume que Run ya tomó el mutex; sin inTx cada método bloquea solo.

var (
	_ repository.AllocationRepository      = (*AllocationRepo)(nil)
	_ repository.CellRepository            = (*CellRepo)(nil)
	_ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)
	_ repository.AuditLogRepository        = (*AuditLogRepo)(nil)
	_ repository.EntryOrderRepository      = (*EntryOrderRepo)(nil)
	_ repository.DepartureRepository       = (*DepartureRepo)(nil)
	_ repository.UserRepository            = (*UserRepo)(nil)
)

func inScope(clientIDs []string, clientID string) bool {
	if clientIDs == nil {
		return true
	}
	for _, id := range clientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// --- AllocationRepo ---

type AllocationRepo struct {
	s    *Store
	inTx bool
}

func (r *AllocationRepo) Create(a *entity.Allocation) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.allocations[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.allocations[a.ID] = cloneAllocation(a)
	return nil
}

func (r *AllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneAllocation(r.s.allocations[id]), nil
}

func (r *AllocationRepo) GetForUpdate(id string) (*entity.Allocation, error) {
	// El mutex del store ya serializa; no hay bloqueo por fila que tomar.
	return r.GetByID(id)
}

func (r *AllocationRepo) Update(a *entity.Allocation) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.allocations[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.allocations[a.ID] = cloneAllocation(a)
	return nil
}

func (r *AllocationRepo) SumAllocatedByEntryLine(lineID string) (entity.Footprint, error) {
	defer r.s.lockIf(r.inTx)()
	var sum entity.Footprint
	for _, a := range r.s.allocations {
		if a.EntryLineID == lineID && a.Origin == entity.OriginReceipt {
			sum = sum.Add(a.Initial)
		}
	}
	return sum, nil
}

func (r *AllocationRepo) ListSelectableByProduct(productID string, clientIDs []string) ([]*entity.Allocation, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.Allocation
	for _, a := range r.s.allocations {
		if a.ProductID != productID || !a.IsSelectable() || !inScope(clientIDs, a.ClientID) {
			continue
		}
		out = append(out, cloneAllocation(a))
	}
	sortFIFO(out)
	return out, nil
}

// sortFIFO ordena por vencimiento ascendente (nulos al final), recepción
// ascendente e ID como desempate, igual que el ORDER BY del adaptador SQL.
func sortFIFO(as []*entity.Allocation) {
	sort.Slice(as, func(i, j int) bool {
		a, b := as[i], as[j]
		switch {
		case a.ExpirationDate == nil && b.ExpirationDate != nil:
			return false
		case a.ExpirationDate != nil && b.ExpirationDate == nil:
			return true
		case a.ExpirationDate != nil && b.ExpirationDate != nil && !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.ID < b.ID
	})
}

func (r *AllocationRepo) ListByProductAndQuality(productID, quality string, clientIDs []string) ([]*entity.Allocation, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.Allocation
	for _, a := range r.s.allocations {
		if a.ProductID != productID || !inScope(clientIDs, a.ClientID) {
			continue
		}
		if quality != "" && a.QualityStatus != quality {
			continue
		}
		out = append(out, cloneAllocation(a))
	}
	sortFIFO(out)
	return out, nil
}

func (r *AllocationRepo) ListByCell(cellID string, clientIDs []string) ([]*entity.Allocation, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.Allocation
	for _, a := range r.s.allocations {
		if a.CellID != cellID || !inScope(clientIDs, a.ClientID) {
			continue
		}
		out = append(out, cloneAllocation(a))
	}
	sortFIFO(out)
	return out, nil
}

// --- CellRepo ---

type CellRepo struct {
	s    *Store
	inTx bool
}

func (r *CellRepo) Create(c *entity.Cell) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.cells[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.cells {
		if other.WarehouseID == c.WarehouseID && other.Row == c.Row &&
			other.Bay == c.Bay && other.Position == c.Position {
			return domain.ErrDuplicate
		}
	}
	r.s.cells[c.ID] = cloneCell(c)
	return nil
}

func (r *CellRepo) GetByID(id string) (*entity.Cell, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneCell(r.s.cells[id]), nil
}

func (r *CellRepo) GetForUpdate(id string) (*entity.Cell, error) {
	return r.GetByID(id)
}

func (r *CellRepo) Update(c *entity.Cell) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.cells[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.cells[c.ID] = cloneCell(c)
	return nil
}

func (r *CellRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Cell, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.Cell
	for _, c := range r.s.cells {
		if c.WarehouseID == warehouseID {
			out = append(out, cloneCell(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Bay != b.Bay {
			return a.Bay < b.Bay
		}
		return a.Position < b.Position
	})
	return paginate(out, limit, offset), nil
}

// --- InventoryRecordRepo ---

type InventoryRecordRepo struct {
	s    *Store
	inTx bool
}

func (r *InventoryRecordRepo) Get(productID, cellID, status string) (*entity.InventoryRecord, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneRecord(r.s.records[recordKey(productID, cellID, status)]), nil
}

func (r *InventoryRecordRepo) GetForUpdate(productID, cellID, status string) (*entity.InventoryRecord, error) {
	return r.Get(productID, cellID, status)
}

func (r *InventoryRecordRepo) Upsert(rec *entity.InventoryRecord) error {
	defer r.s.lockIf(r.inTx)()
	r.s.records[recordKey(rec.ProductID, rec.CellID, rec.Status)] = cloneRecord(rec)
	return nil
}

func (r *InventoryRecordRepo) ListByCell(cellID string) ([]*entity.InventoryRecord, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.CellID == cellID {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

func (r *InventoryRecordRepo) ListByProduct(productID string) ([]*entity.InventoryRecord, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.ProductID == productID {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CellID != out[j].CellID {
			return out[i].CellID < out[j].CellID
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

// --- AuditLogRepo ---

type AuditLogRepo struct {
	s    *Store
	inTx bool
}

func (r *AuditLogRepo) Create(e *entity.AuditLogEntry) error {
	defer r.s.lockIf(r.inTx)()
	r.s.audits = append(r.s.audits, cloneAudit(e))
	return nil
}

func (r *AuditLogRepo) ListByProduct(productID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	return r.listFiltered(func(e *entity.AuditLogEntry) bool { return e.ProductID == productID }, true, limit, offset)
}

func (r *AuditLogRepo) ListByCell(cellID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	return r.listFiltered(func(e *entity.AuditLogEntry) bool { return e.CellID == cellID }, true, limit, offset)
}

func (r *AuditLogRepo) ListByAllocation(allocationID string) ([]*entity.AuditLogEntry, error) {
	return r.listFiltered(func(e *entity.AuditLogEntry) bool { return e.AllocationID == allocationID }, false, 0, 0)
}

func (r *AuditLogRepo) listFiltered(keep func(*entity.AuditLogEntry) bool, newestFirst bool, limit, offset int) ([]*entity.AuditLogEntry, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.AuditLogEntry
	// audits se agrega en orden de inserción, que es el orden temporal.
	for _, e := range r.s.audits {
		if keep(e) {
			out = append(out, cloneAudit(e))
		}
	}
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		out = paginate(out, limit, offset)
	}
	return out, nil
}

// --- EntryOrderRepo ---

type EntryOrderRepo struct {
	s    *Store
	inTx bool
}

func (r *EntryOrderRepo) CreateOrder(o *entity.EntryOrder, lines []*entity.EntryOrderLine) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.entryOrders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.entryOrders[o.ID] = cloneEntryOrder(o)
	for _, l := range lines {
		r.s.entryLines[l.ID] = cloneEntryLine(l)
	}
	return nil
}

func (r *EntryOrderRepo) GetOrderByID(id string) (*entity.EntryOrder, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneEntryOrder(r.s.entryOrders[id]), nil
}

func (r *EntryOrderRepo) UpdateOrderStatus(id, status string) error {
	defer r.s.lockIf(r.inTx)()
	o, ok := r.s.entryOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *EntryOrderRepo) GetLineByID(id string) (*entity.EntryOrderLine, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneEntryLine(r.s.entryLines[id]), nil
}

func (r *EntryOrderRepo) ListLinesByOrder(orderID string) ([]*entity.EntryOrderLine, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.EntryOrderLine
	for _, l := range r.s.entryLines {
		if l.OrderID == orderID {
			out = append(out, cloneEntryLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EntryOrderRepo) ListOrdersByClient(clientIDs []string, limit, offset int) ([]*entity.EntryOrder, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.EntryOrder
	for _, o := range r.s.entryOrders {
		if inScope(clientIDs, o.ClientID) {
			out = append(out, cloneEntryOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *EntryOrderRepo) CountOrdersByYear(year int) (int64, error) {
	defer r.s.lockIf(r.inTx)()
	var n int64
	for _, o := range r.s.entryOrders {
		if o.CreatedAt.Year() == year {
			n++
		}
	}
	return n, nil
}

// --- DepartureRepo ---

type DepartureRepo struct {
	s    *Store
	inTx bool
}

func (r *DepartureRepo) CreateOrder(o *entity.DepartureOrder, lines []*entity.DepartureOrderLine) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.departureOrders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.departureOrders[o.ID] = cloneDepartureOrder(o)
	for _, l := range lines {
		r.s.departureLines[l.ID] = cloneDepartureLine(l)
	}
	return nil
}

func (r *DepartureRepo) GetOrderByID(id string) (*entity.DepartureOrder, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneDepartureOrder(r.s.departureOrders[id]), nil
}

func (r *DepartureRepo) GetOrderForUpdate(id string) (*entity.DepartureOrder, error) {
	return r.GetOrderByID(id)
}

func (r *DepartureRepo) UpdateOrderStatus(id, status string) error {
	defer r.s.lockIf(r.inTx)()
	o, ok := r.s.departureOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *DepartureRepo) ListOrdersByClient(clientIDs []string, limit, offset int) ([]*entity.DepartureOrder, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.DepartureOrder
	for _, o := range r.s.departureOrders {
		if inScope(clientIDs, o.ClientID) {
			out = append(out, cloneDepartureOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *DepartureRepo) CountOrdersByYear(year int) (int64, error) {
	defer r.s.lockIf(r.inTx)()
	var n int64
	for _, o := range r.s.departureOrders {
		if o.CreatedAt.Year() == year {
			n++
		}
	}
	return n, nil
}

func (r *DepartureRepo) GetLineByID(id string) (*entity.DepartureOrderLine, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneDepartureLine(r.s.departureLines[id]), nil
}

func (r *DepartureRepo) ListLinesByOrder(orderID string) ([]*entity.DepartureOrderLine, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.DepartureOrderLine
	for _, l := range r.s.departureLines {
		if l.OrderID == orderID {
			out = append(out, cloneDepartureLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DepartureRepo) UpdateLine(l *entity.DepartureOrderLine) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.departureLines[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.departureLines[l.ID] = cloneDepartureLine(l)
	return nil
}

func (r *DepartureRepo) CreateReservation(da *entity.DepartureAllocation) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.reservations[da.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.reservations[da.ID] = cloneReservation(da)
	return nil
}

func (r *DepartureRepo) ListPendingByOrder(orderID string) ([]*entity.DepartureAllocation, error) {
	defer r.s.lockIf(r.inTx)()
	var out []*entity.DepartureAllocation
	for _, da := range r.s.reservations {
		if da.Status != entity.ReservationPending {
			continue
		}
		l, ok := r.s.departureLines[da.DepartureLineID]
		if !ok || l.OrderID != orderID {
			continue
		}
		out = append(out, cloneReservation(da))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *DepartureRepo) SumPendingByAllocation(allocationID string) (int64, error) {
	defer r.s.lockIf(r.inTx)()
	var n int64
	for _, da := range r.s.reservations {
		if da.AllocationID == allocationID && da.Status == entity.ReservationPending {
			n += da.ReservedQuantity
		}
	}
	return n, nil
}

func (r *DepartureRepo) UpdateReservation(da *entity.DepartureAllocation) error {
	defer r.s.lockIf(r.inTx)()
	if _, ok := r.s.reservations[da.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.reservations[da.ID] = cloneReservation(da)
	return nil
}

// --- UserRepo ---

type UserRepo struct {
	s    *Store
	inTx bool
}

func (r *UserRepo) Create(u *entity.User) error {
	defer r.s.lockIf(r.inTx)()
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	defer r.s.lockIf(r.inTx)()
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	defer r.s.lockIf(r.inTx)()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}
