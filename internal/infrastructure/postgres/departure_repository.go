package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

var _ repository.DepartureRepository = (*DepartureRepo)(nil)

// DepartureRepo implementación de DepartureRepository sobre PostgreSQL.
type DepartureRepo struct {
	q Querier
}

// NewDepartureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepartureRepository(q Querier) *DepartureRepo {
	return &DepartureRepo{q: q}
}

// CreateOrder persiste la orden de salida con sus líneas.
func (r *DepartureRepo) CreateOrder(o *entity.DepartureOrder, lines []*entity.DepartureOrderLine) error {
	query := `
		INSERT INTO departure_orders (id, order_no, client_id, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.OrderNo, o.ClientID, o.Status, o.CreatedBy, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert departure order: %w", err)
	}
	lineQuery := `
		INSERT INTO departure_order_lines (id, order_id, product_id, requested_quantity, dispatched_quantity)
		VALUES ($1, $2, $3, $4, $5)`
	for _, l := range lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.OrderID, l.ProductID, l.RequestedQuantity, l.DispatchedQuantity,
		)
		if err != nil {
			return fmt.Errorf("insert departure line: %w", err)
		}
	}
	return nil
}

const departureOrderColumns = `id, order_no, client_id, status, created_by, created_at, updated_at`

func scanDepartureOrder(row pgx.Row) (*entity.DepartureOrder, error) {
	var o entity.DepartureOrder
	err := row.Scan(&o.ID, &o.OrderNo, &o.ClientID, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByID obtiene una orden de salida por ID.
func (r *DepartureRepo) GetOrderByID(id string) (*entity.DepartureOrder, error) {
	query := `SELECT ` + departureOrderColumns + ` FROM departure_orders WHERE id = $1`
	o, err := scanDepartureOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get departure order: %w", err)
	}
	return o, nil
}

// GetOrderForUpdate obtiene la orden y bloquea la fila: el despacho de una
// orden se serializa contra otros despachos y reservas de la misma orden.
func (r *DepartureRepo) GetOrderForUpdate(id string) (*entity.DepartureOrder, error) {
	query := `SELECT ` + departureOrderColumns + ` FROM departure_orders WHERE id = $1 FOR UPDATE`
	o, err := scanDepartureOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get departure order for update: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus cambia el estado de la orden de salida.
func (r *DepartureRepo) UpdateOrderStatus(id, status string) error {
	query := `UPDATE departure_orders SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update departure order status: %w", err)
	}
	return nil
}

// ListOrdersByClient lista órdenes de salida visibles; clientIDs nil = todas.
func (r *DepartureRepo) ListOrdersByClient(clientIDs []string, limit, offset int) ([]*entity.DepartureOrder, error) {
	query := `SELECT ` + departureOrderColumns + ` FROM departure_orders`
	args := []any{}
	pos := 1
	if clientIDs != nil {
		query += fmt.Sprintf(" WHERE client_id = ANY($%d)", pos)
		args = append(args, clientIDs)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list departure orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.DepartureOrder
	for rows.Next() {
		o, err := scanDepartureOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan departure order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountOrdersByYear cuenta órdenes de salida del año, para numeración serial.
func (r *DepartureRepo) CountOrdersByYear(year int) (int64, error) {
	query := `SELECT COUNT(*) FROM departure_orders WHERE EXTRACT(YEAR FROM created_at) = $1`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("count departure orders: %w", err)
	}
	return n, nil
}

// GetLineByID obtiene una línea de salida por ID.
func (r *DepartureRepo) GetLineByID(id string) (*entity.DepartureOrderLine, error) {
	query := `
		SELECT id, order_id, product_id, requested_quantity, dispatched_quantity
		FROM departure_order_lines WHERE id = $1`
	var l entity.DepartureOrderLine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.OrderID, &l.ProductID, &l.RequestedQuantity, &l.DispatchedQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get departure line: %w", err)
	}
	return &l, nil
}

// ListLinesByOrder lista las líneas de una orden de salida.
func (r *DepartureRepo) ListLinesByOrder(orderID string) ([]*entity.DepartureOrderLine, error) {
	query := `
		SELECT id, order_id, product_id, requested_quantity, dispatched_quantity
		FROM departure_order_lines WHERE order_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list departure lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.DepartureOrderLine
	for rows.Next() {
		var l entity.DepartureOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.RequestedQuantity, &l.DispatchedQuantity); err != nil {
			return nil, fmt.Errorf("scan departure line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// UpdateLine persiste la cantidad despachada acumulada.
func (r *DepartureRepo) UpdateLine(l *entity.DepartureOrderLine) error {
	query := `UPDATE departure_order_lines SET dispatched_quantity = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, l.ID, l.DispatchedQuantity)
	if err != nil {
		return fmt.Errorf("update departure line: %w", err)
	}
	return nil
}

// CreateReservation persiste una reserva congelada contra una asignación.
func (r *DepartureRepo) CreateReservation(da *entity.DepartureAllocation) error {
	query := `
		INSERT INTO departure_allocations
			(id, departure_line_id, allocation_id, reserved_quantity, status, created_by, created_at, dispatched_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.q.Exec(context.Background(), query,
		da.ID, da.DepartureLineID, da.AllocationID, da.ReservedQuantity,
		da.Status, da.CreatedBy, da.CreatedAt, da.DispatchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert departure allocation: %w", err)
	}
	return nil
}

// ListPendingByOrder lista las reservas PENDING de una orden.
func (r *DepartureRepo) ListPendingByOrder(orderID string) ([]*entity.DepartureAllocation, error) {
	query := `
		SELECT da.id, da.departure_line_id, da.allocation_id, da.reserved_quantity,
		       da.status, da.created_by, da.created_at, da.dispatched_at
		FROM departure_allocations da
		JOIN departure_order_lines l ON l.id = da.departure_line_id
		WHERE l.order_id = $1 AND da.status = 'PENDING'
		ORDER BY da.created_at ASC, da.id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}
	defer rows.Close()
	var out []*entity.DepartureAllocation
	for rows.Next() {
		var da entity.DepartureAllocation
		if err := rows.Scan(&da.ID, &da.DepartureLineID, &da.AllocationID, &da.ReservedQuantity,
			&da.Status, &da.CreatedBy, &da.CreatedAt, &da.DispatchedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, &da)
	}
	return out, rows.Err()
}

// SumPendingByAllocation suma las reservas PENDING sobre una asignación.
func (r *DepartureRepo) SumPendingByAllocation(allocationID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(reserved_quantity), 0)
		FROM departure_allocations
		WHERE allocation_id = $1 AND status = 'PENDING'`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, allocationID).Scan(&n); err != nil {
		return 0, fmt.Errorf("sum pending reservations: %w", err)
	}
	return n, nil
}

// UpdateReservation persiste estado y fecha de despacho de la reserva.
func (r *DepartureRepo) UpdateReservation(da *entity.DepartureAllocation) error {
	query := `UPDATE departure_allocations SET status = $2, dispatched_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, da.ID, da.Status, da.DispatchedAt)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}
