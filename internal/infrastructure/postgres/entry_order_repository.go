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

var _ repository.EntryOrderRepository = (*EntryOrderRepo)(nil)

// EntryOrderRepo implementación de EntryOrderRepository sobre PostgreSQL.
type EntryOrderRepo struct {
	q Querier
}

// NewEntryOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntryOrderRepository(q Querier) *EntryOrderRepo {
	return &EntryOrderRepo{q: q}
}

// CreateOrder persiste la orden con todas sus líneas en la tx del caller.
func (r *EntryOrderRepo) CreateOrder(o *entity.EntryOrder, lines []*entity.EntryOrderLine) error {
	query := `
		INSERT INTO entry_orders (id, order_no, client_id, status, observation, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.OrderNo, o.ClientID, o.Status, o.Observation, o.CreatedBy, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert entry order: %w", err)
	}
	lineQuery := `
		INSERT INTO entry_order_lines
			(id, order_id, product_id, lot_number, expiration_date, quantity, packages, weight, volume, received_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	for _, l := range lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.OrderID, l.ProductID, l.LotNumber, l.ExpirationDate,
			l.Quantity, l.Packages, l.Weight, l.Volume, l.ReceivedAt,
		)
		if err != nil {
			return fmt.Errorf("insert entry order line: %w", err)
		}
	}
	return nil
}

// GetOrderByID obtiene una orden por ID.
func (r *EntryOrderRepo) GetOrderByID(id string) (*entity.EntryOrder, error) {
	query := `
		SELECT id, order_no, client_id, status, observation, created_by, created_at, updated_at
		FROM entry_orders WHERE id = $1`
	var o entity.EntryOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.OrderNo, &o.ClientID, &o.Status, &o.Observation, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry order: %w", err)
	}
	return &o, nil
}

// UpdateOrderStatus cambia el estado de la orden.
func (r *EntryOrderRepo) UpdateOrderStatus(id, status string) error {
	query := `UPDATE entry_orders SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update entry order status: %w", err)
	}
	return nil
}

const entryLineColumns = `
	id, order_id, product_id, lot_number, expiration_date, quantity, packages, weight, volume, received_at`

func scanEntryLine(row pgx.Row) (*entity.EntryOrderLine, error) {
	var l entity.EntryOrderLine
	err := row.Scan(
		&l.ID, &l.OrderID, &l.ProductID, &l.LotNumber, &l.ExpirationDate,
		&l.Quantity, &l.Packages, &l.Weight, &l.Volume, &l.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLineByID obtiene una línea de ingreso por ID.
func (r *EntryOrderRepo) GetLineByID(id string) (*entity.EntryOrderLine, error) {
	query := `SELECT ` + entryLineColumns + ` FROM entry_order_lines WHERE id = $1`
	l, err := scanEntryLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry line: %w", err)
	}
	return l, nil
}

// ListLinesByOrder lista las líneas de una orden.
func (r *EntryOrderRepo) ListLinesByOrder(orderID string) ([]*entity.EntryOrderLine, error) {
	query := `SELECT ` + entryLineColumns + ` FROM entry_order_lines WHERE order_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list entry lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.EntryOrderLine
	for rows.Next() {
		l, err := scanEntryLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListOrdersByClient lista órdenes visibles; clientIDs nil = todas.
func (r *EntryOrderRepo) ListOrdersByClient(clientIDs []string, limit, offset int) ([]*entity.EntryOrder, error) {
	query := `
		SELECT id, order_no, client_id, status, observation, created_by, created_at, updated_at
		FROM entry_orders`
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
		return nil, fmt.Errorf("list entry orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.EntryOrder
	for rows.Next() {
		var o entity.EntryOrder
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.ClientID, &o.Status, &o.Observation,
			&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// CountOrdersByYear cuenta órdenes creadas en el año, para numeración serial.
func (r *EntryOrderRepo) CountOrdersByYear(year int) (int64, error) {
	query := `SELECT COUNT(*) FROM entry_orders WHERE EXTRACT(YEAR FROM created_at) = $1`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entry orders: %w", err)
	}
	return n, nil
}
