package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL de la vista derivada
// por (producto, celda, estado).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `
	product_id, cell_id, status, quantity, packages, weight, volume, updated_at`

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ProductID, &rec.CellID, &rec.Status,
		&rec.Balance.Quantity, &rec.Balance.Packages, &rec.Balance.Weight, &rec.Balance.Volume,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get obtiene el registro para (producto, celda, estado); nil si no existe.
func (r *InventoryRecordRepo) Get(productID, cellID, status string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE product_id = $1 AND cell_id = $2 AND status = $3`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, productID, cellID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE);
// nil si no existe (el Upsert posterior la crea).
func (r *InventoryRecordRepo) GetForUpdate(productID, cellID, status string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE product_id = $1 AND cell_id = $2 AND status = $3
		FOR UPDATE`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, productID, cellID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return rec, nil
}

// Upsert inserta o actualiza el saldo del registro.
func (r *InventoryRecordRepo) Upsert(rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (product_id, cell_id, status, quantity, packages, weight, volume, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id, cell_id, status)
		DO UPDATE SET quantity = EXCLUDED.quantity, packages = EXCLUDED.packages,
		              weight = EXCLUDED.weight, volume = EXCLUDED.volume,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		rec.ProductID, rec.CellID, rec.Status,
		rec.Balance.Quantity, rec.Balance.Packages, rec.Balance.Weight, rec.Balance.Volume,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// ListByCell lista los saldos de una celda.
func (r *InventoryRecordRepo) ListByCell(cellID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE cell_id = $1 ORDER BY product_id ASC, status ASC`
	return r.list(query, cellID)
}

// ListByProduct lista los saldos de un producto en todas las celdas.
func (r *InventoryRecordRepo) ListByProduct(productID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE product_id = $1 ORDER BY cell_id ASC, status ASC`
	return r.list(query, productID)
}

func (r *InventoryRecordRepo) list(query string, args ...any) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
