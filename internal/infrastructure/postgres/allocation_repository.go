package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository sobre PostgreSQL
// (usable con pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `
	id, entry_line_id, client_id, product_id, cell_id, lot_number,
	expiration_date, received_at, origin,
	initial_quantity, initial_packages, initial_weight, initial_volume,
	remaining_quantity, remaining_packages, remaining_weight, remaining_volume,
	quality_status, lifecycle_status, created_at, updated_at`

func scanAllocation(row pgx.Row) (*entity.Allocation, error) {
	var a entity.Allocation
	err := row.Scan(
		&a.ID, &a.EntryLineID, &a.ClientID, &a.ProductID, &a.CellID, &a.LotNumber,
		&a.ExpirationDate, &a.ReceivedAt, &a.Origin,
		&a.Initial.Quantity, &a.Initial.Packages, &a.Initial.Weight, &a.Initial.Volume,
		&a.Remaining.Quantity, &a.Remaining.Packages, &a.Remaining.Weight, &a.Remaining.Volume,
		&a.QualityStatus, &a.LifecycleStatus, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una asignación nueva.
func (r *AllocationRepo) Create(a *entity.Allocation) error {
	query := `
		INSERT INTO allocations (` + allocationColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.EntryLineID, a.ClientID, a.ProductID, a.CellID, a.LotNumber,
		a.ExpirationDate, a.ReceivedAt, a.Origin,
		a.Initial.Quantity, a.Initial.Packages, a.Initial.Weight, a.Initial.Volume,
		a.Remaining.Quantity, a.Remaining.Packages, a.Remaining.Weight, a.Remaining.Volume,
		a.QualityStatus, a.LifecycleStatus, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID.
func (r *AllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`
	a, err := scanAllocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// GetForUpdate obtiene la asignación y bloquea la fila (SELECT FOR UPDATE).
func (r *AllocationRepo) GetForUpdate(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1 FOR UPDATE`
	a, err := scanAllocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation for update: %w", err)
	}
	return a, nil
}

// Update persiste los campos mutables de la asignación.
func (r *AllocationRepo) Update(a *entity.Allocation) error {
	query := `
		UPDATE allocations SET
			cell_id = $2,
			remaining_quantity = $3, remaining_packages = $4,
			remaining_weight = $5, remaining_volume = $6,
			quality_status = $7, lifecycle_status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.CellID,
		a.Remaining.Quantity, a.Remaining.Packages, a.Remaining.Weight, a.Remaining.Volume,
		a.QualityStatus, a.LifecycleStatus, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	return nil
}

// SumAllocatedByEntryLine suma la huella inicial de las asignaciones de
// origen RECEIPT de una línea.
func (r *AllocationRepo) SumAllocatedByEntryLine(lineID string) (entity.Footprint, error) {
	query := `
		SELECT COALESCE(SUM(initial_quantity), 0), COALESCE(SUM(initial_packages), 0),
		       COALESCE(SUM(initial_weight), 0), COALESCE(SUM(initial_volume), 0)
		FROM allocations WHERE entry_line_id = $1 AND origin = 'RECEIPT'`
	var fp entity.Footprint
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&fp.Quantity, &fp.Packages, &fp.Weight, &fp.Volume,
	)
	if err != nil {
		return entity.Footprint{}, fmt.Errorf("sum allocated by line: %w", err)
	}
	return fp, nil
}

// ListSelectableByProduct devuelve candidatas FIFO ya ordenadas: vencimiento
// ascendente (NULL al final), recepción ascendente, ID como desempate.
func (r *AllocationRepo) ListSelectableByProduct(productID string, clientIDs []string) ([]*entity.Allocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM allocations
		WHERE product_id = $1 AND quality_status = 'APPROVED'
		  AND lifecycle_status = 'ACTIVE' AND remaining_quantity > 0`
	args := []any{productID}
	if clientIDs != nil {
		query += ` AND client_id = ANY($2)`
		args = append(args, clientIDs)
	}
	query += ` ORDER BY expiration_date ASC NULLS LAST, received_at ASC, id ASC`
	return r.list(query, args...)
}

// ListByProductAndQuality vista de lectura por producto y estado de calidad.
func (r *AllocationRepo) ListByProductAndQuality(productID, quality string, clientIDs []string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if quality != "" {
		query += fmt.Sprintf(" AND quality_status = $%d", pos)
		args = append(args, quality)
		pos++
	}
	if clientIDs != nil {
		query += fmt.Sprintf(" AND client_id = ANY($%d)", pos)
		args = append(args, clientIDs)
	}
	query += ` ORDER BY created_at ASC, id ASC`
	return r.list(query, args...)
}

// ListByCell vista de lectura por celda.
func (r *AllocationRepo) ListByCell(cellID string, clientIDs []string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE cell_id = $1`
	args := []any{cellID}
	if clientIDs != nil {
		query += ` AND client_id = ANY($2)`
		args = append(args, clientIDs)
	}
	query += ` ORDER BY created_at ASC, id ASC`
	return r.list(query, args...)
}

func (r *AllocationRepo) list(query string, args ...any) ([]*entity.Allocation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
