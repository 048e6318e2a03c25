package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

var _ repository.CellRepository = (*CellRepo)(nil)

// CellRepo implementación de CellRepository sobre PostgreSQL (usable con
// pool o tx).
type CellRepo struct {
	q Querier
}

// NewCellRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCellRepository(q Querier) *CellRepo {
	return &CellRepo{q: q}
}

const cellColumns = `
	id, warehouse_id, cell_row, bay, position, role, is_passage,
	assigned_client_id, capacity_quantity, capacity_weight,
	used_quantity, used_packages, used_weight, used_volume,
	status, created_at, updated_at`

func scanCell(row pgx.Row) (*entity.Cell, error) {
	var c entity.Cell
	var assignedClient *string
	err := row.Scan(
		&c.ID, &c.WarehouseID, &c.Row, &c.Bay, &c.Position, &c.Role, &c.IsPassage,
		&assignedClient, &c.CapacityQuantity, &c.CapacityWeight,
		&c.CurrentUsage.Quantity, &c.CurrentUsage.Packages, &c.CurrentUsage.Weight, &c.CurrentUsage.Volume,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignedClient != nil {
		c.AssignedClientID = *assignedClient
	}
	return &c, nil
}

// Create persiste una celda nueva. La dupla (bodega, fila, columna,
// posición) es única.
func (r *CellRepo) Create(c *entity.Cell) error {
	query := `
		INSERT INTO cells (` + cellColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	assignedClient := (*string)(nil)
	if c.AssignedClientID != "" {
		assignedClient = &c.AssignedClientID
	}
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.WarehouseID, c.Row, c.Bay, c.Position, c.Role, c.IsPassage,
		assignedClient, c.CapacityQuantity, c.CapacityWeight,
		c.CurrentUsage.Quantity, c.CurrentUsage.Packages, c.CurrentUsage.Weight, c.CurrentUsage.Volume,
		c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cell: %w", err)
	}
	return nil
}

// GetByID obtiene una celda por ID.
func (r *CellRepo) GetByID(id string) (*entity.Cell, error) {
	query := `SELECT ` + cellColumns + ` FROM cells WHERE id = $1`
	c, err := scanCell(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene la celda y bloquea la fila (SELECT FOR UPDATE).
func (r *CellRepo) GetForUpdate(id string) (*entity.Cell, error) {
	query := `SELECT ` + cellColumns + ` FROM cells WHERE id = $1 FOR UPDATE`
	c, err := scanCell(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell for update: %w", err)
	}
	return c, nil
}

// Update persiste ocupación y estado de la celda.
func (r *CellRepo) Update(c *entity.Cell) error {
	query := `
		UPDATE cells SET
			used_quantity = $2, used_packages = $3, used_weight = $4, used_volume = $5,
			status = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID,
		c.CurrentUsage.Quantity, c.CurrentUsage.Packages, c.CurrentUsage.Weight, c.CurrentUsage.Volume,
		c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cell: %w", err)
	}
	return nil
}

// ListByWarehouse lista celdas de una bodega ordenadas por posición física.
func (r *CellRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Cell, error) {
	query := `
		SELECT ` + cellColumns + `
		FROM cells WHERE warehouse_id = $1
		ORDER BY cell_row ASC, bay ASC, position ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cells: %w", err)
	}
	defer rows.Close()
	var out []*entity.Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
