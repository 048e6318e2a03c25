package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación del registro de auditoría sobre PostgreSQL.
// Solo append: no hay Update ni Delete.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const auditColumns = `
	id, transaction_id, kind, actor_id, allocation_id, product_id, cell_id,
	quantity, delta, from_status, to_status, reason, created_at`

func scanAudit(row pgx.Row) (*entity.AuditLogEntry, error) {
	var e entity.AuditLogEntry
	err := row.Scan(
		&e.ID, &e.TransactionID, &e.Kind, &e.ActorID, &e.AllocationID,
		&e.ProductID, &e.CellID, &e.Quantity, &e.Delta,
		&e.FromStatus, &e.ToStatus, &e.Reason, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create agrega un registro de auditoría.
func (r *AuditLogRepo) Create(e *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (` + auditColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TransactionID, e.Kind, e.ActorID, e.AllocationID,
		e.ProductID, e.CellID, e.Quantity, e.Delta,
		e.FromStatus, e.ToStatus, e.Reason, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByProduct lista la historia de un producto, más reciente primero.
func (r *AuditLogRepo) ListByProduct(productID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_log
		WHERE product_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

// ListByCell lista la historia de una celda, más reciente primero.
func (r *AuditLogRepo) ListByCell(cellID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_log
		WHERE cell_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(query, cellID, limit, offset)
}

// ListByAllocation lista la historia completa de una asignación, en orden.
func (r *AuditLogRepo) ListByAllocation(allocationID string) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_log
		WHERE allocation_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(query, allocationID)
}

func (r *AuditLogRepo) list(query string, args ...any) ([]*entity.AuditLogEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.AuditLogEntry
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
