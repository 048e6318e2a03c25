package dto

import (
	"time"

	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// InventoryRecordResponse saldo derivado por (producto, celda, estado).
type InventoryRecordResponse struct {
	ProductID string       `json:"product_id"`
	CellID    string       `json:"cell_id"`
	Status    string       `json:"status"`
	Balance   FootprintDTO `json:"balance"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewInventoryRecordResponses mapea los registros a sus DTO.
func NewInventoryRecordResponses(recs []*entity.InventoryRecord) []InventoryRecordResponse {
	out := make([]InventoryRecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, InventoryRecordResponse{
			ProductID: rec.ProductID,
			CellID:    rec.CellID,
			Status:    rec.Status,
			Balance:   NewFootprintDTO(rec.Balance),
			UpdatedAt: rec.UpdatedAt,
		})
	}
	return out
}

// AuditEntryResponse un registro del historial de auditoría.
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	ActorID       string    `json:"actor_id"`
	AllocationID  string    `json:"allocation_id"`
	ProductID     string    `json:"product_id"`
	CellID        string    `json:"cell_id"`
	Quantity      int64     `json:"quantity"`
	Delta         int64     `json:"delta"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewAuditEntryResponses mapea los registros de auditoría a sus DTO.
func NewAuditEntryResponses(es []*entity.AuditLogEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(es))
	for _, e := range es {
		out = append(out, AuditEntryResponse{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Kind:          e.Kind,
			ActorID:       e.ActorID,
			AllocationID:  e.AllocationID,
			ProductID:     e.ProductID,
			CellID:        e.CellID,
			Quantity:      e.Quantity,
			Delta:         e.Delta,
			FromStatus:    e.FromStatus,
			ToStatus:      e.ToStatus,
			Reason:        e.Reason,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out
}
