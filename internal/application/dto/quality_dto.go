package dto

import "github.com/farmadepot/bodega-api/internal/domain/entity"

// QualityTransitionRequest body para POST /api/allocations/:id/transition.
// new_cell_id vacío deja la mercadería en su celda actual.
type QualityTransitionRequest struct {
	ToStatus  string `json:"to_status" validate:"required,oneof=APPROVED RETURNS SAMPLES REJECTED"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	NewCellID string `json:"new_cell_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// QualityTransitionResponse salida de una transición: la asignación
// actualizada y, si hubo split parcial, la rama nueva.
type QualityTransitionResponse struct {
	Updated AllocationResponse  `json:"updated"`
	Branch  *AllocationResponse `json:"branch,omitempty"`
}

// NewQualityTransitionResponse mapea el resultado de la transición.
func NewQualityTransitionResponse(updated, branch *entity.Allocation) QualityTransitionResponse {
	res := QualityTransitionResponse{Updated: NewAllocationResponse(updated)}
	if branch != nil {
		b := NewAllocationResponse(branch)
		res.Branch = &b
	}
	return res
}
