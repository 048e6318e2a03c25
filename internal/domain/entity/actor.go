package entity

// Roles de usuario reconocidos por el backend.
const (
	RoleAdmin     = "admin"
	RoleWarehouse = "almacenista"
	RoleClient    = "cliente"
)

// Actor es la identidad ya resuelta que ejecuta una operación. El núcleo
// no define políticas de autorización: solo consume el actor y su alcance.
type Actor struct {
	UserID    string
	Role      string
	ClientIDs []string // clientes asignados (solo relevante para rol cliente)
}

// Scope devuelve el filtro de alcance del actor.
func (a Actor) Scope() ScopeFilter {
	return ScopeFilter{Role: a.Role, AllowedClientIDs: a.ClientIDs}
}

// ScopeFilter es el valor explícito de alcance que se pasa a cada operación
// del núcleo, en lugar de ramificar por nombre de rol dentro de las consultas.
type ScopeFilter struct {
	Role             string
	AllowedClientIDs []string
}

// Restricted indica si el filtro limita por cliente.
func (s ScopeFilter) Restricted() bool {
	return s.Role == RoleClient
}

// AllowsClient indica si el alcance cubre al cliente dado.
func (s ScopeFilter) AllowsClient(clientID string) bool {
	if !s.Restricted() {
		return true
	}
	for _, id := range s.AllowedClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// AllowsCell indica si el alcance cubre la celda: las celdas asignadas a un
// cliente solo son operables por actores con ese cliente en su alcance.
func (s ScopeFilter) AllowsCell(c *Cell) bool {
	if !s.Restricted() {
		return true
	}
	if c.AssignedClientID == "" {
		return false
	}
	return s.AllowsClient(c.AssignedClientID)
}

// ClientFilter devuelve la lista de clientes a filtrar en consultas;
// nil significa sin restricción.
func (s ScopeFilter) ClientFilter() []string {
	if !s.Restricted() {
		return nil
	}
	return s.AllowedClientIDs
}
