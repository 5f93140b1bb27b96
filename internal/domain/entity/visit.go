package entity

import "time"

// VisitStatus estado de una visita (enumeración cerrada).
type VisitStatus string

// Valores de VisitStatus tal como viajan en la API.
const (
	VisitScheduled VisitStatus = "Agendada"
	VisitCompleted VisitStatus = "Concluída"
	VisitCancelled VisitStatus = "Cancelada"
)

// VisitStatuses lista los estados válidos en orden de presentación.
var VisitStatuses = []VisitStatus{VisitScheduled, VisitCompleted, VisitCancelled}

// Valid indica si el estado pertenece a la enumeración.
func (s VisitStatus) Valid() bool {
	switch s {
	case VisitScheduled, VisitCompleted, VisitCancelled:
		return true
	}
	return false
}

// Visit representa una visita agendada o realizada de un cliente.
// El nombre del cliente no se guarda aquí; se resuelve al leer (ver VisitWithClient).
type Visit struct {
	ID        int64
	ClientID  int64
	Date      time.Time
	Subject   string
	Status    VisitStatus
	CreatedAt time.Time
}

// MissingClientName texto mostrado cuando la visita referencia un cliente inexistente.
const MissingClientName = "Cliente não encontrado"

// VisitWithClient visita con el nombre actual de su cliente.
type VisitWithClient struct {
	Visit
	ClientName string
}

// VisitChanges conjunto de cambios a aplicar sobre una visita.
type VisitChanges struct {
	ClientID Optional[int64]
	Date     Optional[time.Time]
	Subject  Optional[string]
	Status   Optional[VisitStatus]
}

// Empty indica si no hay ningún campo a modificar.
func (c VisitChanges) Empty() bool {
	return !c.ClientID.Set && !c.Date.Set && !c.Subject.Set && !c.Status.Set
}
