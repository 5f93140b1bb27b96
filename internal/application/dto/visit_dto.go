package dto

import (
	"time"

	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// VisitPatch body para POST /api/visits y PUT /api/visits/:id.
// Date acepta RFC 3339 o el formato datetime-local del navegador (2006-01-02T15:04).
type VisitPatch struct {
	ClientID entity.Optional[int64]              `json:"client_id,omitzero"`
	Date     entity.Optional[string]             `json:"date,omitzero"`
	Subject  entity.Optional[string]             `json:"subject,omitzero"`
	Status   entity.Optional[entity.VisitStatus] `json:"status,omitzero"`
}

// VisitResponse visita en respuestas de creación y actualización.
type VisitResponse struct {
	ID        int64              `json:"id"`
	ClientID  int64              `json:"client_id"`
	Date      time.Time          `json:"date"`
	Subject   string             `json:"subject"`
	Status    entity.VisitStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// VisitListItem visita en listados, con el nombre actual del cliente.
type VisitListItem struct {
	VisitResponse
	ClientName string `json:"clientName"`
}
