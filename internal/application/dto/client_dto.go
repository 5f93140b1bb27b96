package dto

import (
	"time"

	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// ClientPatch body para POST /api/clients y PUT /api/clients/:id.
// Distingue campo ausente, null y valor; en POST ausente equivale a null.
type ClientPatch struct {
	Name    entity.Optional[string]         `json:"name,omitzero"`
	Phone   entity.Optional[string]         `json:"phone,omitzero"`
	Email   entity.Optional[string]         `json:"email,omitzero"`
	CPF     entity.Optional[string]         `json:"cpf,omitzero"`
	Address entity.Optional[entity.Address] `json:"address,omitzero"`
}

// ClientResponse cliente en respuestas. Los opcionales ausentes se serializan como null.
type ClientResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     *string         `json:"phone"`
	Email     *string         `json:"email"`
	CPF       *string         `json:"cpf"`
	Address   *entity.Address `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
}
