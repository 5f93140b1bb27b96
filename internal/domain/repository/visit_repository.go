package repository

import (
	"context"

	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// VisitRepository define el puerto de persistencia para Visit.
type VisitRepository interface {
	// Create devuelve domain.ErrClientNotFound si ClientID no referencia un cliente.
	Create(ctx context.Context, visit *entity.Visit) error
	// List ordena por fecha descendente e incluye el nombre actual del cliente.
	List(ctx context.Context) ([]*entity.VisitWithClient, error)
	ListByClient(ctx context.Context, clientID int64) ([]*entity.VisitWithClient, error)
	// Update: mismas reglas que ClientRepository.Update.
	Update(ctx context.Context, id int64, changes entity.VisitChanges) (*entity.Visit, error)
	Delete(ctx context.Context, id int64) error
}
