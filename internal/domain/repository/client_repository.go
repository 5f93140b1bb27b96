package repository

import (
	"context"

	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// GetByID devuelve (nil, nil) si no existe. Update devuelve domain.ErrNotFound si no existe;
// con cambios vacíos devuelve la fila actual.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, id int64, changes entity.ClientChanges) (*entity.Client, error)
	// Delete es idempotente: borrar un id inexistente no es error.
	// Las visitas del cliente se eliminan en cascada en el almacén.
	Delete(ctx context.Context, id int64) error
}
