package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// List lista todos los clientes ordenados por nombre.
func (uc *ClientUseCase) List(ctx context.Context) ([]*dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// GetByID obtiene un cliente. Devuelve (nil, nil) si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Create sanea el payload, valida el nombre y crea el cliente.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientPatch) (*dto.ClientResponse, error) {
	in = SanitizeClientPatch(in)
	if !in.Name.HasValue() || strings.TrimSpace(in.Name.Value) == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	client := &entity.Client{
		Name:    in.Name.Value,
		Phone:   in.Phone.Ptr(),
		Email:   in.Email.Ptr(),
		CPF:     in.CPF.Ptr(),
		Address: in.Address.Ptr(),
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Update sanea el payload y actualiza solo los campos presentes.
// Devuelve domain.ErrNotFound si el cliente no existe.
func (uc *ClientUseCase) Update(ctx context.Context, id int64, in dto.ClientPatch) (*dto.ClientResponse, error) {
	in = SanitizeClientPatch(in)
	if in.Name.Set && (in.Name.Null || strings.TrimSpace(in.Name.Value) == "") {
		return nil, domain.NewValidationError("name", "no puede quedar vacío")
	}
	changes := entity.ClientChanges{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		CPF:     in.CPF,
		Address: in.Address,
	}
	c, err := uc.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Delete elimina el cliente y, en cascada, sus visitas. Idempotente.
func (uc *ClientUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CPF:       c.CPF,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.UTC(),
	}
}
