package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
)

// VisitUseCase casos de uso CRUD para visitas.
type VisitUseCase struct {
	repo    repository.VisitRepository
	clients repository.ClientRepository
	loc     *time.Location
}

// NewVisitUseCase construye el caso de uso. loc es la zona usada para fechas sin zona horaria.
func NewVisitUseCase(repo repository.VisitRepository, clients repository.ClientRepository, loc *time.Location) *VisitUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &VisitUseCase{repo: repo, clients: clients, loc: loc}
}

// List lista todas las visitas (fecha descendente) con el nombre actual del cliente.
func (uc *VisitUseCase) List(ctx context.Context) ([]*dto.VisitListItem, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toVisitListItems(list), nil
}

// ListByClient lista las visitas de un cliente. domain.ErrNotFound si el cliente no existe.
func (uc *VisitUseCase) ListByClient(ctx context.Context, clientID int64) ([]*dto.VisitListItem, error) {
	c, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toVisitListItems(list), nil
}

// Create valida y crea una visita.
func (uc *VisitUseCase) Create(ctx context.Context, in dto.VisitPatch) (*dto.VisitResponse, error) {
	if !in.ClientID.HasValue() || in.ClientID.Value <= 0 {
		return nil, domain.NewValidationError("client_id", "es requerido")
	}
	if !in.Date.HasValue() {
		return nil, domain.NewValidationError("date", "es requerida")
	}
	date, ok := ParseVisitDate(in.Date.Value, uc.loc)
	if !ok {
		return nil, domain.NewValidationError("date", "formato inválido")
	}
	if !in.Subject.HasValue() || strings.TrimSpace(in.Subject.Value) == "" {
		return nil, domain.NewValidationError("subject", "es requerido")
	}
	if !in.Status.HasValue() || !in.Status.Value.Valid() {
		return nil, domain.NewValidationError("status", statusReason())
	}
	visit := &entity.Visit{
		ClientID: in.ClientID.Value,
		Date:     date,
		Subject:  in.Subject.Value,
		Status:   in.Status.Value,
	}
	if err := uc.repo.Create(ctx, visit); err != nil {
		return nil, err
	}
	return toVisitResponse(visit), nil
}

// Update valida los campos presentes y actualiza solo esos.
// Devuelve domain.ErrNotFound si la visita no existe.
func (uc *VisitUseCase) Update(ctx context.Context, id int64, in dto.VisitPatch) (*dto.VisitResponse, error) {
	var changes entity.VisitChanges
	if in.ClientID.Set {
		if in.ClientID.Null || in.ClientID.Value <= 0 {
			return nil, domain.NewValidationError("client_id", "debe referenciar un cliente")
		}
		changes.ClientID = in.ClientID
	}
	if in.Date.Set {
		if in.Date.Null {
			return nil, domain.NewValidationError("date", "no puede ser null")
		}
		date, ok := ParseVisitDate(in.Date.Value, uc.loc)
		if !ok {
			return nil, domain.NewValidationError("date", "formato inválido")
		}
		changes.Date = entity.Some(date)
	}
	if in.Subject.Set {
		if in.Subject.Null || strings.TrimSpace(in.Subject.Value) == "" {
			return nil, domain.NewValidationError("subject", "no puede quedar vacío")
		}
		changes.Subject = in.Subject
	}
	if in.Status.Set {
		if in.Status.Null || !in.Status.Value.Valid() {
			return nil, domain.NewValidationError("status", statusReason())
		}
		changes.Status = in.Status
	}
	v, err := uc.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return toVisitResponse(v), nil
}

// Delete elimina una visita. Idempotente.
func (uc *VisitUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func statusReason() string {
	names := make([]string, 0, len(entity.VisitStatuses))
	for _, s := range entity.VisitStatuses {
		names = append(names, string(s))
	}
	return "debe ser uno de: " + strings.Join(names, ", ")
}

func toVisitResponse(v *entity.Visit) *dto.VisitResponse {
	if v == nil {
		return nil
	}
	return &dto.VisitResponse{
		ID:        v.ID,
		ClientID:  v.ClientID,
		Date:      v.Date.UTC(),
		Subject:   v.Subject,
		Status:    v.Status,
		CreatedAt: v.CreatedAt.UTC(),
	}
}

func toVisitListItems(list []*entity.VisitWithClient) []*dto.VisitListItem {
	out := make([]*dto.VisitListItem, 0, len(list))
	for _, v := range list {
		out = append(out, &dto.VisitListItem{
			VisitResponse: *toVisitResponse(&v.Visit),
			ClientName:    v.ClientName,
		})
	}
	return out
}
