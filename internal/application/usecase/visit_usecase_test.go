package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/infrastructure/memory"
)

func newVisitFixture(t *testing.T) (*ClientUseCase, *VisitUseCase, int64) {
	t.Helper()
	store := memory.NewStore()
	clients := NewClientUseCase(store.Clients())
	visits := NewVisitUseCase(store.Visits(), store.Clients(), time.UTC)
	c, err := clients.Create(context.Background(), dto.ClientPatch{Name: entity.Some("Ana")})
	require.NoError(t, err)
	return clients, visits, c.ID
}

func validVisit(clientID int64) dto.VisitPatch {
	return dto.VisitPatch{
		ClientID: entity.Some(clientID),
		Date:     entity.Some("2024-05-01T10:00"),
		Subject:  entity.Some("Revisión"),
		Status:   entity.Some(entity.VisitScheduled),
	}
}

func TestVisitUseCase_CreateYListado(t *testing.T) {
	ctx := context.Background()
	_, visits, clientID := newVisitFixture(t)

	v, err := visits.Create(ctx, validVisit(clientID))
	require.NoError(t, err)
	assert.Equal(t, clientID, v.ClientID)
	assert.True(t, v.Date.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	list, err := visits.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].ClientName)
	assert.Equal(t, v.ID, list[0].ID)
}

func TestVisitUseCase_CreateValidacion(t *testing.T) {
	_, visits, clientID := newVisitFixture(t)

	tests := []struct {
		field  string
		mutate func(p *dto.VisitPatch)
	}{
		{"client_id", func(p *dto.VisitPatch) { p.ClientID = entity.Optional[int64]{} }},
		{"client_id", func(p *dto.VisitPatch) { p.ClientID = entity.Some(int64(0)) }},
		{"date", func(p *dto.VisitPatch) { p.Date = entity.Null[string]() }},
		{"date", func(p *dto.VisitPatch) { p.Date = entity.Some("ayer") }},
		{"subject", func(p *dto.VisitPatch) { p.Subject = entity.Some(" ") }},
		{"status", func(p *dto.VisitPatch) { p.Status = entity.Some(entity.VisitStatus("Pendiente")) }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := validVisit(clientID)
			tt.mutate(&in)
			_, err := visits.Create(context.Background(), in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestVisitUseCase_ClienteInexistente(t *testing.T) {
	_, visits, clientID := newVisitFixture(t)

	_, err := visits.Create(context.Background(), validVisit(clientID+100))
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = visits.ListByClient(context.Background(), clientID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVisitUseCase_UpdateParcial(t *testing.T) {
	ctx := context.Background()
	_, visits, clientID := newVisitFixture(t)
	v, err := visits.Create(ctx, validVisit(clientID))
	require.NoError(t, err)

	updated, err := visits.Update(ctx, v.ID, dto.VisitPatch{Status: entity.Some(entity.VisitCompleted)})
	require.NoError(t, err)
	assert.Equal(t, entity.VisitCompleted, updated.Status)
	assert.Equal(t, "Revisión", updated.Subject)
	assert.True(t, updated.Date.Equal(v.Date))

	updated, err = visits.Update(ctx, v.ID, dto.VisitPatch{Date: entity.Some("2024-06-01T08:30:00-03:00")})
	require.NoError(t, err)
	assert.True(t, updated.Date.Equal(time.Date(2024, 6, 1, 11, 30, 0, 0, time.UTC)))

	_, err = visits.Update(ctx, v.ID, dto.VisitPatch{Status: entity.Null[entity.VisitStatus]()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = visits.Update(ctx, v.ID+1, dto.VisitPatch{Subject: entity.Some("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVisitUseCase_BorrarClienteBorraVisitas(t *testing.T) {
	ctx := context.Background()
	clients, visits, clientID := newVisitFixture(t)
	_, err := visits.Create(ctx, validVisit(clientID))
	require.NoError(t, err)

	require.NoError(t, clients.Delete(ctx, clientID))

	list, err := visits.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
