package console_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-api/internal/application/console"
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/agenda-api/internal/interfaces/http"
	"github.com/jhoicas/agenda-api/pkg/apiclient"
)

func newSession(t *testing.T) *console.Session {
	t.Helper()
	store := memory.NewStore()
	app := apphttp.NewApp(apphttp.AppConfig{Name: "agenda-test"})
	apphttp.Router(app, apphttp.RouterDeps{
		ClientUC: usecase.NewClientUseCase(store.Clients()),
		VisitUC:  usecase.NewVisitUseCase(store.Visits(), store.Clients(), time.UTC),
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return console.NewSession(apiclient.New(srv.URL+"/api"), nil)
}

func TestSession_FlujoCompleto(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Load(ctx))
	assert.Empty(t, s.Cache().Clients())
	assert.False(t, s.Cache().LoadedAt().IsZero())

	form := console.NewClientForm(nil)
	form.Name = "Ana"
	form.Email = "ana@x.com"
	require.NoError(t, s.SaveClient(ctx, form))

	clients := s.Cache().Clients()
	require.Len(t, clients, 1)
	assert.Nil(t, clients[0].Phone, "el servidor guarda los vacíos como null")
	assert.Nil(t, clients[0].Address)

	for _, d := range []string{"2024-01-01T09:00", "2024-03-01T09:00", "2024-02-01T09:00"} {
		vf := console.NewVisitForm(nil, clients, 0, time.Now(), time.UTC)
		vf.Date = d
		vf.Subject = "Revisión"
		require.NoError(t, s.SaveVisit(ctx, vf))
	}
	visits := s.Cache().Visits()
	require.Len(t, visits, 3)
	assert.Equal(t, time.March, visits[0].Date.Month())
	assert.Equal(t, time.January, visits[2].Date.Month())
	assert.Equal(t, "Ana", visits[0].ClientName)

	edit := console.NewVisitForm(&visits[0], clients, 0, time.Now(), time.UTC)
	edit.Status = entity.VisitCompleted
	require.NoError(t, s.SaveVisit(ctx, edit))
	v, ok := s.Cache().Visit(visits[0].ID)
	require.True(t, ok)
	assert.Equal(t, entity.VisitCompleted, v.Status)

	require.NoError(t, s.DeleteVisit(ctx, visits[2].ID, nil))
	assert.Len(t, s.Cache().Visits(), 2)

	require.NoError(t, s.DeleteClient(ctx, clients[0].ID, func(string, string) bool { return true }))
	assert.Empty(t, s.Cache().Clients())
	assert.Empty(t, s.Cache().Visits())
}

func TestSession_CancelarEliminacion(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	form := console.NewClientForm(nil)
	form.Name = "Ana"
	require.NoError(t, s.SaveClient(ctx, form))
	id := s.Cache().Clients()[0].ID

	err := s.DeleteClient(ctx, id, func(string, string) bool { return false })
	assert.ErrorIs(t, err, console.ErrCancelled)
	assert.Len(t, s.Cache().Clients(), 1)

	_, err = s.Log().Report()
	assert.ErrorIs(t, err, console.ErrLastCancelled)

	assert.ErrorIs(t, s.DeleteClient(ctx, id+100, nil), console.ErrUnknownID)
}

func TestSession_VisitaSinCliente(t *testing.T) {
	s := newSession(t)
	before := len(s.Log().Entries())

	err := s.SaveVisit(context.Background(), console.NewVisitForm(nil, nil, 0, time.Now(), nil))
	assert.ErrorIs(t, err, console.ErrNoClientSelected)

	entries := s.Log().Entries()
	require.Len(t, entries, before+1)
	assert.Equal(t, console.LevelWarn, entries[0].Level)
}

func TestSession_ErrorDeGuardadoQuedaEnElLog(t *testing.T) {
	s := newSession(t)

	err := s.SaveClient(context.Background(), console.NewClientForm(nil))
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION", apiErr.Code)

	last, ok := s.Log().Last()
	require.True(t, ok)
	assert.Equal(t, console.LevelError, last.Level)
	report, err := s.Log().Report()
	require.NoError(t, err)
	assert.Contains(t, report, "'Agregar cliente'")
}

// failingAPI falla al listar visitas; el resto no se usa.
type failingAPI struct {
	console.API
	clients []dto.ClientResponse
}

func (f failingAPI) ListClients(context.Context) ([]dto.ClientResponse, error) { return f.clients, nil }

func (failingAPI) ListVisits(context.Context) ([]dto.VisitListItem, error) {
	return nil, errors.New("connection refused")
}

func TestSession_CargaFallidaNoTocaLaCache(t *testing.T) {
	s := console.NewSession(failingAPI{clients: []dto.ClientResponse{{ID: 1, Name: "Ana"}}}, nil)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, s.Cache().Clients())
	assert.True(t, s.Cache().LoadedAt().IsZero())

	last, _ := s.Log().Last()
	assert.Equal(t, console.LevelError, last.Level)
	assert.Equal(t, "connection refused", last.Details)
}
