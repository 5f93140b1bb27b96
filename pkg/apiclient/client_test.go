package apiclient_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/agenda-api/internal/interfaces/http"
	"github.com/jhoicas/agenda-api/pkg/apiclient"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	app := apphttp.NewApp(apphttp.AppConfig{Name: "agenda-test"})
	apphttp.Router(app, apphttp.RouterDeps{
		ClientUC: usecase.NewClientUseCase(store.Clients()),
		VisitUC:  usecase.NewVisitUseCase(store.Visits(), store.Clients(), time.UTC),
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CicloCompleto(t *testing.T) {
	srv := newServer(t)
	var calls []apiclient.Call
	c := apiclient.New(srv.URL+"/api/", apiclient.WithObserver(func(call apiclient.Call) {
		calls = append(calls, call)
	}))
	ctx := context.Background()

	ana, err := c.CreateClient(ctx, dto.ClientPatch{Name: entity.Some("Ana"), Phone: entity.Some("")})
	require.NoError(t, err)
	assert.Nil(t, ana.Phone)

	v, err := c.CreateVisit(ctx, dto.VisitPatch{
		ClientID: entity.Some(ana.ID),
		Date:     entity.Some("2024-05-01T10:00"),
		Subject:  entity.Some("Revisión"),
		Status:   entity.Some(entity.VisitScheduled),
	})
	require.NoError(t, err)

	_, err = c.UpdateVisit(ctx, v.ID, dto.VisitPatch{Status: entity.Some(entity.VisitCompleted)})
	require.NoError(t, err)

	visits, err := c.ListVisits(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "Ana", visits[0].ClientName)
	assert.Equal(t, entity.VisitCompleted, visits[0].Status)

	byClient, err := c.ListClientVisits(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	require.NoError(t, c.DeleteClient(ctx, ana.ID))
	clients, err := c.ListClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)

	require.NotEmpty(t, calls)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/clients", calls[0].Path)
	assert.Equal(t, 201, calls[0].Status)
}

func TestClient_Errores(t *testing.T) {
	srv := newServer(t)
	c := apiclient.New(srv.URL + "/api")
	ctx := context.Background()

	_, err := c.GetClient(ctx, 42)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)

	_, err = c.CreateClient(ctx, dto.ClientPatch{})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.NotErrorIs(t, err, apiclient.ErrNotFound)
}

func TestClient_ErrorDeTransporte(t *testing.T) {
	var got apiclient.Call
	c := apiclient.New("http://127.0.0.1:1/api", apiclient.WithObserver(func(call apiclient.Call) { got = call }))

	_, err := c.ListClients(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, got.Status)
	assert.Error(t, got.Err)
}
