package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
	"github.com/jhoicas/agenda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/agenda-api/pkg/config"
)

// openTestDB conecta a TEST_DATABASE_URL (base desechable: las tablas se recrean) o salta el test.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS public.visits, public.clients CASCADE`)
	require.NoError(t, err)

	report, err := postgres.NewSchemaProvisioner(pool, postgres.NewTxRunner(pool), "", nil).Provision(ctx)
	require.NoError(t, err)
	require.Equal(t, repository.SchemaCreated, report.Final())
	return pool
}

type stores struct {
	clients *usecase.ClientUseCase
	visits  *usecase.VisitUseCase
}

func newStores(pool *pgxpool.Pool) stores {
	clientRepo := postgres.NewClientRepository(pool)
	visitRepo := postgres.NewVisitRepository(pool)
	return stores{
		clients: usecase.NewClientUseCase(clientRepo),
		visits:  usecase.NewVisitUseCase(visitRepo, clientRepo, time.UTC),
	}
}

func TestIntegration_ProvisionIdempotenteYMigracion(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	p := postgres.NewSchemaProvisioner(pool, postgres.NewTxRunner(pool), "", nil)

	report, err := p.Provision(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.SchemaNoOp, report.Final())

	_, err = pool.Exec(ctx, `ALTER TABLE public.visits ADD COLUMN client_name text`)
	require.NoError(t, err)

	report, err = p.Provision(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.SchemaMigrationApplied, report.Final())
	assert.Equal(t, []int{1}, report.Applied)

	report, err = p.Provision(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.SchemaNoOp, report.Final())
}

func TestIntegration_FlujoCompleto(t *testing.T) {
	s := newStores(openTestDB(t))
	ctx := context.Background()

	ana, err := s.clients.Create(ctx, dto.ClientPatch{
		Name:    entity.Some("Ana"),
		Phone:   entity.Some(""),
		Email:   entity.Some("ana@x.com"),
		Address: entity.Some(entity.Address{}),
	})
	require.NoError(t, err)
	assert.Nil(t, ana.Phone)
	assert.Nil(t, ana.Address)
	require.NotNil(t, ana.Email)
	assert.Equal(t, "ana@x.com", *ana.Email)

	visit, err := s.visits.Create(ctx, dto.VisitPatch{
		ClientID: entity.Some(ana.ID),
		Date:     entity.Some("2024-05-01T10:00"),
		Subject:  entity.Some("Revisión"),
		Status:   entity.Some(entity.VisitScheduled),
	})
	require.NoError(t, err)
	assert.True(t, visit.Date.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	list, err := s.visits.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].ClientName)

	_, err = s.clients.Update(ctx, ana.ID, dto.ClientPatch{Name: entity.Some("Ana Souza")})
	require.NoError(t, err)
	list, err = s.visits.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", list[0].ClientName)

	require.NoError(t, s.clients.Delete(ctx, ana.ID))
	list, err = s.visits.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIntegration_ActualizacionParcialYNoEncontrado(t *testing.T) {
	s := newStores(openTestDB(t))
	ctx := context.Background()

	c, err := s.clients.Create(ctx, dto.ClientPatch{
		Name:  entity.Some("Bruno"),
		Phone: entity.Some("11988887777"),
		Address: entity.Some(entity.Address{
			Street: "Rua A", Number: "10", City: "São Paulo", State: "SP",
		}),
	})
	require.NoError(t, err)

	updated, err := s.clients.Update(ctx, c.ID, dto.ClientPatch{Email: entity.Some("b@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "Bruno", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "11988887777", *updated.Phone)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "São Paulo", updated.Address.City)

	cleared, err := s.clients.Update(ctx, c.ID, dto.ClientPatch{Phone: entity.Some("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Phone)

	same, err := s.clients.Update(ctx, c.ID, dto.ClientPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Bruno", same.Name)

	_, err = s.clients.Update(ctx, c.ID+1000, dto.ClientPatch{Name: entity.Some("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.visits.Update(ctx, 999999, dto.VisitPatch{Status: entity.Some(entity.VisitCompleted)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.clients.Delete(ctx, c.ID+1000))
	require.NoError(t, s.visits.Delete(ctx, 999999))
}

func TestIntegration_VisitaConClienteInexistente(t *testing.T) {
	s := newStores(openTestDB(t))
	ctx := context.Background()

	_, err := s.visits.Create(ctx, dto.VisitPatch{
		ClientID: entity.Some(int64(4242)),
		Date:     entity.Some("2024-05-01T10:00:00Z"),
		Subject:  entity.Some("X"),
		Status:   entity.Some(entity.VisitScheduled),
	})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestIntegration_Orden(t *testing.T) {
	s := newStores(openTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"carla", "Bruno", "Ana", "Bruno"} {
		_, err := s.clients.Create(ctx, dto.ClientPatch{Name: entity.Some(name)})
		require.NoError(t, err)
	}
	clients, err := s.clients.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, c := range clients {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Bruno", "carla"}, names)
	assert.Less(t, clients[1].ID, clients[2].ID)

	for _, d := range []string{"2024-01-01T09:00", "2024-03-01T09:00", "2024-02-01T09:00"} {
		_, err := s.visits.Create(ctx, dto.VisitPatch{
			ClientID: entity.Some(clients[0].ID),
			Date:     entity.Some(d),
			Subject:  entity.Some("S"),
			Status:   entity.Some(entity.VisitScheduled),
		})
		require.NoError(t, err)
	}
	visits, err := s.visits.ListByClient(ctx, clients[0].ID)
	require.NoError(t, err)
	require.Len(t, visits, 3)
	assert.Equal(t, time.March, visits[0].Date.UTC().Month())
	assert.Equal(t, time.February, visits[1].Date.UTC().Month())
	assert.Equal(t, time.January, visits[2].Date.UTC().Month())
}

func TestIntegration_VisitaHuerfanaMuestraNombrePorDefecto(t *testing.T) {
	pool := openTestDB(t)
	s := newStores(pool)
	ctx := context.Background()

	c, err := s.clients.Create(ctx, dto.ClientPatch{Name: entity.Some("Ana")})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `ALTER TABLE public.visits DROP CONSTRAINT visits_client_id_fkey`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`INSERT INTO public.visits (client_id, date, subject, status) VALUES ($1, $2, 'Huérfana', 'Agendada')`,
		c.ID+1000, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	visits, err := s.visits.List(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, entity.MissingClientName, visits[0].ClientName)
	assert.Equal(t, c.ID+1000, visits[0].ClientID)
}
