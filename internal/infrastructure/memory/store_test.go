package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

func TestStore_CascadaYNombreActual(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	clients, visits := s.Clients(), s.Visits()

	ana := &entity.Client{Name: "Ana"}
	require.NoError(t, clients.Create(ctx, ana))
	v := &entity.Visit{ClientID: ana.ID, Date: time.Now(), Subject: "Revisión", Status: entity.VisitScheduled}
	require.NoError(t, visits.Create(ctx, v))

	_, err := clients.Update(ctx, ana.ID, entity.ClientChanges{Name: entity.Some("Ana Souza")})
	require.NoError(t, err)
	list, err := visits.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana Souza", list[0].ClientName)

	require.NoError(t, clients.Delete(ctx, ana.ID))
	list, err = visits.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, clients.Delete(ctx, ana.ID))
}

func TestStore_ClaveForanea(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Visits().Create(ctx, &entity.Visit{ClientID: 99, Date: time.Now(), Subject: "x", Status: entity.VisitScheduled})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = s.Visits().Update(ctx, 1, entity.VisitChanges{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Orden(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, n := range []string{"carla", "Bruno", "Ana"} {
		require.NoError(t, s.Clients().Create(ctx, &entity.Client{Name: n}))
	}
	list, err := s.Clients().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Bruno", list[1].Name)
	assert.Equal(t, "carla", list[2].Name)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{base, base.AddDate(0, 2, 0), base.AddDate(0, 1, 0), base.AddDate(0, 2, 0)} {
		require.NoError(t, s.Visits().Create(ctx, &entity.Visit{ClientID: list[0].ID, Date: d, Subject: "s", Status: entity.VisitScheduled}))
	}
	visits, err := s.Visits().ListByClient(ctx, list[0].ID)
	require.NoError(t, err)
	require.Len(t, visits, 4)
	assert.Equal(t, int64(4), visits[0].ID)
	assert.Equal(t, int64(2), visits[1].ID)
	assert.Equal(t, int64(3), visits[2].ID)
	assert.Equal(t, int64(1), visits[3].ID)
}

func TestStore_CopiasIndependientes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	phone := "11999990000"
	c := &entity.Client{Name: "Ana", Phone: &phone}
	require.NoError(t, s.Clients().Create(ctx, c))

	phone = "otro"
	got, err := s.Clients().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "11999990000", *got.Phone)
}
