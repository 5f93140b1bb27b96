package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// visitRows filas en el orden de visitWithClientQuery; clientName nil simula un LEFT JOIN sin cliente.
type visitRows struct {
	rows []visitRow
	pos  int
	err  error
}

type visitRow struct {
	id, clientID int64
	date         time.Time
	subject      *string
	status       *string
	createdAt    time.Time
	clientName   *string
}

func (r *visitRows) Close()                                       {}
func (r *visitRows) Err() error                                   { return r.err }
func (r *visitRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *visitRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *visitRows) Values() ([]any, error)                       { return nil, errors.New("no soportado") }
func (r *visitRows) RawValues() [][]byte                          { return nil }
func (r *visitRows) Conn() *pgx.Conn                              { return nil }

func (r *visitRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *visitRows) Scan(dest ...any) error {
	if len(dest) != 7 {
		return fmt.Errorf("se esperaban 7 columnas, llegaron %d", len(dest))
	}
	row := r.rows[r.pos-1]
	*dest[0].(*int64) = row.id
	*dest[1].(*int64) = row.clientID
	*dest[2].(*time.Time) = row.date
	*dest[3].(**string) = row.subject
	*dest[4].(**string) = row.status
	*dest[5].(*time.Time) = row.createdAt
	*dest[6].(**string) = row.clientName
	return nil
}

// visitQuerier devuelve siempre las mismas filas y guarda la última consulta.
type visitQuerier struct {
	rows  []visitRow
	sql   string
	args  []any
	fails error
}

func (q *visitQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	if q.fails != nil {
		return nil, q.fails
	}
	return &visitRows{rows: q.rows}, nil
}

func (q *visitQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{err: errors.New("no soportado")}
}

func (q *visitQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("no soportado")
}

func strPtr(s string) *string { return &s }

func TestVisitRepo_List_ClienteInexistenteUsaNombrePorDefecto(t *testing.T) {
	date := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
	q := &visitQuerier{rows: []visitRow{
		{id: 2, clientID: 7, date: date, subject: strPtr("Revisión"), status: strPtr("Agendada"), clientName: strPtr("Ana")},
		{id: 1, clientID: 99, date: date.Add(-time.Hour), subject: strPtr("Huérfana"), status: strPtr("Cancelada")},
	}}
	repo := NewVisitRepository(q)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].ClientName)
	assert.Equal(t, entity.MissingClientName, list[1].ClientName)
	assert.Equal(t, int64(99), list[1].ClientID)
	assert.Equal(t, entity.VisitCancelled, list[1].Status)
	assert.Contains(t, q.sql, "LEFT JOIN clients c")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(q.sql), "ORDER BY v.date DESC, v.id DESC"))

	list, err = repo.ListByClient(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, entity.MissingClientName, list[1].ClientName)
	assert.Equal(t, []any{int64(99)}, q.args)
}

func TestVisitRepo_List_SinFilasDevuelveListaVacia(t *testing.T) {
	list, err := NewVisitRepository(&visitQuerier{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestVisitRepo_List_ErrorDeConsulta(t *testing.T) {
	boom := errors.New("conexión cerrada")
	_, err := NewVisitRepository(&visitQuerier{fails: boom}).List(context.Background())
	assert.ErrorIs(t, err, boom)
}
