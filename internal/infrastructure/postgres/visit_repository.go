package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
)

var _ repository.VisitRepository = (*VisitRepo)(nil)

const visitColumns = `id, client_id, date, subject, status, created_at`

// El nombre del cliente se resuelve con LEFT JOIN para no fallar si el cliente desapareció.
const visitWithClientQuery = `
	SELECT v.id, v.client_id, v.date, v.subject, v.status, v.created_at, c.name
	FROM visits v
	LEFT JOIN clients c ON c.id = v.client_id`

// VisitRepo implementación de VisitRepository (usable con pool o tx).
type VisitRepo struct {
	q Querier
}

// NewVisitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVisitRepository(q Querier) *VisitRepo {
	return &VisitRepo{q: q}
}

// Create persiste una visita. domain.ErrClientNotFound si client_id no existe.
func (r *VisitRepo) Create(ctx context.Context, visit *entity.Visit) error {
	query := `
		INSERT INTO visits (client_id, date, subject, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		visit.ClientID, visit.Date, visit.Subject, string(visit.Status),
	).Scan(&visit.ID, &visit.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// List lista todas las visitas por fecha descendente.
func (r *VisitRepo) List(ctx context.Context) ([]*entity.VisitWithClient, error) {
	return r.list(ctx, visitWithClientQuery+` ORDER BY v.date DESC, v.id DESC`)
}

// ListByClient lista las visitas de un cliente por fecha descendente.
func (r *VisitRepo) ListByClient(ctx context.Context, clientID int64) ([]*entity.VisitWithClient, error) {
	return r.list(ctx, visitWithClientQuery+` WHERE v.client_id = $1 ORDER BY v.date DESC, v.id DESC`, clientID)
}

func (r *VisitRepo) list(ctx context.Context, query string, args ...any) ([]*entity.VisitWithClient, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()
	list := []*entity.VisitWithClient{}
	for rows.Next() {
		var v entity.VisitWithClient
		var subject, status, clientName *string
		if err := rows.Scan(&v.ID, &v.ClientID, &v.Date, &subject, &status, &v.CreatedAt, &clientName); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Subject = deref(subject)
		v.Status = entity.VisitStatus(deref(status))
		v.ClientName = entity.MissingClientName
		if clientName != nil {
			v.ClientName = *clientName
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Update actualiza solo los campos presentes en changes.
func (r *VisitRepo) Update(ctx context.Context, id int64, changes entity.VisitChanges) (*entity.Visit, error) {
	var query string
	var args []any
	if changes.Empty() {
		query = `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`
		args = []any{id}
	} else {
		set := newSetBuilder(id)
		if changes.ClientID.Set {
			set.add("client_id", changes.ClientID.Value)
		}
		if changes.Date.Set {
			set.add("date", changes.Date.Value)
		}
		if changes.Subject.Set {
			set.add("subject", changes.Subject.Value)
		}
		if changes.Status.Set {
			set.add("status", string(changes.Status.Value))
		}
		query = `UPDATE visits SET ` + set.clause() + ` WHERE id = $1 RETURNING ` + visitColumns
		args = set.args
	}

	var v entity.Visit
	var subject, status *string
	err := r.q.QueryRow(ctx, query, args...).Scan(&v.ID, &v.ClientID, &v.Date, &subject, &status, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("update visit: %w", err)
	}
	v.Subject = deref(subject)
	v.Status = entity.VisitStatus(deref(status))
	return &v, nil
}

// Delete elimina una visita por ID. No es error si no existe.
func (r *VisitRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM visits WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
