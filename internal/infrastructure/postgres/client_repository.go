package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, phone, email, cpf, address, created_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente y completa ID y CreatedAt asignados por la base.
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	address, err := encodeAddress(client.Address)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO clients (name, phone, email, cpf, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err = r.q.QueryRow(ctx, query,
		client.Name, client.Phone, client.Email, client.CPF, address,
	).Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List lista todos los clientes por nombre (orden de bytes, sensible a mayúsculas) y luego por id.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name COLLATE "C", id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := []*entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza solo los campos presentes en changes en una única sentencia.
func (r *ClientRepo) Update(ctx context.Context, id int64, changes entity.ClientChanges) (*entity.Client, error) {
	if changes.Empty() {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		return c, nil
	}

	set := newSetBuilder(id)
	if changes.Name.Set {
		set.add("name", changes.Name.Value)
	}
	if changes.Phone.Set {
		set.add("phone", changes.Phone.Ptr())
	}
	if changes.Email.Set {
		set.add("email", changes.Email.Ptr())
	}
	if changes.CPF.Set {
		set.add("cpf", changes.CPF.Ptr())
	}
	if changes.Address.Set {
		address, err := encodeAddress(changes.Address.Ptr())
		if err != nil {
			return nil, err
		}
		set.add("address", address)
	}

	query := `UPDATE clients SET ` + set.clause() + ` WHERE id = $1 RETURNING ` + clientColumns
	c, err := scanClient(r.q.QueryRow(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

// Delete elimina un cliente por ID; sus visitas caen por ON DELETE CASCADE.
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var address []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CPF, &address, &c.CreatedAt); err != nil {
		return nil, err
	}
	if len(address) > 0 && string(address) != "null" {
		var a entity.Address
		if err := json.Unmarshal(address, &a); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
		c.Address = &a
	}
	return &c, nil
}

// encodeAddress serializa la dirección como texto JSON; nil se guarda como NULL.
// Se envía como string para que funcione igual con el protocolo simple.
func encodeAddress(a *entity.Address) (*string, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	s := string(b)
	return &s, nil
}

// setBuilder arma la cláusula SET de un UPDATE parcial. $1 queda reservado para el id.
type setBuilder struct {
	cols []string
	args []any
}

func newSetBuilder(id int64) *setBuilder {
	return &setBuilder{args: []any{id}}
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.cols = append(b.cols, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) clause() string {
	return strings.Join(b.cols, ", ")
}
