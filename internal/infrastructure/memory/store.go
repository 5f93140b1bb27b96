package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository = (*ClientRepo)(nil)
	_ repository.VisitRepository  = (*VisitRepo)(nil)
)

// Store almacén en memoria con las mismas reglas que PostgreSQL:
// ids incrementales, borrado en cascada y clave foránea de visitas a clientes.
type Store struct {
	mu         sync.RWMutex
	clients    map[int64]entity.Client
	visits     map[int64]entity.Visit
	nextClient int64
	nextVisit  int64
	now        func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		clients: make(map[int64]entity.Client),
		visits:  make(map[int64]entity.Visit),
		now:     time.Now,
	}
}

// Clients devuelve el repositorio de clientes sobre este almacén.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// Visits devuelve el repositorio de visitas sobre este almacén.
func (s *Store) Visits() *VisitRepo { return &VisitRepo{s: s} }

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

// ClientRepo implementación en memoria de ClientRepository.
type ClientRepo struct {
	s *Store
}

func (r *ClientRepo) Create(_ context.Context, client *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextClient++
	client.ID = r.s.nextClient
	client.CreatedAt = r.s.now().UTC()
	r.s.clients[client.ID] = cloneClient(*client)
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	out := cloneClient(c)
	return &out, nil
}

// List ordena por nombre byte a byte y luego por id, igual que COLLATE "C".
func (r *ClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out := cloneClient(c)
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ClientRepo) Update(_ context.Context, id int64, changes entity.ClientChanges) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if changes.Name.Set {
		c.Name = changes.Name.Value
	}
	if changes.Phone.Set {
		c.Phone = changes.Phone.Ptr()
	}
	if changes.Email.Set {
		c.Email = changes.Email.Ptr()
	}
	if changes.CPF.Set {
		c.CPF = changes.CPF.Ptr()
	}
	if changes.Address.Set {
		c.Address = changes.Address.Ptr()
	}
	r.s.clients[id] = c
	out := cloneClient(c)
	return &out, nil
}

// Delete borra el cliente y sus visitas. Un id inexistente no es error.
func (r *ClientRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.clients, id)
	for vid, v := range r.s.visits {
		if v.ClientID == id {
			delete(r.s.visits, vid)
		}
	}
	return nil
}

// VisitRepo implementación en memoria de VisitRepository.
type VisitRepo struct {
	s *Store
}

func (r *VisitRepo) Create(_ context.Context, visit *entity.Visit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[visit.ClientID]; !ok {
		return domain.ErrClientNotFound
	}
	r.s.nextVisit++
	visit.ID = r.s.nextVisit
	visit.CreatedAt = r.s.now().UTC()
	r.s.visits[visit.ID] = *visit
	return nil
}

func (r *VisitRepo) List(_ context.Context) ([]*entity.VisitWithClient, error) {
	return r.list(func(entity.Visit) bool { return true }), nil
}

func (r *VisitRepo) ListByClient(_ context.Context, clientID int64) ([]*entity.VisitWithClient, error) {
	return r.list(func(v entity.Visit) bool { return v.ClientID == clientID }), nil
}

// list arma el listado con el nombre actual del cliente, fecha descendente y luego id descendente.
func (r *VisitRepo) list(keep func(entity.Visit) bool) []*entity.VisitWithClient {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.VisitWithClient, 0, len(r.s.visits))
	for _, v := range r.s.visits {
		if !keep(v) {
			continue
		}
		name := entity.MissingClientName
		if c, ok := r.s.clients[v.ClientID]; ok {
			name = c.Name
		}
		out = append(out, &entity.VisitWithClient{Visit: v, ClientName: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *VisitRepo) Update(_ context.Context, id int64, changes entity.VisitChanges) (*entity.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.visits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if changes.ClientID.Set {
		if _, ok := r.s.clients[changes.ClientID.Value]; !ok {
			return nil, domain.ErrClientNotFound
		}
		v.ClientID = changes.ClientID.Value
	}
	if changes.Date.Set {
		v.Date = changes.Date.Value
	}
	if changes.Subject.Set {
		v.Subject = changes.Subject.Value
	}
	if changes.Status.Set {
		v.Status = changes.Status.Value
	}
	r.s.visits[id] = v
	out := v
	return &out, nil
}

func (r *VisitRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.visits, id)
	return nil
}

func cloneClient(c entity.Client) entity.Client {
	c.Phone = cloneString(c.Phone)
	c.Email = cloneString(c.Email)
	c.CPF = cloneString(c.CPF)
	if c.Address != nil {
		a := *c.Address
		c.Address = &a
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
