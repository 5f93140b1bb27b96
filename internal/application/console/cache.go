package console

import (
	"sync"
	"time"

	"github.com/jhoicas/agenda-api/internal/application/dto"
)

// Cache copia local de las colecciones. Cada carga la reemplaza completa.
type Cache struct {
	mu       sync.RWMutex
	clients  []dto.ClientResponse
	visits   []dto.VisitListItem
	loadedAt time.Time
}

// Replace sustituye ambas colecciones.
func (c *Cache) Replace(clients []dto.ClientResponse, visits []dto.VisitListItem, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients = clients
	c.visits = visits
	c.loadedAt = at
}

// Clients copia de los clientes en caché.
func (c *Cache) Clients() []dto.ClientResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]dto.ClientResponse(nil), c.clients...)
}

// Visits copia de las visitas en caché (fecha descendente).
func (c *Cache) Visits() []dto.VisitListItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]dto.VisitListItem(nil), c.visits...)
}

// Client busca un cliente por id.
func (c *Cache) Client(id int64) (dto.ClientResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cl := range c.clients {
		if cl.ID == id {
			return cl, true
		}
	}
	return dto.ClientResponse{}, false
}

// Visit busca una visita por id.
func (c *Cache) Visit(id int64) (dto.VisitListItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.visits {
		if v.ID == id {
			return v, true
		}
	}
	return dto.VisitListItem{}, false
}

// LoadedAt momento de la última carga (cero si nunca se cargó).
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
