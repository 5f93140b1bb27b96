package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/agenda-api/internal/application/dto"
)

// API operaciones remotas que usa la sesión (las implementa *apiclient.Client).
type API interface {
	ListClients(ctx context.Context) ([]dto.ClientResponse, error)
	ListVisits(ctx context.Context) ([]dto.VisitListItem, error)
	CreateClient(ctx context.Context, in dto.ClientPatch) (*dto.ClientResponse, error)
	UpdateClient(ctx context.Context, id int64, in dto.ClientPatch) (*dto.ClientResponse, error)
	DeleteClient(ctx context.Context, id int64) error
	CreateVisit(ctx context.Context, in dto.VisitPatch) (*dto.VisitResponse, error)
	UpdateVisit(ctx context.Context, id int64, in dto.VisitPatch) (*dto.VisitResponse, error)
	DeleteVisit(ctx context.Context, id int64) error
}

// Confirmer pregunta al usuario; false cancela la acción.
type Confirmer func(title, message string) bool

var (
	// ErrCancelled el usuario no confirmó la acción.
	ErrCancelled = errors.New("acción cancelada")
	// ErrUnknownID el id no está en la caché cargada.
	ErrUnknownID = errors.New("id no encontrado en los datos cargados")
)

// Session estado de la aplicación cliente: caché, log de eventos y acceso a la API.
// Cada mutación es una petición seguida de una recarga completa.
type Session struct {
	api   API
	cache *Cache
	log   *EventLog
	now   func() time.Time
}

// NewSession crea la sesión. log nil crea un EventLog sin salida adicional.
func NewSession(api API, log *EventLog) *Session {
	if log == nil {
		log = NewEventLog(nil)
	}
	return &Session{api: api, cache: &Cache{}, log: log, now: time.Now}
}

// Cache caché de la sesión.
func (s *Session) Cache() *Cache { return s.cache }

// Log log de eventos de la sesión.
func (s *Session) Log() *EventLog { return s.log }

// Load pide clientes y visitas en paralelo, espera ambas respuestas y reemplaza la caché.
// Si alguna falla la caché no cambia.
func (s *Session) Load(ctx context.Context) error {
	s.log.Infof("UI: iniciando carga de datos del backend...")

	var (
		clients []dto.ClientResponse
		visits  []dto.VisitListItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Add(LevelAPI, "GET /api/clients - enviada", nil)
		var err error
		clients, err = s.api.ListClients(gctx)
		return err
	})
	g.Go(func() error {
		s.log.Add(LevelAPI, "GET /api/visits - enviada", nil)
		var err error
		visits, err = s.api.ListVisits(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Add(LevelError, "API: fallo al cargar datos. Verifique que el backend esté en ejecución.", err)
		return fmt.Errorf("cargar datos: %w", err)
	}
	s.log.Add(LevelAPI, "GET /api/clients - respuesta recibida", map[string]int{"items": len(clients)})
	s.log.Add(LevelAPI, "GET /api/visits - respuesta recibida", map[string]int{"items": len(visits)})

	sort.SliceStable(visits, func(i, j int) bool { return visits[i].Date.After(visits[j].Date) })
	s.cache.Replace(clients, visits, s.now())
	s.log.Add(LevelInfo, "UI: datos cargados y estado actualizado.", map[string]int{
		"clients": len(clients), "visits": len(visits),
	})
	return nil
}

// SaveClient crea (ID 0) o actualiza el cliente del formulario y recarga.
func (s *Session) SaveClient(ctx context.Context, f ClientForm) error {
	action := f.Action()
	s.log.Add(LevelInfo, fmt.Sprintf("UI: botón '%s' pulsado.", action), f)

	method, path := "POST", "/clients"
	if f.ID != 0 {
		method, path = "PUT", fmt.Sprintf("/clients/%d", f.ID)
	}
	return s.mutate(ctx, action, method, path, func() (any, error) {
		if f.ID != 0 {
			return s.api.UpdateClient(ctx, f.ID, f.Patch())
		}
		return s.api.CreateClient(ctx, f.Patch())
	})
}

// SaveVisit crea (ID 0) o actualiza la visita del formulario y recarga.
// Sin cliente seleccionado no hace ninguna petición.
func (s *Session) SaveVisit(ctx context.Context, f VisitForm) error {
	if err := f.Validate(); err != nil {
		s.log.Warnf("Acción '%s' bloqueada: cliente no seleccionado.", f.Action())
		return err
	}
	action := f.Action()
	s.log.Add(LevelInfo, fmt.Sprintf("UI: botón '%s' pulsado.", action), f)

	method, path := "POST", "/visits"
	if f.ID != 0 {
		method, path = "PUT", fmt.Sprintf("/visits/%d", f.ID)
	}
	return s.mutate(ctx, action, method, path, func() (any, error) {
		if f.ID != 0 {
			return s.api.UpdateVisit(ctx, f.ID, f.Patch())
		}
		return s.api.CreateVisit(ctx, f.Patch())
	})
}

// DeleteClient pide confirmación y elimina el cliente (y sus visitas). confirm nil confirma siempre.
func (s *Session) DeleteClient(ctx context.Context, id int64, confirm Confirmer) error {
	client, ok := s.cache.Client(id)
	if !ok {
		return ErrUnknownID
	}
	action := "Eliminar cliente: " + client.Name
	msg := "¿Seguro que desea eliminar este cliente? También se eliminarán todas sus visitas. Esta acción no se puede deshacer."
	return s.remove(ctx, action, msg, fmt.Sprintf("/clients/%d", id), confirm, func() error {
		return s.api.DeleteClient(ctx, id)
	})
}

// DeleteVisit pide confirmación y elimina la visita. confirm nil confirma siempre.
func (s *Session) DeleteVisit(ctx context.Context, id int64, confirm Confirmer) error {
	if _, ok := s.cache.Visit(id); !ok {
		return ErrUnknownID
	}
	action := fmt.Sprintf("Eliminar visita ID %d", id)
	msg := "¿Seguro que desea eliminar esta visita? Esta acción no se puede deshacer."
	return s.remove(ctx, action, msg, fmt.Sprintf("/visits/%d", id), confirm, func() error {
		return s.api.DeleteVisit(ctx, id)
	})
}

func (s *Session) remove(ctx context.Context, action, msg, path string, confirm Confirmer, call func() error) error {
	s.log.Warnf("UI: diálogo de eliminación abierto para '%s'.", action)
	if confirm != nil && !confirm("Confirmar eliminación", msg) {
		s.log.Cancelled(action)
		return ErrCancelled
	}
	s.log.Infof("UI: eliminación confirmada para '%s'.", action)
	return s.mutate(ctx, action, "DELETE", path, func() (any, error) {
		return nil, call()
	})
}

// mutate ejecuta una petición de escritura, registra envío y resultado y recarga los datos.
func (s *Session) mutate(ctx context.Context, action, method, path string, call func() (any, error)) error {
	s.log.Add(LevelAPI, fmt.Sprintf("%s %s - enviada", method, path), nil)
	saved, err := call()
	if err != nil {
		s.log.Add(LevelError, fmt.Sprintf("API: error al ejecutar la acción '%s'.", action), err)
		return fmt.Errorf("%s: %w", action, err)
	}
	s.log.Add(LevelAPI, fmt.Sprintf("%s %s - éxito", method, path), saved)
	return s.Load(ctx)
}
