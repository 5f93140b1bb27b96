package console

import (
	"errors"
	"time"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// DateTimeLocal formato del campo de fecha del formulario de visita.
const DateTimeLocal = "2006-01-02T15:04"

// ErrNoClientSelected el formulario de visita no tiene cliente.
var ErrNoClientSelected = errors.New("seleccione un cliente")

// ClientForm estado del formulario de cliente. ID 0 = cliente nuevo.
type ClientForm struct {
	ID      int64
	Name    string
	Phone   string
	Email   string
	CPF     string
	Address entity.Address
}

// NewClientForm prepara el formulario; con client nil empieza vacío y con dirección en blanco.
func NewClientForm(client *dto.ClientResponse) ClientForm {
	if client == nil {
		return ClientForm{}
	}
	f := ClientForm{ID: client.ID, Name: client.Name}
	if client.Phone != nil {
		f.Phone = *client.Phone
	}
	if client.Email != nil {
		f.Email = *client.Email
	}
	if client.CPF != nil {
		f.CPF = *client.CPF
	}
	if client.Address != nil {
		f.Address = *client.Address
	}
	return f
}

// SetPhone guarda el teléfono con la máscara aplicada.
func (f *ClientForm) SetPhone(v string) {
	f.Phone = FormatPhone(v)
}

// Action nombre de la acción de guardado tal como aparece en el log.
func (f ClientForm) Action() string {
	if f.ID != 0 {
		return "Guardar cambios"
	}
	return "Agregar cliente"
}

// Patch envía el formulario completo; el servidor convierte los vacíos en null.
func (f ClientForm) Patch() dto.ClientPatch {
	return dto.ClientPatch{
		Name:    entity.Some(f.Name),
		Phone:   entity.Some(f.Phone),
		Email:   entity.Some(f.Email),
		CPF:     entity.Some(f.CPF),
		Address: entity.Some(f.Address),
	}
}

// VisitForm estado del formulario de visita. ID 0 = visita nueva.
type VisitForm struct {
	ID       int64
	ClientID int64
	Date     string // DateTimeLocal
	Subject  string
	Status   entity.VisitStatus

	loc *time.Location // zona en la que se muestra y se edita Date
}

// NewVisitForm prepara el formulario. Sin visita, el cliente es el preseleccionado o el primero
// de la lista, el estado Agendada y la fecha now en loc.
func NewVisitForm(visit *dto.VisitListItem, clients []dto.ClientResponse, preselected int64, now time.Time, loc *time.Location) VisitForm {
	if loc == nil {
		loc = time.UTC
	}
	if visit != nil {
		return VisitForm{
			ID:       visit.ID,
			ClientID: visit.ClientID,
			Date:     visit.Date.In(loc).Format(DateTimeLocal),
			Subject:  visit.Subject,
			Status:   visit.Status,
			loc:      loc,
		}
	}
	f := VisitForm{
		ClientID: preselected,
		Date:     now.In(loc).Format(DateTimeLocal),
		Status:   entity.VisitScheduled,
		loc:      loc,
	}
	if f.ClientID == 0 && len(clients) > 0 {
		f.ClientID = clients[0].ID
	}
	return f
}

// Action nombre de la acción de guardado tal como aparece en el log.
func (f VisitForm) Action() string {
	if f.ID != 0 {
		return "Guardar cambios de la visita"
	}
	return "Agendar visita"
}

// Validate solo comprueba que haya un cliente; el resto lo valida el servidor.
func (f VisitForm) Validate() error {
	if f.ClientID == 0 {
		return ErrNoClientSelected
	}
	return nil
}

// Patch envía el formulario completo. Date viaja como RFC 3339 con la zona del formulario,
// así el servidor no la reinterpreta en su propia zona.
func (f VisitForm) Patch() dto.VisitPatch {
	return dto.VisitPatch{
		ClientID: entity.Some(f.ClientID),
		Date:     entity.Some(f.instant()),
		Subject:  entity.Some(f.Subject),
		Status:   entity.Some(f.Status),
	}
}

// instant convierte Date a RFC 3339. Un valor que no sea DateTimeLocal se envía tal cual
// y lo valida el servidor.
func (f VisitForm) instant() string {
	loc := f.loc
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateTimeLocal, f.Date, loc)
	if err != nil {
		return f.Date
	}
	return t.Format(time.RFC3339)
}
