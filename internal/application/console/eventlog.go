package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/agenda-api/pkg/logger"
)

// MaxLogs cantidad máxima de entradas conservadas; las más antiguas se descartan.
const MaxLogs = 50

// Level nivel de una entrada del log de eventos.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelAPI   Level = "API"
)

// CancelMarker texto que identifica una acción cancelada por el usuario.
const CancelMarker = "cancelada por el usuario"

var (
	ErrNothingToReport = errors.New("el log está vacío")
	ErrLastCancelled   = errors.New("la última acción fue cancelada por el usuario")
)

// Entry entrada del log de eventos.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Details string // vacío o JSON indentado
}

// String formato de una línea: [15:04:05][NIVEL] mensaje.
func (e Entry) String() string {
	return fmt.Sprintf("[%s][%s] %s", e.Time.Format("15:04:05"), e.Level, e.Message)
}

// EventLog registro de eventos de la aplicación cliente, el más reciente primero.
type EventLog struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
	sink    *logger.Logger
}

// NewEventLog crea un log vacío. sink (opcional) recibe una copia de cada entrada en nivel debug.
func NewEventLog(sink *logger.Logger) *EventLog {
	return &EventLog{now: time.Now, sink: sink}
}

// Add agrega una entrada. details puede ser nil, un string o cualquier valor serializable a JSON.
func (l *EventLog) Add(level Level, message string, details any) {
	e := Entry{Time: l.now(), Level: level, Message: message, Details: renderDetails(details)}

	l.mu.Lock()
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > MaxLogs {
		l.entries = l.entries[:MaxLogs]
	}
	l.mu.Unlock()

	if l.sink != nil {
		l.sink.Debug().Str("level", string(level)).Str("details", e.Details).Msg(message)
	}
}

// Infof y Warnf atajos de Add sin detalles.
func (l *EventLog) Infof(format string, args ...any) { l.Add(LevelInfo, fmt.Sprintf(format, args...), nil) }
func (l *EventLog) Warnf(format string, args ...any) { l.Add(LevelWarn, fmt.Sprintf(format, args...), nil) }

// Cancelled registra que el usuario canceló la acción.
func (l *EventLog) Cancelled(action string) {
	l.Infof("UI: acción '%s' %s.", action, CancelMarker)
}

// Entries devuelve una copia de las entradas, la más reciente primero.
func (l *EventLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Last devuelve la entrada más reciente.
func (l *EventLog) Last() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[0], true
}

// Clear vacía el log y deja constancia de la limpieza.
func (l *EventLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
	l.Infof("Acción 'Limpiar log' ejecutada.")
}

var quotedName = regexp.MustCompile(`'([^']*)'`)

// Report arma el texto de reporte de problema a partir de la entrada más reciente.
// Falla si el log está vacío o si la última entrada es una cancelación.
func (l *EventLog) Report() (string, error) {
	last, ok := l.Last()
	if !ok {
		return "", ErrNothingToReport
	}
	if strings.Contains(last.Message, CancelMarker) {
		return "", ErrLastCancelled
	}
	element := "la última acción"
	if m := quotedName.FindStringSubmatch(last.Message); m != nil {
		element = m[1]
	}
	return fmt.Sprintf(
		"Problema detectado: el elemento '%s' no funciona como se esperaba.\n\nDetalles del log para análisis:\n%s",
		element, last.String(),
	), nil
}

func renderDetails(details any) string {
	switch d := details.(type) {
	case nil:
		return ""
	case string:
		return d
	case error:
		return d.Error()
	}
	raw, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Sprint(details)
	}
	return string(raw)
}
