package console

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLog() *EventLog {
	l := NewEventLog(nil)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC) }
	return l
}

func TestEventLog_AcotadoYMasRecientePrimero(t *testing.T) {
	l := fixedLog()
	for i := 0; i < MaxLogs+10; i++ {
		l.Infof("evento %d", i)
	}

	entries := l.Entries()
	require.Len(t, entries, MaxLogs)
	assert.Equal(t, fmt.Sprintf("evento %d", MaxLogs+9), entries[0].Message)
	assert.Equal(t, "evento 10", entries[MaxLogs-1].Message)
}

func TestEventLog_Detalles(t *testing.T) {
	l := fixedLog()
	l.Add(LevelAPI, "GET /api/clients - respuesta recibida", map[string]int{"items": 3})
	l.Add(LevelError, "API: fallo", fmt.Errorf("connection refused"))

	entries := l.Entries()
	assert.Equal(t, "connection refused", entries[0].Details)
	assert.JSONEq(t, `{"items":3}`, entries[1].Details)
}

func TestEventLog_Clear(t *testing.T) {
	l := fixedLog()
	l.Infof("uno")
	l.Infof("dos")

	l.Clear()

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Acción 'Limpiar log' ejecutada.", entries[0].Message)
}

func TestEventLog_Report(t *testing.T) {
	l := fixedLog()
	_, err := l.Report()
	assert.ErrorIs(t, err, ErrNothingToReport)

	l.Add(LevelError, "API: error al ejecutar la acción 'Agregar cliente'.", "HTTP 500")
	text, err := l.Report()
	require.NoError(t, err)
	assert.Equal(t,
		"Problema detectado: el elemento 'Agregar cliente' no funciona como se esperaba.\n\n"+
			"Detalles del log para análisis:\n[14:03:09][ERROR] API: error al ejecutar la acción 'Agregar cliente'.",
		text)

	l.Infof("sin comillas")
	text, err = l.Report()
	require.NoError(t, err)
	assert.Contains(t, text, "'la última acción'")

	l.Cancelled("Eliminar cliente: Ana")
	_, err = l.Report()
	assert.ErrorIs(t, err, ErrLastCancelled)
}
