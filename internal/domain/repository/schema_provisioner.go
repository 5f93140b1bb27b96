package repository

import "context"

// SchemaState estado del aprovisionamiento del esquema al arrancar.
type SchemaState string

const (
	SchemaUnchecked        SchemaState = "unchecked"
	SchemaAbsent           SchemaState = "schema-absent"
	SchemaCreated          SchemaState = "created"
	SchemaPresent          SchemaState = "schema-present"
	SchemaMigrationChecked SchemaState = "migration-checked"
	SchemaMigrationApplied SchemaState = "migration-applied"
	SchemaNoOp             SchemaState = "no-op"
)

// SchemaReport resultado de una ejecución de aprovisionamiento.
type SchemaReport struct {
	// Path estados recorridos, empezando en SchemaUnchecked.
	Path []SchemaState
	// Applied versiones de migración aplicadas en esta ejecución.
	Applied []int
}

// Final devuelve el último estado alcanzado.
func (r SchemaReport) Final() SchemaState {
	if len(r.Path) == 0 {
		return SchemaUnchecked
	}
	return r.Path[len(r.Path)-1]
}

// SchemaProvisioner verifica y crea/migra el esquema. Debe ser seguro ejecutarlo en cada arranque.
type SchemaProvisioner interface {
	Provision(ctx context.Context) (SchemaReport, error)
}
