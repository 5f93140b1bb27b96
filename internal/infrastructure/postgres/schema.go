package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
	"github.com/jhoicas/agenda-api/pkg/logger"
)

var _ repository.SchemaProvisioner = (*SchemaProvisioner)(nil)

// PolicyName nombre de la política allow-all instalada en ambas tablas.
const PolicyName = "Enable all access for service-role"

// txRunner contrato mínimo que necesita el aprovisionador (lo implementa *TxRunner).
type txRunner interface {
	Run(ctx context.Context, fn func(q Querier) error) error
}

// Migration paso de esquema versionado e idempotente: Apply solo corre si Pending es verdadero.
type Migration struct {
	Version int
	Name    string
	Pending func(ctx context.Context, q Querier) (bool, error)
	Apply   func(ctx context.Context, q Querier) error
}

// schemaMigrations pasos hacia adelante aplicados cuando el esquema ya existe, en orden de versión.
var schemaMigrations = []Migration{
	{
		Version: 1,
		Name:    "drop_visits_client_name",
		Pending: func(ctx context.Context, q Querier) (bool, error) {
			return columnExists(ctx, q, "visits", "client_name")
		},
		Apply: func(ctx context.Context, q Querier) error {
			_, err := q.Exec(ctx, `ALTER TABLE public.visits DROP COLUMN IF EXISTS client_name`)
			return err
		},
	},
}

var createSchemaStatements = []string{
	`CREATE TABLE public.clients (
		id bigint GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name text NOT NULL,
		phone text,
		email text,
		cpf text,
		address jsonb,
		created_at timestamp with time zone NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE public.visits (
		id bigint GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		client_id bigint NOT NULL,
		date timestamp with time zone NOT NULL,
		subject text,
		status text,
		created_at timestamp with time zone NOT NULL DEFAULT now(),
		CONSTRAINT visits_client_id_fkey FOREIGN KEY (client_id)
			REFERENCES public.clients (id) ON DELETE CASCADE,
		CONSTRAINT visits_status_check CHECK (status IN ('Agendada', 'Concluída', 'Cancelada'))
	)`,
	`CREATE INDEX visits_client_id_idx ON public.visits (client_id)`,
	`CREATE INDEX visits_date_idx ON public.visits (date DESC)`,
	`ALTER TABLE public.clients ENABLE ROW LEVEL SECURITY`,
	`ALTER TABLE public.visits ENABLE ROW LEVEL SECURITY`,
}

// SchemaProvisioner verifica el esquema al arrancar: lo crea si falta o aplica las migraciones pendientes.
type SchemaProvisioner struct {
	q          Querier
	tx         txRunner
	role       string
	log        *logger.Logger
	migrations []Migration
}

// NewSchemaProvisioner construye el aprovisionador. role es el rol de PostgreSQL de la service key
// (claim "role"); la política allow-all se limita a ese rol. Vacío = sin cláusula TO.
func NewSchemaProvisioner(q Querier, tx txRunner, role string, log *logger.Logger) *SchemaProvisioner {
	if log == nil {
		log = logger.Nop()
	}
	return &SchemaProvisioner{q: q, tx: tx, role: role, log: log, migrations: schemaMigrations}
}

// Provision recorre unchecked → {schema-absent → created} | {schema-present → migration-checked → migration-applied|no-op}.
// Cualquier error debe tratarse como fatal por el llamador.
func (p *SchemaProvisioner) Provision(ctx context.Context) (repository.SchemaReport, error) {
	report := repository.SchemaReport{Path: []repository.SchemaState{repository.SchemaUnchecked}}
	p.log.Info().Msg("verificando esquema de la base de datos")

	exists, err := tableExists(ctx, p.q, "clients")
	if err != nil {
		return report, fmt.Errorf("verificar tabla clients: %w", err)
	}

	if !exists {
		report.Path = append(report.Path, repository.SchemaAbsent)
		p.log.Info().Msg("tablas no encontradas, creando esquema")
		if err := p.create(ctx); err != nil {
			return report, err
		}
		report.Path = append(report.Path, repository.SchemaCreated)
		p.log.Info().Msg("esquema creado")
		return report, nil
	}

	report.Path = append(report.Path, repository.SchemaPresent)
	var pending []Migration
	for _, m := range p.migrations {
		ok, err := m.Pending(ctx, p.q)
		if err != nil {
			return report, fmt.Errorf("verificar migración %d (%s): %w", m.Version, m.Name, err)
		}
		if ok {
			pending = append(pending, m)
		}
	}
	report.Path = append(report.Path, repository.SchemaMigrationChecked)

	if len(pending) == 0 {
		report.Path = append(report.Path, repository.SchemaNoOp)
		p.log.Info().Msg("ninguna migración pendiente")
		return report, nil
	}

	for _, m := range pending {
		p.log.Info().Int("version", m.Version).Str("migration", m.Name).Msg("aplicando migración")
		err := p.tx.Run(ctx, func(q Querier) error {
			return m.Apply(ctx, q)
		})
		if err != nil {
			return report, fmt.Errorf("aplicar migración %d (%s): %w", m.Version, m.Name, err)
		}
		report.Applied = append(report.Applied, m.Version)
	}
	report.Path = append(report.Path, repository.SchemaMigrationApplied)
	return report, nil
}

func (p *SchemaProvisioner) create(ctx context.Context) error {
	role, err := p.policyRole(ctx)
	if err != nil {
		return err
	}
	statements := append([]string{}, createSchemaStatements...)
	statements = append(statements, policyStatements(role)...)

	err = p.tx.Run(ctx, func(q Querier) error {
		for _, stmt := range statements {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("%w\nsentencia: %s", err, stmt)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}

// policyRole devuelve el rol para la cláusula TO, o "" si el rol no existe en esta base
// (PostgreSQL sin los roles de Supabase).
func (p *SchemaProvisioner) policyRole(ctx context.Context) (string, error) {
	if p.role == "" {
		return "", nil
	}
	var exists bool
	err := p.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, p.role).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("verificar rol %q: %w", p.role, err)
	}
	if !exists {
		p.log.Warn().Str("role", p.role).Msg("rol de la service key no existe; la política no se limita a un rol")
		return "", nil
	}
	return p.role, nil
}

func policyStatements(role string) []string {
	to := ""
	if role != "" {
		to = " TO " + pgx.Identifier{role}.Sanitize()
	}
	name := pgx.Identifier{PolicyName}.Sanitize()
	var out []string
	for _, table := range []string{"clients", "visits"} {
		out = append(out, fmt.Sprintf(
			`CREATE POLICY %s ON public.%s FOR ALL%s USING (true) WITH CHECK (true)`, name, table, to))
	}
	return out
}

func tableExists(ctx context.Context, q Querier, table string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, table).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, q Querier, table, column string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
		)`, table, column).Scan(&exists)
	return exists, err
}
