// seed importa clientes desde un CSV exportado de planilla a la base configurada en DATABASE_URL.
// Cada fila pasa por el mismo saneamiento y validación que POST /api/clients.
//
// Uso: go run ./cmd/seed [--latin1] [--dry-run] clientes.csv
// Encabezado esperado (orden libre, solo name es obligatorio):
// name,phone,email,cpf,street,number,complement,neighborhood,city,state,zip
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
	"github.com/jhoicas/agenda-api/internal/domain/repository"
	"github.com/jhoicas/agenda-api/internal/infrastructure/memory"
	"github.com/jhoicas/agenda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/agenda-api/pkg/config"
	"github.com/jhoicas/agenda-api/pkg/jwt"
	"github.com/jhoicas/agenda-api/pkg/logger"
)

func main() {
	latin1 := pflag.Bool("latin1", false, "el archivo está en ISO-8859-1 (exportación de Excel)")
	dryRun := pflag.Bool("dry-run", false, "solo valida el archivo, no escribe en la base")
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [--latin1] [--dry-run] clientes.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := readClients(r)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	log.Info().Int("rows", len(rows)).Msg("archivo leído")

	ctx := context.Background()
	var repo repository.ClientRepository
	if *dryRun {
		repo = memory.NewStore().Clients()
	} else {
		if cfg.DB.DatabaseURL == "" {
			log.Fatal().Msg("DATABASE_URL no definida")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		role := ""
		if key, err := jwt.InspectServiceKey(cfg.Supabase.Key); err == nil {
			role = key.Role
		}
		if _, err := postgres.NewSchemaProvisioner(pool, postgres.NewTxRunner(pool), role, log).Provision(ctx); err != nil {
			log.Fatal().Err(err).Msg("aprovisionamiento del esquema")
		}
		repo = postgres.NewClientRepository(pool)
	}

	created, failed := importRows(ctx, usecase.NewClientUseCase(repo), rows, log)
	log.Info().Int("created", created).Int("failed", failed).Bool("dry_run", *dryRun).Msg("importación terminada")
	if failed > 0 {
		os.Exit(1)
	}
}

// importRows crea un cliente por fila; una fila rechazada se registra y no detiene la importación.
func importRows(ctx context.Context, clients *usecase.ClientUseCase, rows []clientRow, log *logger.Logger) (created, failed int) {
	for _, row := range rows {
		c, err := clients.Create(ctx, row.patch)
		if err != nil {
			failed++
			log.Warn().Int("line", row.line).Str("detail", postgres.ErrorDetail(err)).Msg("fila rechazada")
			continue
		}
		created++
		log.Debug().Int64("id", c.ID).Str("name", c.Name).Msg("cliente creado")
	}
	return created, failed
}

type clientRow struct {
	line  int
	patch dto.ClientPatch
}

var columns = []string{"name", "phone", "email", "cpf", "street", "number", "complement", "neighborhood", "city", "state", "zip"}

// readClients convierte el CSV en payloads de creación. Acepta coma o punto y coma como separador.
func readClients(r io.Reader) ([]clientRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	cr := csv.NewReader(strings.NewReader(text))
	if first, _, _ := strings.Cut(text, "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, errors.New("encabezado: falta la columna name")
	}

	var rows []clientRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if strings.Join(valuesOf(get), "") == "" {
			continue
		}
		rows = append(rows, clientRow{line: line, patch: dto.ClientPatch{
			Name:  entity.Some(get("name")),
			Phone: entity.Some(get("phone")),
			Email: entity.Some(get("email")),
			CPF:   entity.Some(get("cpf")),
			Address: entity.Some(entity.Address{
				Street: get("street"), Number: get("number"), Complement: get("complement"),
				Neighborhood: get("neighborhood"), City: get("city"), State: get("state"), Zip: get("zip"),
			}),
		}})
	}
	return rows, nil
}

func valuesOf(get func(string) string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		out = append(out, get(c))
	}
	return out
}
