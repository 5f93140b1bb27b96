// @title        Agenda API
// @version      1.0
// @description  Gestión de clientes y visitas.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jhoicas/agenda-api/docs"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
	"github.com/jhoicas/agenda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/agenda-api/internal/interfaces/http"
	"github.com/jhoicas/agenda-api/pkg/config"
	"github.com/jhoicas/agenda-api/pkg/jwt"
	"github.com/jhoicas/agenda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})

	if err := cfg.Validate(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				log.Error().Str("problem", p).Msg("configuración inválida")
			}
		}
		log.Fatal().Err(err).Msg("no se puede iniciar sin credenciales válidas")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("supabase_url", cfg.Supabase.URL).
		Msg("iniciando aplicación")

	loc, _ := cfg.App.Location()
	serviceKey, err := jwt.InspectServiceKey(cfg.Supabase.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("SUPABASE_KEY")
	}
	if !serviceKey.ExpiresAt.IsZero() && serviceKey.ExpiresAt.Before(time.Now()) {
		log.Warn().Time("expires_at", serviceKey.ExpiresAt).Msg("SUPABASE_KEY expirada")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	provisioner := postgres.NewSchemaProvisioner(pool, postgres.NewTxRunner(pool), serviceKey.Role, log.Component("schema"))
	report, err := provisioner.Provision(ctx)
	if err != nil {
		log.Error().Str("detail", postgres.ErrorDetail(err)).Msg("aprovisionamiento del esquema")
		pool.Close()
		log.Fatal().Err(err).Msg("no se pudo preparar la base de datos")
	}
	log.Info().Str("state", string(report.Final())).Ints("applied", report.Applied).Msg("esquema listo")

	clientRepo := postgres.NewClientRepository(pool)
	visitRepo := postgres.NewVisitRepository(pool)
	clientUC := usecase.NewClientUseCase(clientRepo)
	visitUC := usecase.NewVisitUseCase(visitRepo, clientRepo, loc)

	httpLog := log.Component("http")
	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      httpLog,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if path, err := docsFile(cfg.Docs.FilePath); err != nil {
		log.Warn().Err(err).Msg("swagger UI deshabilitada")
	} else {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: path,
			Path:     "docs",
			Title:    "Agenda API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:    clientUC,
		VisitUC:     visitUC,
		Service:     cfg.App.Name,
		Ping:        pool.Ping,
		ErrorDetail: postgres.ErrorDetail,
		Logger:      httpLog,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// docsFile devuelve path si existe; si no, vuelca el documento registrado por swag a un archivo temporal.
func docsFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	f, err := os.CreateTemp("", "agenda-swagger-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(docs.SwaggerInfo.ReadDoc()); err != nil {
		return "", err
	}
	return f.Name(), nil
}
