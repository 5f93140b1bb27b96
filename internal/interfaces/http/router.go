package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
	"github.com/jhoicas/agenda-api/pkg/logger"
)

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string
	Logger      *logger.Logger
}

// NewApp crea la aplicación Fiber con recover, CORS y log de acceso.
// Los errores no manejados se devuelven con el mismo cuerpo que los de la API.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: errorCode(code), Message: err.Error()})
		},
	})
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(recover.New())
	app.Use(RequestLogger(cfg.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + HeaderRequestID,
	}))
	return app
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	}
	return "INTERNAL"
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC *usecase.ClientUseCase
	VisitUC  *usecase.VisitUseCase
	Service  string
	// Ping verifica el almacén en /health; nil omite la verificación.
	Ping func(ctx context.Context) error
	// ErrorDetail extrae el detalle técnico de un error del almacén; nil usa err.Error().
	ErrorDetail func(error) string
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	errs := newErrorResponder(deps.Logger, deps.ErrorDetail)

	app.Get("/health", NewHealthHandler(deps.Service, deps.Ping).Check)

	api := app.Group("/api")

	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.VisitUC, errs)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Get("/:id/visits", clientHandler.Visits)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	visits := api.Group("/visits")
	visitHandler := NewVisitHandler(deps.VisitUC, errs)
	visits.Get("/", visitHandler.List)
	visits.Post("/", visitHandler.Create)
	visits.Put("/:id", visitHandler.Update)
	visits.Delete("/:id", visitHandler.Delete)
}
