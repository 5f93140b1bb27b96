package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain"
	"github.com/jhoicas/agenda-api/pkg/logger"
)

// errorResponder traduce errores de dominio y del almacén a respuestas JSON.
type errorResponder struct {
	log    *logger.Logger
	detail func(error) string
}

func newErrorResponder(log *logger.Logger, detail func(error) string) errorResponder {
	if log == nil {
		log = logger.Nop()
	}
	if detail == nil {
		detail = func(err error) string { return err.Error() }
	}
	return errorResponder{log: log, detail: detail}
}

// respond escribe la respuesta de error. op describe la operación fallida y se usa como mensaje
// en los errores internos.
func (r errorResponder) respond(c *fiber.Ctx, err error, op string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()})
	case errors.Is(err, domain.ErrClientNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CLIENT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}

	detail := r.detail(err)
	r.log.Error().Err(err).
		Str("request_id", RequestID(c)).
		Str("detail", detail).
		Msg(op)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: op, Error: detail,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo de la petición inválido", Error: err.Error(),
	})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_ID", Message: "id debe ser un entero positivo",
	})
}
