package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
)

// VisitHandler maneja las peticiones HTTP de visitas.
type VisitHandler struct {
	uc   *usecase.VisitUseCase
	errs errorResponder
}

// NewVisitHandler construye el handler.
func NewVisitHandler(uc *usecase.VisitUseCase, errs errorResponder) *VisitHandler {
	return &VisitHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar visitas
// @Description  Visitas por fecha descendente con el nombre actual del cliente en clientName.
// @Tags         visits
// @Produce      json
// @Success      200  {array}   dto.VisitListItem
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/visits [get]
func (h *VisitHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err, "error al listar visitas")
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear visita
// @Description  date acepta RFC 3339 o datetime-local (2006-01-02T15:04) en la zona configurada.
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        body  body      dto.VisitPatch  true  "client_id, date, subject y status son obligatorios"
// @Success      201   {object}  dto.VisitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/visits [post]
func (h *VisitHandler) Create(c *fiber.Ctx) error {
	var in dto.VisitPatch
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c, err)
	}
	visit, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err, "error al crear la visita")
	}
	return c.Status(fiber.StatusCreated).JSON(visit)
}

// Update godoc
// @Summary      Actualizar visita
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "ID de la visita"
// @Param        body  body      dto.VisitPatch  true  "campos a modificar"
// @Success      200   {object}  dto.VisitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/visits/{id} [put]
func (h *VisitHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.VisitPatch
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c, err)
	}
	visit, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.errs.respond(c, err, "error al actualizar la visita")
	}
	return c.JSON(visit)
}

// Delete godoc
// @Summary      Eliminar visita
// @Tags         visits
// @Param        id   path  int  true  "ID de la visita"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/visits/{id} [delete]
func (h *VisitHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.errs.respond(c, err, "error al eliminar la visita")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
