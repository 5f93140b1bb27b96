package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/application/usecase"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc     *usecase.ClientUseCase
	visits *usecase.VisitUseCase
	errs   errorResponder
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase, visits *usecase.VisitUseCase, errs errorResponder) *ClientHandler {
	return &ClientHandler{uc: uc, visits: visits, errs: errs}
}

// List godoc
// @Summary      Listar clientes
// @Description  Todos los clientes ordenados por nombre (orden de bytes, mayúsculas primero).
// @Tags         clients
// @Produce      json
// @Success      200  {array}   dto.ClientResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err, "error al listar clientes")
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Produce      json
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	client, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return h.errs.respond(c, err, "error al obtener el cliente")
	}
	if client == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
	}
	return c.JSON(client)
}

// Visits godoc
// @Summary      Visitas de un cliente
// @Description  Visitas del cliente por fecha descendente.
// @Tags         clients
// @Produce      json
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {array}   dto.VisitListItem
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/visits [get]
func (h *ClientHandler) Visits(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	list, err := h.visits.ListByClient(c.UserContext(), id)
	if err != nil {
		return h.errs.respond(c, err, "error al listar las visitas del cliente")
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear cliente
// @Description  phone, email y cpf vacíos se guardan como null; una dirección sin datos también.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ClientPatch  true  "name es obligatorio"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientPatch
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c, err)
	}
	client, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err, "error al crear el cliente")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// Update godoc
// @Summary      Actualizar cliente
// @Description  Solo se modifican los campos presentes en el cuerpo.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID del cliente"
// @Param        body  body      dto.ClientPatch  true  "campos a modificar"
// @Success      200   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.ClientPatch
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c, err)
	}
	client, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.errs.respond(c, err, "error al actualizar el cliente")
	}
	return c.JSON(client)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Description  Elimina también sus visitas. Idempotente.
// @Tags         clients
// @Param        id   path  int  true  "ID del cliente"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.errs.respond(c, err, "error al eliminar el cliente")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
