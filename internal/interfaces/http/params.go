package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// paramID lee el parámetro de ruta como entero positivo de 64 bits.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
