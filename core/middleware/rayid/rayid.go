package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray id on responses.
const Header = "X-Ray-ID"

// New creates the ray id middleware. Every request gets a fresh uuid,
// stored in locals for the logger and echoed on the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.New().String()
		c.Locals("ray_id", id)
		c.Set(Header, id)
		return c.Next()
	}
}
