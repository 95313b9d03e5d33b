// Package rayid assigns every request a correlation id.
//
// The id is taken from the X-Ray-ID header when the caller supplies one,
// generated otherwise, stored in the request locals for logger.WithRayID,
// and echoed back in the response.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const headerName = "X-Ray-ID"

// New returns the ray-id middleware.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(headerName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(headerName, rid)
		return c.Next()
	}
}
