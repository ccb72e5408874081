package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the request/response header carrying the ray id.
const Header = "X-Ray-Id"

// New returns a middleware that assigns every request a ray id.
// An incoming X-Ray-Id is honored so upstream proxies can correlate;
// otherwise a fresh UUID is generated. The id is stored in Locals under
// "ray_id" for logger.WithRayID and echoed on the response.
// FromCtx returns the request's ray id, or "" outside the middleware.
func FromCtx(c *fiber.Ctx) string {
	if rid, ok := c.Locals("ray_id").(string); ok {
		return rid
	}
	return ""
}

func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
