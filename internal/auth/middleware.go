package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ActorKey is the fiber locals key under which the authentication
// middleware stores the resolved actor.
const ActorKey = "actor"

// CurrentActor returns the actor resolved by the authentication middleware,
// or nil if the request is unauthenticated.
func CurrentActor(c *fiber.Ctx) *Actor {
	actor, ok := c.Locals(ActorKey).(*Actor)
	if !ok {
		return nil
	}

	return actor
}

// HandleGateError converts a gate decision into an HTTP response.
// A nil error yields no response and ok=true.
func HandleGateError(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotAuthenticated):
		return false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Authentication credentials were not provided.",
		})
	case errors.Is(err, ErrPermissionDenied):
		return false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"detail": "You do not have permission to perform this action.",
		})
	default:
		log.Error().Err(err).Msg("permission check failed")

		return false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Internal Server Error",
		})
	}
}

// RequireAuthenticated creates Fiber middleware that rejects requests
// without a resolved actor.
func RequireAuthenticated(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, resp := HandleGateError(c, gate.RequireAuthenticated(CurrentActor(c))); !ok {
			return resp
		}

		return c.Next()
	}
}

// RequireRole creates Fiber middleware that applies the staff-or-read-only
// gate for a fixed (category, action) pair.
func RequireRole(gate *Gate, category, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := CurrentActor(c)

		if ok, resp := HandleGateError(c, gate.Authorize(actor, category, action)); !ok {
			if actor != nil && actor.User != nil {
				log.Warn().Uint64("user_id", actor.User.ID).Str("category", category).Str("action", action).
					Msg("User lacks required role permission")
			}

			return resp
		}

		return c.Next()
	}
}

// RequireSuperuser creates Fiber middleware for superuser-only routes.
func RequireSuperuser(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := CurrentActor(c)

		if ok, resp := HandleGateError(c, gate.RequireSuperuser(actor)); !ok {
			if actor != nil && actor.User != nil {
				log.Warn().Uint64("user_id", actor.User.ID).Msg("Superuser-only route denied")
			}

			return resp
		}

		return c.Next()
	}
}
