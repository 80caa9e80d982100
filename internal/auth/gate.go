package auth

// Gate decorates incoming operations with role checks. It is a pure
// decision layer over the evaluator: allow is a nil error, deny is either
// ErrNotAuthenticated (no actor) or ErrPermissionDenied (actor lacks the
// required role or flag).
type Gate struct {
	service *Service
}

// NewGate creates a new permission gate backed by the given auth service.
func NewGate(service *Service) *Gate {
	return &Gate{service: service}
}

// RequireAuthenticated allows any authenticated actor.
func (g *Gate) RequireAuthenticated(actor *Actor) error {
	if actor == nil || actor.User == nil {
		return ErrNotAuthenticated
	}

	return nil
}

// Authorize decides whether the actor may perform the given action on the
// given resource category under the staff-or-read-only policy:
//
//   - view is allowed for every authenticated actor
//   - write actions (add, change, delete) require the actor to be staff
//     and the evaluator to grant the action for the category
//   - superusers pass every check
func (g *Gate) Authorize(actor *Actor, category, action string) error {
	if err := g.RequireAuthenticated(actor); err != nil {
		return err
	}

	if actor.User.IsSuperuser {
		return nil
	}

	if action == ActionView {
		return nil
	}

	// Staff status is a prerequisite for write access, not a substitute
	// for the role permission.
	if !actor.User.IsStaff {
		return ErrPermissionDenied
	}

	allowed, err := g.service.HasRolePermission(actor.User, category, action)
	if err != nil {
		return err
	}

	if !allowed {
		return ErrPermissionDenied
	}

	return nil
}

// AuthorizeSelf decides whether the actor may perform the given action on
// the identity record of the user with targetUserID. An actor touching
// their own record is always permitted regardless of rule set state; for
// any other target the meta-administrative gate applies.
func (g *Gate) AuthorizeSelf(actor *Actor, targetUserID uint64, action string) error {
	if err := g.RequireAuthenticated(actor); err != nil {
		return err
	}

	if actor.User.ID == targetUserID {
		return nil
	}

	return g.Authorize(actor, CategoryAdmin, action)
}

// RequireSuperuser is the strict gate for security sensitive operations
// such as forcing another user's password. It is granted only to
// superusers and never derivable from rule sets.
func (g *Gate) RequireSuperuser(actor *Actor) error {
	if err := g.RequireAuthenticated(actor); err != nil {
		return err
	}

	if !actor.User.IsSuperuser {
		return ErrPermissionDenied
	}

	return nil
}
