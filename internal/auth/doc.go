// Package auth provides the authorization core for the application.
//
// It implements a Role-Based Access Control (RBAC) system layered over
// groups and per-category rule sets:
//   - Users belong to multiple groups
//   - Each group owns at most one RuleSet per resource category
//   - A RuleSet carries four CRUD flags (view, add, change, delete)
//   - A user's effective permission for a category is the logical OR of
//     the matching rule sets across all of the user's groups
//   - Superusers bypass all checks; staff status is a prerequisite for
//     write access, not a substitute for role permissions
//
// # Effective permissions
//
// The Service type computes effective permissions fresh on every call so
// that membership changes are reflected immediately:
//   - EffectivePermissions: per-category CRUD flags for a user
//   - HasRolePermission: check a single (category, action) pair
//
// # Permission gate
//
// The Gate type decorates incoming operations with role checks. It decides
// allow/deny for an actor, a resource category and an action, and
// distinguishes a missing actor (not authenticated) from an actor lacking
// the required role (permission denied):
//   - Authorize: staff-or-read-only gate used by the management endpoints
//   - AuthorizeSelf: self-service gate that always lets users edit their
//     own identity record
//   - RequireSuperuser: strict gate for security sensitive operations,
//     never derivable from rule sets
//
// Example usage:
//
//	authService := auth.NewService(db)
//	gate := auth.NewGate(authService)
//
//	// Check a role permission in a handler
//	if err := gate.Authorize(actor, auth.CategoryPart, auth.ActionAdd); err != nil {
//	    // err is ErrNotAuthenticated or ErrPermissionDenied
//	}
package auth
