// Package permissions implements the access-control predicates of the API
// as small pure functions over the resolved caller. Each endpoint composes
// a coarse request-level check with, where a single resource is targeted,
// an object-level check.
package permissions

import (
	"net/http"

	"kritika/internal/models"
)

// Caller is the authenticated identity resolved from a request credential.
// A nil *Caller means the request is anonymous; every predicate must treat
// nil as "no role" rather than dereference it.
type Caller struct {
	ID        string
	Username  string
	Role      models.Role
	Superuser bool
}

// IsSafeMethod reports whether the HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isAdmin(c *Caller) bool {
	return c != nil && (c.Superuser || c.Role == models.RoleAdmin)
}

func isModerator(c *Caller) bool {
	return c != nil && c.Role == models.RoleModerator
}

// AdminOrReadOnly allows reads for anyone and writes for admins and
// superusers. Applied to the catalog write endpoints.
func AdminOrReadOnly(c *Caller, method string) bool {
	return IsSafeMethod(method) || isAdmin(c)
}

// AuthorModeratorAdminOrReadOnly is the coarse request-level gate for
// review and comment endpoints: reads for anyone, writes for any
// authenticated caller. Creation passes on this check alone since the
// object does not exist yet.
func AuthorModeratorAdminOrReadOnly(c *Caller, method string) bool {
	return IsSafeMethod(method) || c != nil
}

// AuthorModeratorAdminOrReadOnlyObject is the object-level gate for a
// resource owned by authorID: reads for anyone, writes for the author, a
// moderator, an admin or a superuser.
func AuthorModeratorAdminOrReadOnlyObject(c *Caller, method, authorID string) bool {
	if IsSafeMethod(method) {
		return true
	}
	if c == nil {
		return false
	}
	return c.ID == authorID || isModerator(c) || isAdmin(c)
}

// AdminOnly allows admins and superusers, any method. Applied to the
// administrative user-management endpoints.
func AdminOnly(c *Caller) bool {
	return isAdmin(c)
}
