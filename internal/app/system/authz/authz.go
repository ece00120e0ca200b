// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/mdrews/courselens/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles known to the app. Accounts hold exactly one.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
)

// UserCtx returns the user's role (lowercased), name, account ObjectID,
// and a found flag. If no user is present or the session's ID is
// malformed it returns "visitor", "", NilObjectID, false, so ok=true
// always means a valid authenticated user.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed ID in session. Fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// UserEmail returns the signed-in user's email, or "" when signed out.
// Instructor records are keyed by email, so most course-scoped lookups
// start here.
func UserEmail(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return strings.ToLower(user.Email)
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleAdmin
}

// IsInstructor reports whether the current request's user is an instructor.
func IsInstructor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleInstructor
}

// CanSearch reports whether the current user may use the search page.
// Admins and instructors can; anyone else cannot.
func CanSearch(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == RoleAdmin || role == RoleInstructor)
}
