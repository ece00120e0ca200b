package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, id, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a user in context")
	}
	if role != "visitor" || name != "" || !id.IsZero() {
		t.Errorf("unexpected visitor values: role=%q name=%q id=%v", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-object-id", Role: "admin"})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed user ID")
	}
}

func TestUserCtx_NormalizesRole(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: id.Hex(), Name: "Pat", Email: "pat@example.edu", Role: "Instructor",
	})

	role, name, gotID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "instructor" {
		t.Errorf("role not lowercased: %q", role)
	}
	if name != "Pat" || gotID != id {
		t.Errorf("unexpected values: name=%q id=%v", name, gotID)
	}
}

func TestUserEmail(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := authz.UserEmail(req); got != "" {
		t.Errorf("expected empty email when signed out, got %q", got)
	}

	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(), Email: "Pat@Example.EDU", Role: "instructor",
	})
	if got := authz.UserEmail(req); got != "pat@example.edu" {
		t.Errorf("expected lowercased email, got %q", got)
	}
}

func TestCanSearch(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"instructor", true},
		{"student", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/search", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{
				ID: primitive.NewObjectID().Hex(), Role: tt.role,
			})
			if got := authz.CanSearch(req); got != tt.want {
				t.Errorf("CanSearch(%s) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
