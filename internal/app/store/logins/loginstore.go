// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Providers recorded with each sign-in.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Record is one successful sign-in. The accounts store keeps only the
// latest login time; this collection keeps every sign-in so unusual
// access patterns can be traced.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID primitive.ObjectID `bson:"account_id"`
	Email     string             `bson:"email"`
	Provider  string             `bson:"provider"`
	IP        string             `bson:"ip"`
	UserAgent string             `bson:"user_agent,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Record inserts a history entry for a successful sign-in, with the
// client address and user agent taken from the request.
func (s *Store) Record(ctx context.Context, r *http.Request, accountID primitive.ObjectID, email, provider string) error {
	rec := Record{
		AccountID: accountID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Provider:  provider,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// XFF may be a list; the first entry is the original client.
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
