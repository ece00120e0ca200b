// internal/app/store/accounts/fetcher.go
package accounts

import (
	"context"

	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/timeouts"
	"github.com/mdrews/courselens/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher. The session middleware calls it on
// every request so role changes and disabled accounts take effect without
// waiting for the cookie to expire.
type Fetcher struct {
	accounts *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{accounts: db.Collection("accounts")}
}

// FetchUser retrieves an account by ID. Returning nil (missing, disabled,
// or a bad ID) downgrades the session to signed out.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var a models.Account
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"email":     1,
		"full_name": 1,
		"role":      1,
		"status":    1,
	})
	if err := f.accounts.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&a); err != nil {
		return nil
	}

	if a.Status == "disabled" {
		return nil
	}

	return &auth.SessionUser{
		ID:    a.ID.Hex(),
		Name:  a.FullName,
		Email: a.Email,
		Role:  a.Role,
	}
}
