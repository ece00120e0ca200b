// internal/app/store/accounts/accountstore.go
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrews/courselens/internal/domain/models"
)

// Store provides access to the accounts collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

var (
	// ErrDuplicateEmail is returned when an account with the same email
	// already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")

	errBadRole   = errors.New("invalid account role")
	errBadStatus = errors.New("invalid account status")
)

// GetByID fetches an account by its ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail fetches an account by email. The lookup is case-insensitive
// because emails are stored lowercased.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByGoogleID fetches the account linked to a Google subject identifier.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account. Email is lowercased, the folded name field
// is derived, and role/status are validated. Returns ErrDuplicateEmail when
// the unique email index rejects the insert.
func (s *Store) Create(ctx context.Context, a *models.Account) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.FullName = strings.TrimSpace(a.FullName)
	a.FullNameCI = text.Fold(a.FullName)

	switch a.Role {
	case "admin", "instructor":
	default:
		return errBadRole
	}

	if a.Status == "" {
		a.Status = "active"
	}
	switch a.Status {
	case "active", "disabled":
	default:
		return errBadStatus
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// LinkGoogleID records the Google subject identifier on an existing account
// so later sign-ins can match on it directly.
func (s *Store) LinkGoogleID(ctx context.Context, id primitive.ObjectID, googleID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"google_id":  googleID,
		"updated_at": time.Now(),
	}})
	return err
}

// TouchLogin stamps last_login_at on a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"last_login_at": now,
		"updated_at":    now,
	}})
	return err
}

// EnsureAdmin upserts the bootstrap admin account. When an account with the
// email already exists it is left untouched except for being promoted to
// admin and re-activated; the password hash is only written on insert so a
// changed config value never silently rotates a live credential.
func (s *Store) EnsureAdmin(ctx context.Context, email, fullName, passwordHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	now := time.Now()

	_, err := s.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"role":       "admin",
				"status":     "active",
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"_id":           primitive.NewObjectID(),
				"email":         email,
				"full_name":     fullName,
				"full_name_ci":  text.Fold(fullName),
				"password_hash": passwordHash,
				"created_at":    now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
