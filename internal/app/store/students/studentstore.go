// internal/app/store/students/studentstore.go
package students

import (
	"context"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrews/courselens/internal/domain/models"
)

// searchLimit caps how many students a single search returns. The page
// renders the full result set, so an unbounded query on a large deployment
// would hold too much in memory.
const searchLimit = 500

// Store provides access to the students collection.
type Store struct {
	c *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// SearchByKey finds students whose name, email, section, or team starts
// with the search key, folded for case- and diacritic-insensitive matching.
// A key containing '@' pivots to an email-only match.
//
// courseIDs scopes the search: nil means unscoped (admins see every
// course), while a non-nil slice restricts matches to those courses. An
// empty non-nil slice therefore matches nothing.
//
// Results are sorted by course, section, team, then name so grouping by
// course downstream sees each course's students contiguously and in a
// stable order.
func (s *Store) SearchByKey(ctx context.Context, key string, courseIDs []string) ([]models.Student, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, nil
	}

	qFold := text.Fold(trimmed)
	hiFold := qFold + "￿"
	sLower := strings.ToLower(trimmed)
	hiEmail := sLower + "￿"

	filter := bson.M{}
	if courseIDs != nil {
		filter["course_id"] = bson.M{"$in": courseIDs}
	}

	if strings.Contains(trimmed, "@") {
		filter["email"] = bson.M{"$gte": sLower, "$lt": hiEmail}
	} else {
		filter["$or"] = []bson.M{
			{"name_ci": bson.M{"$gte": qFold, "$lt": hiFold}},
			{"email": bson.M{"$gte": sLower, "$lt": hiEmail}},
			{"section_ci": bson.M{"$gte": qFold, "$lt": hiFold}},
			{"team_ci": bson.M{"$gte": qFold, "$lt": hiFold}},
		}
	}

	find := options.Find().
		SetSort(bson.D{
			{Key: "course_id", Value: 1},
			{Key: "section_ci", Value: 1},
			{Key: "team_ci", Value: 1},
			{Key: "name_ci", Value: 1},
			{Key: "_id", Value: 1},
		}).
		SetLimit(searchLimit)

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Student
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
