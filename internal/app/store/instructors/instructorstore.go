// internal/app/store/instructors/instructorstore.go
package instructors

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrews/courselens/internal/domain/models"
)

// Store provides access to the instructors collection. Each document is
// one person's instructor role in one course, keyed by (email, course_id).
type Store struct {
	c *mongo.Collection
}

// New creates a Store backed by the given database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("instructors")}
}

var (
	// ErrDuplicateInstructor is returned when the (email, course) pair is
	// already registered.
	ErrDuplicateInstructor = errors.New("this instructor is already registered in the course")

	errBadRole = errors.New("invalid instructor role")
)

// GetByEmailAndCourse fetches the instructor record for one course.
func (s *Store) GetByEmailAndCourse(ctx context.Context, email, courseID string) (*models.Instructor, error) {
	var ins models.Instructor
	err := s.c.FindOne(ctx, bson.M{
		"email":     strings.ToLower(strings.TrimSpace(email)),
		"course_id": courseID,
	}).Decode(&ins)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

// CoursesFor returns the ids of every course the instructor teaches,
// sorted for deterministic output.
func (s *Store) CoursesFor(ctx context.Context, email string) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "course_id", bson.M{
		"email": strings.ToLower(strings.TrimSpace(email)),
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// SectionPrivilege returns the instructor's effective privilege for one
// section of a course. An instructor with no record in the course gets the
// zero privilege rather than an error, so callers render locked-down rows
// instead of failing the whole search.
func (s *Store) SectionPrivilege(ctx context.Context, email, courseID, sectionName string) (models.InstructorPrivilege, error) {
	var ins models.Instructor
	err := s.c.FindOne(ctx, bson.M{
		"email":     strings.ToLower(strings.TrimSpace(email)),
		"course_id": courseID,
	}).Decode(&ins)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.InstructorPrivilege{}, nil
	}
	if err != nil {
		return models.InstructorPrivilege{}, err
	}
	return ins.Privileges.ForSection(sectionName), nil
}

// Create inserts a new instructor record. The email is lowercased, the
// folded name field is derived, and the role is validated. A zero
// privilege document is filled in from the role's standard privileges.
// Returns ErrDuplicateInstructor when the unique (email, course_id) index
// rejects the insert.
func (s *Store) Create(ctx context.Context, ins *models.Instructor) error {
	if ins.ID.IsZero() {
		ins.ID = primitive.NewObjectID()
	}
	ins.Email = strings.ToLower(strings.TrimSpace(ins.Email))
	ins.Name = strings.TrimSpace(ins.Name)
	ins.NameCI = text.Fold(ins.Name)

	switch ins.Role {
	case "owner", "manager", "tutor", "custom":
	default:
		return errBadRole
	}

	if ins.Privileges.SectionLevel == nil && ins.Privileges.CourseLevel == (models.InstructorPrivilege{}) {
		ins.Privileges = models.PrivilegesForRole(ins.Role)
	}

	now := time.Now()
	ins.CreatedAt = now
	ins.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ins); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateInstructor
		}
		return err
	}
	return nil
}
