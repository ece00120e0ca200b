// internal/domain/models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is one enrollment of a person in a course. The same person
// enrolled in two courses appears as two Student records.
//
// NOTE:
//   - CourseID is the human-readable course identifier (Course.CourseID),
//     not a Mongo ObjectID reference. Search results group on it directly.
//   - Student is a comparable value struct; result shaping deduplicates
//     records by whole-value equality, so keep slice/map/pointer fields out.
type Student struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID    string             `bson:"course_id" json:"course_id"`
	Email       string             `bson:"email" json:"email"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	SectionName string             `bson:"section_name" json:"section_name"`
	SectionCI   string             `bson:"section_ci" json:"section_ci"`
	TeamName    string             `bson:"team_name" json:"team_name"`
	TeamCI      string             `bson:"team_ci" json:"team_ci"`
	JoinState   string             `bson:"join_state" json:"join_state"` // joined | invited
	Remarks     string             `bson:"remarks,omitempty" json:"remarks,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
