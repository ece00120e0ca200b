// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is one offering that students enroll in and instructors teach.
// CourseID is the human-readable identifier instructors know the course by
// (e.g. "CS2103-2026S1"); it is unique and is what students, instructors,
// and feedback records reference.
type Course struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID  string             `bson:"course_id" json:"course_id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"name_ci"`
	Institute string             `bson:"institute,omitempty" json:"institute,omitempty"`
	TimeZone  string             `bson:"time_zone" json:"time_zone"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"` // active | archived

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
