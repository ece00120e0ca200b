package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mdrews/courselens/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCourse creates a test course.
func (f *Fixtures) CreateCourse(ctx context.Context, courseID, name string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	course := models.Course{
		ID:       primitive.NewObjectID(),
		CourseID: courseID,
		Name:     name,
		NameCI:   text.Fold(name),
		TimeZone: "America/Chicago",
		Status:   "active",

		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

// CreateStudent creates a test student enrollment.
func (f *Fixtures) CreateStudent(ctx context.Context, courseID, name, email, section, team string) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	student := models.Student{
		ID:          primitive.NewObjectID(),
		CourseID:    courseID,
		Email:       email,
		Name:        name,
		NameCI:      text.Fold(name),
		SectionName: section,
		SectionCI:   text.Fold(section),
		TeamName:    team,
		TeamCI:      text.Fold(team),
		JoinState:   "joined",

		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("students").InsertOne(ctx, student); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return student
}

// CreateInstructor creates a test instructor record with the standard
// privileges for the given role.
func (f *Fixtures) CreateInstructor(ctx context.Context, courseID, email, name, role string) models.Instructor {
	f.t.Helper()
	return f.CreateInstructorWithPrivileges(ctx, courseID, email, name, role, models.PrivilegesForRole(role))
}

// CreateInstructorWithPrivileges creates a test instructor with an
// explicit privilege document, for section-override scenarios.
func (f *Fixtures) CreateInstructorWithPrivileges(ctx context.Context, courseID, email, name, role string, privs models.InstructorPrivileges) models.Instructor {
	f.t.Helper()

	now := time.Now().UTC()
	inst := models.Instructor{
		ID:         primitive.NewObjectID(),
		CourseID:   courseID,
		Email:      email,
		Name:       name,
		NameCI:     text.Fold(name),
		Role:       role,
		Privileges: privs,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("instructors").InsertOne(ctx, inst); err != nil {
		f.t.Fatalf("failed to create test instructor: %v", err)
	}
	return inst
}

// CreateFeedbackSession creates a test feedback session.
func (f *Fixtures) CreateFeedbackSession(ctx context.Context, courseID, name string) models.FeedbackSession {
	f.t.Helper()

	now := time.Now().UTC()
	session := models.FeedbackSession{
		ID:       primitive.NewObjectID(),
		CourseID: courseID,
		Name:     name,
		TimeZone: "America/Chicago",
		Status:   "open",
		StartAt:  now.Add(-24 * time.Hour),
		EndAt:    now.Add(24 * time.Hour),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("feedback_sessions").InsertOne(ctx, session); err != nil {
		f.t.Fatalf("failed to create test feedback session: %v", err)
	}
	return session
}

// CreateComment creates a test feedback comment in the given session.
func (f *Fixtures) CreateComment(ctx context.Context, courseID, sessionName string, questionNumber int, questionText, commentText string) models.FeedbackComment {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.FeedbackComment{
		ID:             primitive.NewObjectID(),
		CourseID:       courseID,
		SessionName:    sessionName,
		QuestionNumber: questionNumber,
		QuestionText:   questionText,
		GiverName:      "Alex Giver",
		RecipientName:  "Riley Recipient",
		ResponseText:   "The team communicated well.",
		CommentText:    commentText,
		CommentTextCI:  text.Fold(commentText),
		CommentGiver:   "instructor@example.edu",

		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("feedback_comments").InsertOne(ctx, comment); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}

// CreateAccount creates a sign-in account with a bcrypt password hash.
func (f *Fixtures) CreateAccount(ctx context.Context, email, name, role, password string) models.Account {
	f.t.Helper()
	return f.createAccount(ctx, email, name, role, password, "active")
}

// CreateDisabledAccount creates an account that must be rejected at sign-in.
func (f *Fixtures) CreateDisabledAccount(ctx context.Context, email, name, role, password string) models.Account {
	f.t.Helper()
	return f.createAccount(ctx, email, name, role, password, "disabled")
}

func (f *Fixtures) createAccount(ctx context.Context, email, name, role, password, status string) models.Account {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	account := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		FullName:     name,
		FullNameCI:   text.Fold(name),
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("accounts").InsertOne(ctx, account); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return account
}
