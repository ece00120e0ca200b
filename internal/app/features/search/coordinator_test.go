package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mdrews/courselens/internal/app/features/search"
	"github.com/mdrews/courselens/internal/domain/models"
)

// fakeBackend is an in-memory Backend with scripted results and call
// counters. It is shared by the coordinator and page tests.
type fakeBackend struct {
	mu sync.Mutex

	students    []models.Student
	studentsErr error
	comments    []models.CommentSearchResult
	commentsErr error

	privs   map[search.SectionKey]models.InstructorPrivilege
	privErr error

	studentCalls int
	commentCalls int
	privCalls    []search.SectionKey
}

func (b *fakeBackend) SearchStudents(ctx context.Context, key string) ([]models.Student, error) {
	b.mu.Lock()
	b.studentCalls++
	b.mu.Unlock()
	return b.students, b.studentsErr
}

func (b *fakeBackend) SearchComments(ctx context.Context, key string) ([]models.CommentSearchResult, error) {
	b.mu.Lock()
	b.commentCalls++
	b.mu.Unlock()
	return b.comments, b.commentsErr
}

func (b *fakeBackend) SectionPrivilege(ctx context.Context, courseID, sectionName string) (models.InstructorPrivilege, error) {
	b.mu.Lock()
	b.privCalls = append(b.privCalls, search.SectionKey{CourseID: courseID, SectionName: sectionName})
	b.mu.Unlock()
	if b.privErr != nil {
		return models.InstructorPrivilege{}, b.privErr
	}
	return b.privs[search.SectionKey{CourseID: courseID, SectionName: sectionName}], nil
}

func commentResult(course, session string) models.CommentSearchResult {
	return models.CommentSearchResult{
		Session: models.FeedbackSession{CourseID: course, Name: session},
		Questions: []models.QuestionComments{
			{QuestionNumber: 1, QuestionText: "Q1", Comments: []models.FeedbackComment{
				{CourseID: course, SessionName: session, QuestionNumber: 1, CommentText: "a comment"},
			}},
		},
	}
}

func TestRun_BothBranches(t *testing.T) {
	backend := &fakeBackend{
		students: []models.Student{student("C1", "S1", "Anna")},
		comments: []models.CommentSearchResult{commentResult("C1", "Midterm review")},
		privs: map[search.SectionKey]models.InstructorPrivilege{
			{CourseID: "C1", SectionName: "S1"}: {CanViewStudentInSections: true},
		},
	}

	res, err := search.Run(context.Background(), backend, search.SearchParams{
		Query: "anna", SearchStudents: true, SearchComments: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.CourseGroups) != 1 || len(res.CommentGroups) != 1 {
		t.Fatalf("expected both tables populated, got %d/%d",
			len(res.CourseGroups), len(res.CommentGroups))
	}
	if !res.CourseGroups[0].Rows[0].CanViewStudentInSections {
		t.Error("expected privilege flags applied before Run returns")
	}
	if backend.studentCalls != 1 || backend.commentCalls != 1 {
		t.Errorf("expected one call per branch, got %d/%d",
			backend.studentCalls, backend.commentCalls)
	}
}

func TestRun_StudentsOnly(t *testing.T) {
	backend := &fakeBackend{
		students: []models.Student{student("C1", "S1", "Anna")},
		comments: []models.CommentSearchResult{commentResult("C1", "never fetched")},
	}

	res, err := search.Run(context.Background(), backend, search.SearchParams{
		Query: "anna", SearchStudents: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.CommentGroups) != 0 {
		t.Errorf("expected empty comment placeholder, got %d groups", len(res.CommentGroups))
	}
	if backend.commentCalls != 0 {
		t.Errorf("expected comment branch untouched, got %d calls", backend.commentCalls)
	}
}

func TestRun_CommentsOnly(t *testing.T) {
	backend := &fakeBackend{
		students: []models.Student{student("C1", "S1", "never fetched")},
		comments: []models.CommentSearchResult{commentResult("C1", "Midterm review")},
	}

	res, err := search.Run(context.Background(), backend, search.SearchParams{
		Query: "midterm", SearchComments: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.CourseGroups) != 0 {
		t.Errorf("expected empty student placeholder, got %d groups", len(res.CourseGroups))
	}
	if backend.studentCalls != 0 {
		t.Errorf("expected student branch untouched, got %d calls", backend.studentCalls)
	}
}

func TestRun_StudentFailureFailsWhole(t *testing.T) {
	wantErr := errors.New("students index offline")
	backend := &fakeBackend{
		studentsErr: wantErr,
		comments:    []models.CommentSearchResult{commentResult("C1", "Midterm review")},
	}

	res, err := search.Run(context.Background(), backend, search.SearchParams{
		Query: "anna", SearchStudents: true, SearchComments: true,
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the student error, got %v", err)
	}
	if len(res.CourseGroups) != 0 || len(res.CommentGroups) != 0 {
		t.Errorf("expected zero Results on failure, got %+v", res)
	}
}

func TestRun_PrivilegeFailureFailsWhole(t *testing.T) {
	wantErr := errors.New("privilege lookup failed")
	backend := &fakeBackend{
		students: []models.Student{student("C1", "S1", "Anna")},
		comments: []models.CommentSearchResult{commentResult("C1", "Midterm review")},
		privErr:  wantErr,
	}

	res, err := search.Run(context.Background(), backend, search.SearchParams{
		Query: "anna", SearchStudents: true, SearchComments: true,
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the privilege error, got %v", err)
	}
	if len(res.CommentGroups) != 0 {
		t.Error("expected no partial comment results on failure")
	}
}

func TestRun_BothBranchesFailSingleError(t *testing.T) {
	backend := &fakeBackend{
		studentsErr: errors.New("students down"),
		commentsErr: errors.New("comments down"),
	}

	_, err := search.Run(context.Background(), backend, search.SearchParams{
		Query: "anna", SearchStudents: true, SearchComments: true,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}
