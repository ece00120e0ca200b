package search_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	uierrors "github.com/mdrews/courselens/internal/app/features/errors"
	"github.com/mdrews/courselens/internal/app/features/search"
	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/privcache"
	"github.com/mdrews/courselens/internal/app/system/statusmsg"
	"github.com/mdrews/courselens/internal/testutil"
)

func newTestHandler(t *testing.T) (*search.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "courselens-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	flash := statusmsg.New(sm, logger)
	errLog := uierrors.NewErrorLogger(logger)
	cache := privcache.NewMemory(time.Minute)

	return search.NewHandler(db, errLog, flash, cache, logger), testutil.NewFixtures(t, db)
}

// serve runs a handler method that ends in a template render. The template
// engine is not booted in tests, so the render itself may panic; everything
// before it has still executed.
func serve(fn http.HandlerFunc, rec *httptest.ResponseRecorder, req *http.Request) {
	defer func() {
		recover()
	}()
	fn(rec, req)
}

func TestNewHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestServeSearch_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/search", nil)
	rec := httptest.NewRecorder()
	h.ServeSearch(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/unauthorized" {
		t.Errorf("Location: got %q, want %q", loc, "/unauthorized")
	}
}

func TestServeExport_NothingSearchedRedirects(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest("GET", "/search/export.xlsx", testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/search" {
		t.Errorf("Location: got %q, want %q", loc, "/search")
	}
}

func TestServeSearch_ThenExport(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "cs101.2026", "Intro to CS")
	fixtures.CreateInstructor(ctx, "cs101.2026", "owner@example.edu", "Olive Owner", "owner")
	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice@example.com", "Section A", "Team 1")

	user := testutil.InstructorUser("owner@example.edu")

	req := testutil.NewAuthenticatedRequest("GET", "/search?search_key=alice&search_students=on", user)
	serve(h.ServeSearch, httptest.NewRecorder(), req)

	// The export reads the page the search populated.
	req = testutil.NewAuthenticatedRequest("GET", "/search/export.xlsx", user)
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 student row, got %d rows", len(rows))
	}
	if rows[0][0] != "Course" {
		t.Errorf("expected header row, got %v", rows[0])
	}
	got := rows[1]
	if got[0] != "cs101.2026" || got[3] != "Alice Anderson" {
		t.Errorf("unexpected student row %v", got)
	}
	// Course owners hold both privileges.
	if got[6] != "Yes" || got[7] != "Yes" {
		t.Errorf("expected Yes/Yes privilege columns, got %v", got)
	}
}

func TestServeSearch_ScopedToOwnCourses(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "cs101.2026", "Intro to CS")
	fixtures.CreateCourse(ctx, "phys201.2026", "Physics II")
	fixtures.CreateInstructor(ctx, "cs101.2026", "tutor@example.edu", "Tina Tutor", "tutor")
	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice.cs@example.com", "Section A", "Team 1")
	fixtures.CreateStudent(ctx, "phys201.2026", "Alice Anderson", "alice.phys@example.com", "Section A", "Team 1")

	user := testutil.InstructorUser("tutor@example.edu")

	req := testutil.NewAuthenticatedRequest("GET", "/search?search_key=alice&search_students=on", user)
	serve(h.ServeSearch, httptest.NewRecorder(), req)

	req = testutil.NewAuthenticatedRequest("GET", "/search/export.xlsx", user)
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected only the instructor's own course, got %d data rows", len(rows)-1)
	}
	if rows[1][4] != "alice.cs@example.com" {
		t.Errorf("expected the cs101 student, got %v", rows[1])
	}
	// Tutors may view but not modify.
	if rows[1][6] != "Yes" || rows[1][7] != "No" {
		t.Errorf("expected Yes/No privilege columns for a tutor, got %v", rows[1])
	}
}

func TestServeSearch_AutoRunFromQueryParam(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "cs101.2026", "Intro to CS")
	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice@example.com", "Section A", "Team 1")

	user := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest("GET", "/search?studentSearchkey=alice", user)
	serve(h.ServeSearch, httptest.NewRecorder(), req)

	req = testutil.NewAuthenticatedRequest("GET", "/search/export.xlsx", user)
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected the auto-run search to populate the page, got status %d", rec.Code)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "Alice Anderson" {
		t.Fatalf("expected Alice in the export, got %v", rows)
	}
}

func TestServeSearch_CommentExport(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "cs101.2026", "Intro to CS")
	fixtures.CreateFeedbackSession(ctx, "cs101.2026", "Midterm review")
	fixtures.CreateComment(ctx, "cs101.2026", "Midterm review", 1, "How did the team do?",
		"<p>great teamwork</p>")

	user := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest("GET", "/search?search_key=great+teamwork&search_comments=on", user)
	serve(h.ServeSearch, httptest.NewRecorder(), req)

	req = testutil.NewAuthenticatedRequest("GET", "/search/export.xlsx", user)
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Comments")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 comment row, got %d rows", len(rows))
	}
	if rows[1][1] != "Midterm review" {
		t.Errorf("expected the session name, got %v", rows[1])
	}
	// Markup is stripped for the spreadsheet.
	if rows[1][5] != "great teamwork" {
		t.Errorf("expected plain comment text, got %q", rows[1][5])
	}
}
