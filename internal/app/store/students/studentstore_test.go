package students_test

import (
	"testing"

	"github.com/mdrews/courselens/internal/app/store/students"
	"github.com/mdrews/courselens/internal/testutil"
)

func TestStore_SearchByKey_NamePrefix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice@example.com", "Section A", "Team 1")
	fixtures.CreateStudent(ctx, "cs101.2026", "Albert Allen", "albert@example.com", "Section A", "Team 1")
	fixtures.CreateStudent(ctx, "cs101.2026", "Bob Brown", "bob@example.com", "Section B", "Team 2")

	rows, err := store.SearchByKey(ctx, "al", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 students, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Name != "Alice Anderson" && r.Name != "Albert Allen" {
			t.Errorf("unexpected student %q", r.Name)
		}
	}
}

func TestStore_SearchByKey_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice@example.com", "Section A", "Team 1")

	rows, err := store.SearchByKey(ctx, "ALICE", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 student, got %d", len(rows))
	}
}

func TestStore_SearchByKey_EmailPivot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice@example.com", "Section A", "Team 1")
	// Name contains "alice@" lookalike text but email does not match.
	fixtures.CreateStudent(ctx, "cs101.2026", "Bob Brown", "bob@example.com", "alice@ desk", "Team 2")

	rows, err := store.SearchByKey(ctx, "alice@", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 student from email pivot, got %d", len(rows))
	}
	if rows[0].Email != "alice@example.com" {
		t.Errorf("expected alice, got %q", rows[0].Email)
	}
}

func TestStore_SearchByKey_SectionAndTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice@example.com", "Tutorial Group 1", "Crimson")
	fixtures.CreateStudent(ctx, "cs101.2026", "Bob Brown", "bob@example.com", "Section B", "Team 2")

	rows, err := store.SearchByKey(ctx, "tutorial", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alice Anderson" {
		t.Fatalf("expected section match for Alice, got %d rows", len(rows))
	}

	rows, err = store.SearchByKey(ctx, "crimson", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alice Anderson" {
		t.Fatalf("expected team match for Alice, got %d rows", len(rows))
	}
}

func TestStore_SearchByKey_CourseScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "cs101.2026", "Alice Anderson", "alice.cs@example.com", "Section A", "Team 1")
	fixtures.CreateStudent(ctx, "phys201.2026", "Alice Anderson", "alice.phys@example.com", "Section A", "Team 1")

	rows, err := store.SearchByKey(ctx, "alice", []string{"cs101.2026"})
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 scoped student, got %d", len(rows))
	}
	if rows[0].CourseID != "cs101.2026" {
		t.Errorf("expected cs101.2026, got %q", rows[0].CourseID)
	}

	// An empty (non-nil) scope matches nothing.
	rows, err = store.SearchByKey(ctx, "alice", []string{})
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no students for empty scope, got %d", len(rows))
	}

	// nil scope is unrestricted.
	rows, err = store.SearchByKey(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 students unscoped, got %d", len(rows))
	}
}

func TestStore_SearchByKey_EmptyKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rows, err := store.SearchByKey(ctx, "   ", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if rows != nil {
		t.Errorf("expected nil result for blank key, got %v", rows)
	}
}

func TestStore_SearchByKey_SortsByCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := students.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Insert out of course order so the sort has to do the work.
	fixtures.CreateStudent(ctx, "phys201.2026", "Smith One", "s1@example.com", "Section A", "Team 1")
	fixtures.CreateStudent(ctx, "cs101.2026", "Smith Two", "s2@example.com", "Section B", "Team 2")
	fixtures.CreateStudent(ctx, "phys201.2026", "Smith Three", "s3@example.com", "Section A", "Team 1")

	rows, err := store.SearchByKey(ctx, "smith", nil)
	if err != nil {
		t.Fatalf("SearchByKey failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 students, got %d", len(rows))
	}
	if rows[0].CourseID != "cs101.2026" || rows[1].CourseID != "phys201.2026" || rows[2].CourseID != "phys201.2026" {
		t.Errorf("expected course-contiguous order, got %q %q %q",
			rows[0].CourseID, rows[1].CourseID, rows[2].CourseID)
	}
}
