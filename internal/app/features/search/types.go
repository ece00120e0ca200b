// internal/app/features/search/types.go
package search

import "github.com/mdrews/courselens/internal/domain/models"

// SearchParams are the user-entered inputs of one search run: the query
// text and the two independent toggles choosing what to search.
type SearchParams struct {
	Query          string
	SearchStudents bool
	SearchComments bool
}

// StudentRow wraps one matched student with the two permission flags the
// results table needs to decide which row actions to enable. Both flags
// start false and are filled in from the student's section privilege.
type StudentRow struct {
	Student                  models.Student
	CanViewStudentInSections bool
	CanModifyStudent         bool
}

// CourseGroup is one course's slice of the student results table.
type CourseGroup struct {
	CourseID string
	Rows     []StudentRow
}

// Results is the combined outcome of one search run: the student table
// grouped by course and the comment results grouped by session.
type Results struct {
	CourseGroups  []CourseGroup
	CommentGroups []models.CommentSearchResult
}

// SectionKey identifies the (course, section) pair a privilege lookup is
// keyed by. Rows sharing a key share one lookup and its result.
type SectionKey struct {
	CourseID    string
	SectionName string
}

// Notifier receives the user-facing outcome messages of a search run.
// The flash-message store satisfies it in production; tests substitute a
// recorder.
type Notifier interface {
	ShowWarning(text string)
	ShowError(text string)
}
