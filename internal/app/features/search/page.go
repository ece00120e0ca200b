// internal/app/features/search/page.go
package search

import (
	"context"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/mdrews/courselens/internal/domain/models"
)

// Page owns the search page's server-side state for one signed-in user:
// the current params, the two result tables, and the busy flag. Methods
// are safe for concurrent use; when overlapping searches race, the one
// started last owns the state afterwards.
type Page struct {
	mu sync.Mutex

	params        SearchParams
	courseGroups  []CourseGroup
	commentGroups []models.CommentSearchResult
	staleStudents bool
	busy          bool
	token         string
}

// PageState is a point-in-time copy of the page for rendering. The slices
// are shared with the page and must be treated as read-only.
// StaleStudents is set when the student table was retained from an
// earlier search instead of being refreshed by the latest one.
type PageState struct {
	Params        SearchParams
	CourseGroups  []CourseGroup
	CommentGroups []models.CommentSearchResult
	StaleStudents bool
	Busy          bool
}

// NewPage returns a fresh page with both search toggles on, matching the
// checkboxes' initial state on first render.
func NewPage() *Page {
	return &Page{params: SearchParams{SearchStudents: true, SearchComments: true}}
}

// Init applies the query string of the initial page navigation. A
// studentSearchkey parameter pre-fills the query text, and when that
// leaves the query non-empty the search runs immediately.
func (p *Page) Init(ctx context.Context, values url.Values, backend Backend, notify Notifier) {
	p.mu.Lock()
	if values.Has("studentSearchkey") {
		p.params.Query = values.Get("studentSearchkey")
	}
	run := p.params.Query != ""
	p.mu.Unlock()

	if run {
		p.Search(ctx, backend, notify)
	}
}

// SetParams replaces the page's search params with the submitted form
// values ahead of the next Search call.
func (p *Page) SetParams(params SearchParams) {
	p.mu.Lock()
	p.params = params
	p.mu.Unlock()
}

// Search runs one search against the backend and folds the outcome into
// the page state.
//
// The call is a silent no-op when both toggles are off or the query text
// is the empty string; the query is deliberately not trimmed, so a
// whitespace query still runs. Otherwise the busy flag goes up, the run
// executes, and the flag comes back down no matter how the run ends.
//
// On success the comment table is replaced outright. The student table is
// replaced only when the run produced student rows; an empty student
// outcome leaves the previous table standing, marked stale, so a
// comment-only search does not blank students the user is still looking
// at. When both the new comments and the (possibly retained) student
// table are empty, one "No results found." warning is raised. On failure
// the tables stay as they were and the error's message is raised as an
// error notification.
//
// Each call stamps the page with a fresh token. A run that finds a newer
// token at completion has been superseded and changes nothing; the newer
// run owns the page state, including clearing the busy flag.
func (p *Page) Search(ctx context.Context, backend Backend, notify Notifier) {
	p.mu.Lock()
	params := p.params
	if (!params.SearchStudents && !params.SearchComments) || params.Query == "" {
		p.mu.Unlock()
		return
	}
	token := uuid.New().String()
	p.token = token
	p.busy = true
	p.mu.Unlock()

	res, err := Run(ctx, backend, params)

	p.mu.Lock()
	if p.token != token {
		p.mu.Unlock()
		return
	}
	p.busy = false

	if err != nil {
		p.mu.Unlock()
		notify.ShowError(err.Error())
		return
	}

	p.commentGroups = res.CommentGroups
	if len(res.CourseGroups) > 0 {
		p.courseGroups = res.CourseGroups
		p.staleStudents = false
	} else {
		p.staleStudents = len(p.courseGroups) > 0
	}
	empty := len(res.CommentGroups) == 0 && len(p.courseGroups) == 0
	p.mu.Unlock()

	if empty {
		notify.ShowWarning("No results found.")
	}
}

// State returns a snapshot of the page for rendering.
func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PageState{
		Params:        p.params,
		CourseGroups:  p.courseGroups,
		CommentGroups: p.commentGroups,
		StaleStudents: p.staleStudents,
		Busy:          p.busy,
	}
}
