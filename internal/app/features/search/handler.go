// internal/app/features/search/handler.go
package search

import (
	"context"
	"net/http"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/mdrews/courselens/internal/app/features/errors"
	"github.com/mdrews/courselens/internal/app/store/comments"
	"github.com/mdrews/courselens/internal/app/store/instructors"
	"github.com/mdrews/courselens/internal/app/store/students"
	"github.com/mdrews/courselens/internal/app/system/authz"
	"github.com/mdrews/courselens/internal/app/system/privcache"
	"github.com/mdrews/courselens/internal/app/system/statusmsg"
	"github.com/mdrews/courselens/internal/app/system/timeouts"
	"github.com/mdrews/courselens/internal/app/system/viewdata"
)

// Handler owns the instructor search page. It keeps one Page per signed-in
// user so search state (and the retention behavior that depends on it)
// survives across form submits.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Flash  *statusmsg.Store

	stores Stores
	cache  privcache.Cache

	mu    sync.Mutex
	pages map[primitive.ObjectID]*Page
}

// NewHandler constructs a search Handler bound to the given database.
// cache may be nil to disable privilege caching.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, flash *statusmsg.Store, cache privcache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Flash:  flash,
		stores: Stores{
			Students:    students.New(db),
			Comments:    comments.New(db),
			Instructors: instructors.New(db),
		},
		cache: cache,
		pages: make(map[primitive.ObjectID]*Page),
	}
}

var validate = validator.New()

// searchForm mirrors the query-string form on the search page. The form
// submits via GET so searches are bookmarkable.
type searchForm struct {
	Query          string `validate:"max=256"`
	SearchStudents bool
	SearchComments bool
}

// ServeSearch handles the search page.
// GET /search
//
// A plain navigation (no search_key in the query string) starts the user
// on a fresh page; a studentSearchkey parameter pre-fills and auto-runs
// the search. A submit of the page's own form carries search_key and the
// two toggles, and runs against the user's current page so earlier results
// can be retained.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	backend, err := NewBackend(ctx, h.stores, h.cache, authz.UserEmail(r), authz.IsAdmin(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve instructor courses failed", err, "Unable to open the search page.", "/")
		return
	}

	q := r.URL.Query()
	notify := h.Flash.ForRequest(w, r)

	if q.Has("search_key") {
		form := searchForm{
			Query:          q.Get("search_key"),
			SearchStudents: q.Get("search_students") != "",
			SearchComments: q.Get("search_comments") != "",
		}
		if err := validate.Struct(form); err != nil {
			h.ErrLog.LogBadRequest(w, r, "invalid search form", err, "That search key is too long.", "/search")
			return
		}

		page := h.pageFor(userID)
		page.SetParams(SearchParams{
			Query:          form.Query,
			SearchStudents: form.SearchStudents,
			SearchComments: form.SearchComments,
		})
		page.Search(ctx, backend, notify)
		h.renderPage(w, r, page)
		return
	}

	page := NewPage()
	h.setPage(userID, page)
	page.Init(ctx, q, backend, notify)
	h.renderPage(w, r, page)
}

// pageFor returns the user's current page, creating one on first use.
func (h *Handler) pageFor(userID primitive.ObjectID) *Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	page, ok := h.pages[userID]
	if !ok {
		page = NewPage()
		h.pages[userID] = page
	}
	return page
}

func (h *Handler) setPage(userID primitive.ObjectID, page *Page) {
	h.mu.Lock()
	h.pages[userID] = page
	h.mu.Unlock()
}

// searchPageData is the view model for the search page template.
type searchPageData struct {
	viewdata.BaseVM
	State    PageState
	Messages []statusmsg.Message
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page *Page) {
	data := searchPageData{
		BaseVM:   viewdata.NewBaseVM(r, "Search", "/"),
		State:    page.State(),
		Messages: h.Flash.Pop(w, r),
	}
	templates.Render(w, r, "search_page", data)
}
