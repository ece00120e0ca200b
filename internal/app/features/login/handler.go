// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/mdrews/courselens/internal/app/features/errors"
	"github.com/mdrews/courselens/internal/app/store/accounts"
	loginstore "github.com/mdrews/courselens/internal/app/store/logins"
	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/limits"
	"github.com/mdrews/courselens/internal/app/system/ratelimit"
	"github.com/mdrews/courselens/internal/app/system/timeouts"
	"github.com/mdrews/courselens/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Accounts      *accounts.Store
	Logins        *loginstore.Store
	Limiter       *ratelimit.LoginLimiter
	GoogleEnabled bool
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Accounts:      accounts.New(db),
		Logins:        loginstore.New(db),
		Limiter:       ratelimit.NewLoginLimiter(),
		GoogleEnabled: googleEnabled,
	}
}

var validate = validator.New()

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type loginPageData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// errorMessages maps the error codes the OAuth flow redirects back with
// to something a person can act on.
var errorMessages = map[string]string{
	"google_not_configured": "Google sign-in is not configured. Please contact an administrator.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "Your sign-in attempt expired. Please try again.",
	"invalid_code":          "Google sign-in failed. Please try again.",
	"token_exchange":        "Google sign-in failed. Please try again.",
	"user_info":             "Could not read your Google profile. Please try again.",
	"no_account":            "No account matches that Google profile. Please contact an administrator.",
	"account_disabled":      "This account has been disabled. Please contact an administrator.",
	"session":               "Unable to create session. Please try again.",
	"internal":              "Something went wrong. Please try again.",
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/search", http.StatusSeeOther)
		return
	}

	errMsg := ""
	if code := query.Get(r, "error"); code != "" {
		errMsg = errorMessages[code]
		if errMsg == "" {
			errMsg = errorMessages["internal"]
		}
	}

	templates.Render(w, r, "login", loginPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         errMsg,
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxLoginFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		h.renderFormWithError(w, r, "Please enter your email address and password.", form.Email)
		return
	}

	if ok, msg := h.Limiter.Check(r, form.Email); !ok {
		h.Log.Warn("login rate limited",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", form.Email))
		h.renderFormWithError(w, r, msg, form.Email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.renderFormWithError(w, r, "Incorrect email address or password.", form.Email)
			return
		}
		h.ErrLog.LogServerError(w, r, "load account for login failed", err,
			"Something went wrong signing you in. Please try again.", "/login")
		return
	}

	if acct.Status == "disabled" {
		h.renderFormWithError(w, r, "This account has been disabled. Please contact an administrator.", form.Email)
		return
	}

	if acct.PasswordHash == "" {
		// Google-only account, no password on file.
		h.renderFormWithError(w, r, "This account signs in with Google.", form.Email)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(form.Password)); err != nil {
		h.Log.Warn("login password mismatch", zap.String("email", acct.Email))
		h.renderFormWithError(w, r, "Incorrect email address or password.", form.Email)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    acct.ID.Hex(),
		Name:  acct.FullName,
		Email: acct.Email,
		Role:  acct.Role,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", acct.Email))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", form.Email)
		return
	}
	h.Limiter.ResetEmail(form.Email)

	if err := h.Accounts.TouchLogin(ctx, acct.ID); err != nil {
		h.Log.Warn("record login time failed", zap.Error(err), zap.String("email", acct.Email))
	}
	if err := h.Logins.Record(ctx, r, acct.ID, acct.Email, loginstore.ProviderPassword); err != nil {
		h.Log.Warn("record login history failed", zap.Error(err), zap.String("email", acct.Email))
	}

	dest := urlutil.SafeReturn(r.FormValue("return"), "", "/search")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}
