// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mdrews/courselens/internal/app/store/accounts"
	loginstore "github.com/mdrews/courselens/internal/app/store/logins"
	"github.com/mdrews/courselens/internal/app/store/oauthstate"
	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/timeouts"
	"github.com/mdrews/courselens/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth sign-in.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Accounts   *accounts.Store
	Logins     *loginstore.Store
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		Accounts:     accounts.New(db),
		Logins:       loginstore.New(db),
		StateStore:   oauthstate.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeStart handles GET /auth/google. It parks a one-time state token
// and sends the user off to Google's consent screen.
func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("redirect_url", url),
		zap.String("return_url", returnURL))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback. It validates the
// state, exchanges the code for a token, fetches the Google profile, and
// signs in the matching account.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	h.Log.Debug("Google user info fetched",
		zap.String("google_id", googleUser.ID),
		zap.String("email", googleUser.Email))

	acct, err := h.findAccount(ctxTimeout, googleUser)
	if err != nil {
		switch {
		case errors.Is(err, errAccountNotFound):
			h.Log.Info("Google OAuth: no matching account",
				zap.String("google_id", googleUser.ID),
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		case errors.Is(err, errAccountDisabled):
			h.Log.Info("Google OAuth: account disabled",
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
		default:
			h.Log.Error("failed to look up account", zap.Error(err))
			http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		}
		return
	}

	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    acct.ID.Hex(),
		Name:  acct.FullName,
		Email: acct.Email,
		Role:  acct.Role,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", acct.Email))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	if err := h.Accounts.TouchLogin(ctxTimeout, acct.ID); err != nil {
		h.Log.Warn("record login time failed", zap.Error(err), zap.String("email", acct.Email))
	}
	if err := h.Logins.Record(ctxTimeout, r, acct.ID, acct.Email, loginstore.ProviderGoogle); err != nil {
		h.Log.Warn("record login history failed", zap.Error(err), zap.String("email", acct.Email))
	}

	h.Log.Info("user signed in via Google OAuth",
		zap.String("account_id", acct.ID.Hex()),
		zap.String("email", acct.Email))

	dest := urlutil.SafeReturn(returnURL, "", "/search")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

var (
	errAccountNotFound = fmt.Errorf("account not found")
	errAccountDisabled = fmt.Errorf("account disabled")
)

// googleUserInfo is the profile Google's userinfo endpoint returns.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// findAccount matches a Google profile to an account, by linked Google ID
// first and then by email. A first-time email match gets the Google ID
// linked so future sign-ins skip the email lookup.
func (h *Handler) findAccount(ctx context.Context, googleUser *googleUserInfo) (*models.Account, error) {
	acct, err := h.Accounts.GetByGoogleID(ctx, googleUser.ID)
	if err == nil {
		if acct.Status == "disabled" {
			return nil, errAccountDisabled
		}
		return acct, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	acct, err = h.Accounts.GetByEmail(ctx, googleUser.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errAccountNotFound
		}
		return nil, err
	}

	if acct.GoogleID == "" {
		if err := h.Accounts.LinkGoogleID(ctx, acct.ID, googleUser.ID); err != nil {
			h.Log.Warn("failed to link Google ID",
				zap.Error(err),
				zap.String("account_id", acct.ID.Hex()))
		}
	}

	if acct.Status == "disabled" {
		return nil, errAccountDisabled
	}
	return acct, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
