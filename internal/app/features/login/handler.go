// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/pagepulse/internal/app/features/errors"
	userstore "github.com/dalemusser/pagepulse/internal/app/store/users"
	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/ratelimit"
	"github.com/dalemusser/pagepulse/internal/app/system/timeouts"
	"github.com/dalemusser/pagepulse/internal/app/system/viewdata"
	"github.com/dalemusser/pagepulse/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/dalemusser/waffle/toolkit/validate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// defaultReturn is where a successful sign-in lands without ?return=.
const defaultReturn = "/dashboard"

type Handler struct {
	Users         *userstore.Store
	SessionMgr    *auth.SessionManager
	Limiter       *ratelimit.LoginLimiter
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	GoogleEnabled bool

	Render func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	errLog *uierrors.ErrorLogger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		SessionMgr:    sessionMgr,
		Limiter:       limiter,
		ErrLog:        errLog,
		Log:           logger,
		GoogleEnabled: googleEnabled,
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type formData struct {
	viewdata.BaseVM
	Error         string
	Name          string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
	MinPassword   int
}

func (h *Handler) form(r *http.Request, title, errMsg, name, email, ret string) formData {
	return formData{
		BaseVM:        viewdata.NewBaseVM(r, title),
		Error:         errMsg,
		Name:          name,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
		MinPassword:   userstore.MinPasswordLen,
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, errMsg, email, ret string) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.Render(w, r, "login", h.form(r, "Sign in", errMsg, "", email, ret))
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, status int, errMsg, name, email, ret string) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.Render(w, r, "signup", h.form(r, "Create account", errMsg, name, email, ret))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", defaultReturn), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, oauthErrors[query.Get(r, "error")], "", ret)
}

// oauthErrors maps the ?error= codes set by the Google callback to form messages.
var oauthErrors = map[string]string{
	"google_not_configured": "Google sign-in is not configured.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "That sign-in link expired. Please try again.",
	"invalid_code":          "Google sign-in failed. Please try again.",
	"token_exchange":        "Google sign-in failed. Please try again.",
	"user_info":             "Could not read your Google profile. Please try again.",
	"unverified_email":      "Your Google account's email is not verified.",
	"account_disabled":      "This account has been disabled.",
	"internal":              "Something went wrong. Please try again.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := r.FormValue("return")

	if email == "" || password == "" {
		h.renderLogin(w, r, http.StatusBadRequest, "Please enter your email and password.", email, ret)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)))
			h.renderLogin(w, r, http.StatusTooManyRequests, msg, email, ret)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	u, err := h.Users.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, userstore.ErrInvalidCredentials):
		h.renderLogin(w, r, http.StatusUnauthorized, "Incorrect email or password.", email, ret)
		return
	case errors.Is(err, userstore.ErrDisabled):
		h.renderLogin(w, r, http.StatusForbidden, "This account has been disabled.", email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "login lookup failed", err, "A database error occurred.", "/login")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.signInAndRedirect(w, r, u, ret)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", defaultReturn), http.StatusSeeOther)
		return
	}
	h.renderSignup(w, r, http.StatusOK, "", "", "", ret)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := r.FormValue("return")

	if !validate.SimpleEmailValid(email) {
		h.renderSignup(w, r, http.StatusBadRequest, "Please enter a valid email address.", name, email, ret)
		return
	}
	if password != r.FormValue("confirm") {
		h.renderSignup(w, r, http.StatusBadRequest, "Passwords do not match.", name, email, ret)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.renderSignup(w, r, http.StatusTooManyRequests, msg, name, email, ret)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "signup insert")
	defer cancel()

	u, err := h.Users.Create(ctx, name, email, password)
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.renderSignup(w, r, http.StatusConflict, "An account with that email already exists.", name, email, ret)
		return
	case errors.Is(err, userstore.ErrInvalidEmail), errors.Is(err, userstore.ErrWeakPassword):
		h.renderSignup(w, r, http.StatusBadRequest, capitalize(err.Error())+".", name, email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "signup insert failed", err, "A database error occurred.", "/signup")
		return
	}

	h.Log.Info("user signed up", zap.String("user_id", u.ID.Hex()))
	h.signInAndRedirect(w, r, &u, ret)
}

func (h *Handler) signInAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, ret string) {
	err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Unable to create session. Please try again.", "/login")
		return
	}
	http.Redirect(w, r, urlutil.SafeReturn(ret, "", defaultReturn), http.StatusSeeOther)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
