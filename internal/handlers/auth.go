package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"forum/internal/forum"
	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/session"
)

// Account field limits.
const (
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt ignores anything longer
	maxDisplayNameLen = 100
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// Accounts creates, finds and authenticates forum users.
type Accounts interface {
	CreateUser(ctx context.Context, username, email, password, displayName string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	accounts Accounts
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(accounts Accounts, sessions *session.Store) *Auth {
	return &Auth{accounts: accounts, sessions: sessions}
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// validate checks registration input and returns the first problem found.
func (req *registerRequest) validate() string {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if !usernamePattern.MatchString(req.Username) {
		return "username must be 3-32 letters, digits, '.', '_' or '-'"
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return "email is invalid"
	}
	if n := len(req.Password); n < minPasswordLen || n > maxPasswordLen {
		return "password must be 8-72 bytes"
	}
	if utf8.RuneCountInString(req.DisplayName) > maxDisplayNameLen {
		return "display name is too long (max 100 characters)"
	}
	return ""
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		fail(w, http.StatusBadRequest, forum.KindInvalidDraft.String(), msg)
		return
	}

	user, err := a.accounts.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.DisplayName)
	if errors.Is(err, forum.ErrDuplicateUser) {
		fail(w, http.StatusConflict, "conflict", "username or email is already taken")
		return
	}
	if err != nil {
		slog.Error("register failed", "error", err)
		fail(w, http.StatusServiceUnavailable, forum.KindTransient.String(), "service temporarily unavailable")
		return
	}

	if !a.startSession(w, r, user) {
		return
	}
	slog.Info("user registered", "id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, user)
}

// Login checks credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := a.accounts.FindUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		fail(w, http.StatusServiceUnavailable, forum.KindTransient.String(), "service temporarily unavailable")
		return
	}

	if user == nil || !a.accounts.CheckPassword(user, req.Password) {
		fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	if !a.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		fail(w, http.StatusServiceUnavailable, forum.KindTransient.String(), "service temporarily unavailable")
		return false
	}
	return true
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		fail(w, http.StatusUnauthorized, forum.KindNotAuthenticated.String(), "login required")
		return
	}

	user, err := a.accounts.FindUserByUsername(r.Context(), sess.Username)
	if err != nil {
		slog.Error("me lookup failed", "error", err)
		fail(w, http.StatusServiceUnavailable, forum.KindTransient.String(), "service temporarily unavailable")
		return
	}
	if user == nil {
		fail(w, http.StatusUnauthorized, forum.KindUnknownCaller.String(), "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
