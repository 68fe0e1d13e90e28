// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mvargas/campana-go/internal/auth"
	"github.com/mvargas/campana-go/internal/middleware"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/render"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/util"
)

// AuthHandler handles the admin login, logout and password change routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	activity        *service.ActivityService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager,
	activity *service.ActivityService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		activity:        activity,
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Authenticated users are sent straight
// to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) != 0 {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Iniciar sesión",
	}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login processes the login form. Failures are reported with the same
// message whether the account exists or not.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, middleware.LoginPath) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	clientIP := util.ClientIP(r)

	if email == "" || password == "" {
		flashError(w, r, h.renderer, middleware.LoginPath, "Correo y contraseña son obligatorios")
		return
	}

	if !h.loginProtection.CheckIPRateLimit(clientIP) {
		_ = h.activity.LogAuth(r.Context(), model.ActivityLevelWarning,
			"Login rate limit exceeded", nil, clientIP, map[string]any{"email": email})
		flashError(w, r, h.renderer, middleware.LoginPath, "Demasiados intentos. Inténtalo más tarde.")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		_ = h.activity.LogAuth(r.Context(), model.ActivityLevelWarning,
			"Login attempt on locked account", nil, clientIP, map[string]any{"email": email})
		flashError(w, r, h.renderer, middleware.LoginPath,
			"Cuenta bloqueada temporalmente. Inténtalo en "+formatDuration(remaining)+".")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "failed to look up user", "error", err)
			return
		}
		// Unknown account: record the attempt against the email anyway so
		// the lockout window is indistinguishable from a real account.
		h.failLogin(w, r, email, nil, clientIP)
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		logAndInternalError(w, "failed to verify password", "error", err, "user_id", user.ID)
		return
	}
	if !ok {
		h.failLogin(w, r, email, &user.ID, clientIP)
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)

	// Upgrade the stored hash when parameters have been strengthened.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			_ = h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				ID:           user.ID,
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
			})
		}
	}

	if err := h.queries.TouchUserLogin(r.Context(), user.ID, time.Now()); err != nil {
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	_ = h.activity.LogAuth(r.Context(), model.ActivityLevelInfo,
		"User logged in", &user.ID, clientIP, map[string]any{"email": email})

	flashSuccess(w, r, h.renderer, redirectAdmin, "Bienvenida, "+user.Name)
}

// failLogin records a failed attempt and flashes the generic failure
// message, adding lockout information when the threshold is reached.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, email string, userID *int64, clientIP string) {
	_ = h.activity.LogAuth(r.Context(), model.ActivityLevelWarning,
		"Failed login attempt", userID, clientIP, map[string]any{"email": email})

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		flashError(w, r, h.renderer, middleware.LoginPath,
			"Demasiados intentos fallidos. Cuenta bloqueada por "+formatDuration(lockDuration)+".")
		return
	}
	if remaining := h.loginProtection.GetRemainingAttempts(email); remaining <= 3 && remaining > 0 {
		flashError(w, r, h.renderer, middleware.LoginPath,
			fmt.Sprintf("Credenciales incorrectas. Te quedan %d intentos.", remaining))
		return
	}
	flashError(w, r, h.renderer, middleware.LoginPath, "Credenciales incorrectas")
}

// Logout destroys the session and redirects to the public home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDPtr(r)
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	_ = h.activity.LogAuth(r.Context(), model.ActivityLevelInfo,
		"User logged out", userID, util.ClientIP(r), nil)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// PasswordForm renders the change-password page.
func (h *AuthHandler) PasswordForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/password", render.TemplateData{
		Title: "Cambiar contraseña",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render password page", "error", err)
	}
}

// UpdatePassword verifies the current password and replaces it.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPassword) {
		return
	}

	current := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if len(newPassword) < 8 {
		flashError(w, r, h.renderer, redirectAdminPassword, "La nueva contraseña debe tener al menos 8 caracteres")
		return
	}
	if newPassword != confirm {
		flashError(w, r, h.renderer, redirectAdminPassword, "Las contraseñas no coinciden")
		return
	}

	ok, err := auth.CheckPassword(current, user.PasswordHash)
	if err != nil {
		logAndInternalError(w, "failed to verify password", "error", err, "user_id", user.ID)
		return
	}
	if !ok {
		flashError(w, r, h.renderer, redirectAdminPassword, "La contraseña actual no es correcta")
		return
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}
	if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
		ID:           user.ID,
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
	}); err != nil {
		logAndInternalError(w, "failed to update password", "error", err, "user_id", user.ID)
		return
	}

	_ = h.activity.LogAuth(r.Context(), model.ActivityLevelInfo,
		"Password changed", &user.ID, util.ClientIP(r), nil)
	flashSuccess(w, r, h.renderer, redirectAdminPassword, "Contraseña actualizada")
}

// formatDuration renders a lockout duration in Spanish.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d segundos", int(d.Seconds()))
	}
	minutes := int(d.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", minutes)
}
