package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/user"
	"github.com/geocoder89/dumbcrm/internal/http/middlewares"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/geocoder89/dumbcrm/internal/security"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake the store easily.
type AuthUsersStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, email, passwordHash, name, role string, isActive bool) (user.User, error)
	Update(ctx context.Context, id string, params postgres.UpdateUserParams) (user.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID, email, role string) (string, error)
}

type AuthHandler struct {
	users AuthUsersStore
	jwt   TokenIssuer
	cfg   config.Config
}

func NewAuthHandler(users AuthUsersStore, jwt TokenIssuer, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
		cfg:   cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	// keep the blunt original message rather than per-field details here
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		RespondBadRequest(ctx, "Email and password are required")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same message as a bad password, a caller must not be able
			// to probe which emails exist
			RespondUnauthorized(ctx, "Invalid credentials")
			return
		}

		RespondInternal(ctx, "Login failed")
		return
	}

	if !foundUser.IsActive {
		RespondUnauthorized(ctx, "Account is deactivated")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Email, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Login failed")
		return
	}

	h.setAuthCookie(ctx, token)

	RespondOK(ctx, gin.H{
		"user":  foundUser,
		"token": token,
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearAuthCookie(ctx)

	RespondMessage(ctx, "Logged out successfully")
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	RespondOK(ctx, u)
}

// Register creates an account on behalf of an admin; self-signup does not
// exist in this system.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Registration failed")
		return
	}

	role := req.Role

	if role == "" {
		role = user.RoleUser
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, req.Email, hash, req.Name, role, true)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondConflict(ctx, "Email already exists")
			return
		}

		RespondInternal(ctx, "Registration failed")
		return
	}

	RespondOK(ctx, u)
}

func (h *AuthHandler) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		RespondBadRequest(ctx, "Current and new passwords are required")
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	err := security.CheckPassword(u.PasswordHash, req.CurrentPassword)

	if err != nil {
		RespondUnauthorized(ctx, "Current password is incorrect")
		return
	}

	hash, err := security.HashPassword(req.NewPassword)

	if err != nil {
		RespondInternal(ctx, "Failed to change password")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.users.Update(cctx, u.ID, postgres.UpdateUserParams{PasswordHash: &hash})

	if err != nil {
		RespondInternal(ctx, "Failed to change password")
		return
	}

	RespondMessage(ctx, "Password changed successfully")
}

// Cookie helpers. The session cookie rides along on every request; SameSite
// has to be None in prod because the SPA is served from another origin.

const sessionMaxAge = 7 * 24 * 60 * 60 // seconds, matches the token TTL

func (h *AuthHandler) setAuthCookie(ctx *gin.Context, token string) {
	secure := h.cfg.IsProd()

	if secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}

	ctx.SetCookie(
		middlewares.SessionCookie,
		token,
		sessionMaxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearAuthCookie(ctx *gin.Context) {
	secure := h.cfg.IsProd()

	if secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}

	ctx.SetCookie(
		middlewares.SessionCookie,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
