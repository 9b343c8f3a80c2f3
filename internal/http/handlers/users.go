package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/user"
	"github.com/geocoder89/dumbcrm/internal/http/middlewares"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/geocoder89/dumbcrm/internal/security"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, email, passwordHash, name, role string, isActive bool) (user.User, error)
	Update(ctx context.Context, id string, params postgres.UpdateUserParams) (user.User, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (user.Stats, error)
}

// UsersHandler is the admin-only user management surface; the router wraps
// every route in RequireAuth + RequireAdmin.
type UsersHandler struct {
	repo UsersStore
}

func NewUsersHandler(repo UsersStore) *UsersHandler {
	return &UsersHandler{repo: repo}
}

func (h *UsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	users, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch users")
		return
	}

	RespondOK(ctx, users)
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Failed to fetch user")
		return
	}

	RespondOK(ctx, u)
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Failed to create user")
		return
	}

	role := req.Role

	if role == "" {
		role = user.RoleUser
	}

	isActive := true

	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.repo.Create(cctx, req.Email, hash, req.Name, role, isActive)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondConflict(ctx, "Email already exists")
			return
		}

		RespondInternal(ctx, "Failed to create user")
		return
	}

	RespondCreated(ctx, u)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	params := postgres.UpdateUserParams{
		IsActive: req.IsActive,
	}

	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Name != "" {
		params.Name = &req.Name
	}
	if req.Role != "" {
		params.Role = &req.Role
	}
	if req.Password != "" {
		hash, err := security.HashPassword(req.Password)

		if err != nil {
			RespondInternal(ctx, "Failed to update user")
			return
		}

		params.PasswordHash = &hash
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.repo.Update(cctx, id, params)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, postgres.ErrEmailTaken):
			RespondConflict(ctx, "Email already exists")
		default:
			RespondInternal(ctx, "Failed to update user")
		}
		return
	}

	RespondOK(ctx, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	acting, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	// an admin must not remove their own account
	if acting.ID == id {
		RespondBadRequest(ctx, "Cannot delete your own account")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Failed to delete user")
		return
	}

	RespondMessage(ctx, "User deleted successfully")
}

func (h *UsersHandler) Stats(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	stats, err := h.repo.Stats(cctx)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch user statistics")
		return
	}

	RespondOK(ctx, stats)
}

func (h *UsersHandler) ToggleStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	acting, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	// same self-action guard as delete
	if acting.ID == id {
		RespondBadRequest(ctx, "Cannot deactivate your own account")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Failed to toggle user status")
		return
	}

	next := !u.IsActive

	updated, err := h.repo.Update(cctx, id, postgres.UpdateUserParams{IsActive: &next})

	if err != nil {
		RespondInternal(ctx, "Failed to toggle user status")
		return
	}

	message := "User deactivated successfully"

	if updated.IsActive {
		message = "User activated successfully"
	}

	RespondDataMessage(ctx, updated, message)
}
