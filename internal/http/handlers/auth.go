package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/clearlist/api/internal/auth"
	"github.com/clearlist/api/internal/config"
	"github.com/clearlist/api/internal/domain/user"
	"github.com/clearlist/api/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Create(ctx context.Context, username, passwordHash string) (user.User, error)
}

type AuthHandler struct {
	users UserStore
	jwt   *auth.Manager
}

func NewAuthHandler(users UserStore, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	_, err = h.users.Create(cctx, req.Username, hash)

	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			RespondConflict(ctx, "username_taken", "Username is already taken.")
			return
		}

		RespondStoreError(ctx, "users.create", err)
		return
	}

	// no token on registration, the caller logs in separately
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			RespondStoreError(ctx, "users.get_by_username", err)
			return
		}

		// same response as a wrong password, no username enumeration
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
