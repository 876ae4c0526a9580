package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/clearlist/api/internal/cache"
	"github.com/clearlist/api/internal/config"
	"github.com/clearlist/api/internal/domain/todo"
	"github.com/clearlist/api/internal/http/middlewares"
	"github.com/clearlist/api/internal/utils"
	"github.com/gin-gonic/gin"
)

type TodoStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]todo.Todo, error)
	Create(ctx context.Context, ownerID string, req todo.CreateTodoRequest) (todo.Todo, error)
	Update(ctx context.Context, ownerID string, req todo.UpdateTodoRequest) (todo.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type TodosHandler struct {
	repo  TodoStore
	cache *cache.Cache
}

func NewTodosHandler(repo TodoStore) *TodosHandler {
	return &TodosHandler{repo: repo}
}

func NewTodosHandlerWithCache(repo TodoStore, c *cache.Cache) *TodosHandler {
	return &TodosHandler{repo: repo, cache: c}
}

// caller identity comes from the auth middleware, never from the payload
func (h *TodosHandler) owner(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
	}

	return id, ok
}

func (h *TodosHandler) invalidateList(ownerID string) {
	if h.cache != nil {
		h.cache.Delete(utils.BuildTodosListCacheKey(ownerID))
	}
}

func (h *TodosHandler) ListTodos(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)

	if !ok {
		return
	}

	key := utils.BuildTodosListCacheKey(ownerID)

	if h.cache != nil {
		if cached, hit := h.cache.Get(key); hit {
			if items, ok := cached.([]todo.Todo); ok {
				RespondJSONWithETag(ctx, http.StatusOK, items)
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.repo.ListByOwner(cctx, ownerID)

	if err != nil {
		RespondStoreError(ctx, "todos.list_by_owner", err)
		return
	}

	if h.cache != nil {
		h.cache.Set(key, items)
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func (h *TodosHandler) CreateTodo(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)

	if !ok {
		return
	}

	var req todo.CreateTodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !checkTitleNotBlank(ctx, req.Title) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, ownerID, req)

	if err != nil {
		RespondStoreError(ctx, "todos.create", err)
		return
	}

	h.invalidateList(ownerID)

	ctx.JSON(http.StatusOK, created)
}

func (h *TodosHandler) UpdateTodo(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)

	if !ok {
		return
	}

	var req todo.UpdateTodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !checkTitleNotBlank(ctx, req.Title) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.repo.Update(cctx, ownerID, req)

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}

		RespondStoreError(ctx, "todos.update", err)
		return
	}

	h.invalidateList(ownerID)

	ctx.JSON(http.StatusOK, updated)
}

func (h *TodosHandler) DeleteTodo(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)

	if !ok {
		return
	}

	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{
				{Field: "id", Rule: "uuid", Message: validationMessage("uuid", "")},
			},
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, ownerID, id)

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}

		RespondStoreError(ctx, "todos.delete", err)
		return
	}

	h.invalidateList(ownerID)

	ctx.String(http.StatusOK, "Todo deleted")
}

// titles must survive trimming; the binding tags only catch the empty string
func checkTitleNotBlank(ctx *gin.Context, title string) bool {
	if strings.TrimSpace(title) == "" {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{
				{Field: "title", Rule: "notblank", Message: validationMessage("notblank", "")},
			},
		})
		return false
	}

	return true
}
