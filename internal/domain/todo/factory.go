package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateTodoRequest) Todo {
	now := time.Now().UTC()

	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}

	return Todo{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Completed: completed,
		Category:  strings.TrimSpace(req.Category),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
