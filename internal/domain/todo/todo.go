package todo

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("todo not found")

type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Category  string    `json:"category"`
	OwnerID   string    `json:"-"` // scoping detail, not part of the wire shape
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Completed is a pointer so "completed": false survives the required check.
type CreateTodoRequest struct {
	Title     string `json:"title" binding:"required,max=100"`
	Completed *bool  `json:"completed" binding:"required"`
	Category  string `json:"category" binding:"required,max=50"`
}

// Category is set once at creation and stays immutable, so updates omit it.
type UpdateTodoRequest struct {
	ID        string `json:"id" binding:"required,uuid"`
	Title     string `json:"title" binding:"required,max=100"`
	Completed *bool  `json:"completed" binding:"required"`
}
