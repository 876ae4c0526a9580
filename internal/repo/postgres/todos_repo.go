package postgres

import (
	"context"
	"errors"

	"github.com/clearlist/api/internal/domain/todo"
	"github.com/clearlist/api/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Every query here carries the owner predicate; there is deliberately no
// lookup-by-id-only path, so a caller can never reach another user's rows.
type TodosRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTodosRepo(pool *pgxpool.Pool, prom *observability.Prom) *TodosRepo {
	return &TodosRepo{pool: pool, prom: prom}
}

func (r *TodosRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TodosRepo) ListByOwner(ctx context.Context, ownerID string) (items []todo.Todo, err error) {
	var rows pgx.Rows

	err = r.observe("todos.list_by_owner", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, title, completed, category, owner_id, created_at, updated_at
			 FROM todos
			 WHERE owner_id = $1
			 ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	items = make([]todo.Todo, 0)

	for rows.Next() {
		var t todo.Todo

		e := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.Category, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)

		if e != nil {
			err = e
			return
		}
		items = append(items, t)
	}

	e := rows.Err()

	if e != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues("todos.list_by_owner", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}

func (r *TodosRepo) Create(ctx context.Context, ownerID string, req todo.CreateTodoRequest) (todo.Todo, error) {
	t := todo.NewFromCreateRequest(ownerID, req)

	err := r.observe("todos.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO todos (id, title, completed, category, owner_id, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			t.ID, t.Title, t.Completed, t.Category, t.OwnerID, t.CreatedAt, t.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return todo.Todo{}, err
	}

	return t, nil
}

func (r *TodosRepo) Update(ctx context.Context, ownerID string, req todo.UpdateTodoRequest) (todo.Todo, error) {
	var t todo.Todo

	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}

	err := r.observe("todos.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE todos
				SET title = $3,
						completed = $4,
						updated_at = NOW()
			WHERE id = $1 AND owner_id = $2
			RETURNING id, title, completed, category, owner_id, created_at, updated_at`,
			req.ID,
			ownerID,
			req.Title,
			completed,
		).Scan(
			&t.ID,
			&t.Title,
			&t.Completed,
			&t.Category,
			&t.OwnerID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
	})

	if err != nil {
		// a foreign id and a missing id look identical here on purpose
		if errors.Is(err, pgx.ErrNoRows) {
			return todo.Todo{}, todo.ErrNotFound
		}
		return todo.Todo{}, err
	}

	return t, nil
}

func (r *TodosRepo) Delete(ctx context.Context, ownerID, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("todos.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)

		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return todo.ErrNotFound
	}

	return nil
}
