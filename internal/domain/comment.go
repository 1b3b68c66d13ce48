package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID        int64     `db:"id"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

type CommentRepository interface {
	List(ctx context.Context, limit int) ([]Comment, error)
	Create(context.Context, *Comment) error
}
