package repository

import (
	"context"
	"fmt"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/georgysavva/scany/v2/pgxscan"
)

type postgresCommentRepository struct {
	conn Connection
}

func NewPostgresComments(conn Connection) domain.CommentRepository {
	return &postgresCommentRepository{conn: conn}
}

// List implements domain.CommentRepository.
func (p *postgresCommentRepository) List(ctx context.Context, limit int) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	err := pgxscan.Select(ctx, p.conn, &comments, "SELECT id, comment, created_at FROM comments ORDER BY id DESC LIMIT $1", limit)
	if err != nil {
		return comments, err
	}
	return comments, nil
}

// Create implements domain.CommentRepository.
func (p *postgresCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	err := p.conn.QueryRow(ctx, "INSERT INTO comments (comment) VALUES ($1) RETURNING id, created_at", comment.Comment).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}
