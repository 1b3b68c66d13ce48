package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCommentList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, comment, created_at FROM comments").
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "comment", "created_at"}).
			AddRow(int64(2), "second", now).
			AddRow(int64(1), "first", now))

	repo := NewPostgresComments(mock)
	comments, err := repo.List(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Comment)
	assert.Equal(t, int64(1), comments[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCommentCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs("hello").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	repo := NewPostgresComments(mock)
	c := domain.Comment{Comment: "hello"}
	require.NoError(t, repo.Create(context.Background(), &c))
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, now, c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
