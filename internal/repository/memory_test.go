package repository

import (
	"context"
	"testing"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryApplications(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApplications()

	app := domain.NewApplication(domain.Submission{Applicant: domain.Bucket{"app-first": "Jane"}})
	require.NoError(t, repo.Create(ctx, &app))
	require.NotEmpty(t, app.ID)
	require.False(t, app.CreatedAt.IsZero())

	app.Applicant["app-first"] = "mutated after create"
	got, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Applicant["app-first"])
	assert.Equal(t, domain.StatusSubmitted, got.Status)

	updated, err := repo.UpdateStatus(ctx, app.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, "approved", updated.Status)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, got.CreatedAt, updated.CreatedAt)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.UpdateStatus(ctx, "missing", "approved")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryComments(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryComments()
	for _, text := range []string{"one", "two", "three"} {
		c := domain.Comment{Comment: text}
		require.NoError(t, repo.Create(ctx, &c))
	}
	comments, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "three", comments[0].Comment)
	assert.Equal(t, "two", comments[1].Comment)
}
