package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/google/uuid"
)

// memoryApplicationRepository keeps applications in process. It backs local
// runs without DATABASE_URL and the handler tests.
type memoryApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]domain.Application
	now  func() time.Time
}

func NewMemoryApplications() domain.ApplicationRepository {
	return &memoryApplicationRepository{
		apps: make(map[string]domain.Application),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (m *memoryApplicationRepository) Create(_ context.Context, app *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app.ID = uuid.NewString()
	app.CreatedAt = m.now()
	app.UpdatedAt = nil
	m.apps[app.ID] = cloneApplication(*app)
	return nil
}

func (m *memoryApplicationRepository) GetByID(_ context.Context, id string) (domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.apps[id]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	return cloneApplication(app), nil
}

func (m *memoryApplicationRepository) UpdateStatus(_ context.Context, id string, status string) (domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	now := m.now()
	app.Status = status
	app.UpdatedAt = &now
	m.apps[id] = app
	return cloneApplication(app), nil
}

type memoryCommentRepository struct {
	mu       sync.Mutex
	comments []domain.Comment
	nextID   int64
}

func NewMemoryComments() domain.CommentRepository {
	return &memoryCommentRepository{}
}

func (m *memoryCommentRepository) List(_ context.Context, limit int) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Comment, len(m.comments))
	copy(out, m.comments)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryCommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	comment.ID = m.nextID
	comment.CreatedAt = time.Now().UTC()
	m.comments = append(m.comments, *comment)
	return nil
}

func cloneApplication(app domain.Application) domain.Application {
	app.Applicant = cloneBucket(app.Applicant)
	app.CoApplicant = cloneBucket(app.CoApplicant)
	app.Reference = cloneBucket(app.Reference)
	app.Declarations = cloneBucket(app.Declarations)
	app.Consent = cloneBucket(app.Consent)
	app.Assets = cloneBucket(app.Assets)
	app.Liabilities = cloneBucket(app.Liabilities)
	app.Totals = cloneBucket(app.Totals)
	app.FinancingDetails = cloneBucket(app.FinancingDetails)
	if app.UpdatedAt != nil {
		t := *app.UpdatedAt
		app.UpdatedAt = &t
	}
	return app
}

func cloneBucket(b domain.Bucket) domain.Bucket {
	if b == nil {
		return nil
	}
	out := make(domain.Bucket, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
