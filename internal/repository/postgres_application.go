package repository

import (
	"context"
	"fmt"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
)

const applicationColumns = `id, status, applicant, co_applicant, reference, declarations, consent,
	assets, liabilities, totals, financing_details, created_at, updated_at`

type postgresApplicationRepository struct {
	conn Connection
}

func NewPostgresApplications(conn Connection) domain.ApplicationRepository {
	return &postgresApplicationRepository{conn: conn}
}

// Create implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	id := uuid.NewString()
	query := `
		INSERT INTO applications
			(id, status, applicant, co_applicant, reference, declarations, consent, assets, liabilities, totals, financing_details, created_at)
		VALUES
			($1, $2, $3::jsonb, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb, $8::jsonb, $9::jsonb, $10::jsonb, $11::jsonb, NOW())
		RETURNING created_at`
	err := p.conn.QueryRow(ctx, query,
		id,
		app.Status,
		app.Applicant,
		app.CoApplicant,
		app.Reference,
		app.Declarations,
		app.Consent,
		app.Assets,
		app.Liabilities,
		app.Totals,
		app.FinancingDetails,
	).Scan(&app.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	app.ID = id
	return nil
}

// GetByID implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) GetByID(ctx context.Context, id string) (domain.Application, error) {
	var app domain.Application
	if !validID(id) {
		return app, domain.ErrNotFound
	}
	rows, err := p.conn.Query(ctx, "SELECT "+applicationColumns+" FROM applications WHERE id = $1", id)
	if err != nil {
		return app, err
	}
	err = pgxscan.ScanOne(&app, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return app, domain.ErrNotFound
		}
		return app, err
	}
	return app, nil
}

// UpdateStatus implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) UpdateStatus(ctx context.Context, id string, status string) (domain.Application, error) {
	var app domain.Application
	if !validID(id) {
		return app, domain.ErrNotFound
	}
	query := `
		UPDATE applications SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + applicationColumns
	rows, err := p.conn.Query(ctx, query, status, id)
	if err != nil {
		return app, err
	}
	err = pgxscan.ScanOne(&app, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return app, domain.ErrNotFound
		}
		return app, err
	}
	return app, nil
}

// The id column is a uuid; anything else can never match and would make
// postgres reject the query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
