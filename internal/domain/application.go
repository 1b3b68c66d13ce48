package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const StatusSubmitted = "submitted"

// Bucket is one JSON sub-object of an application, keyed by the raw form
// field name (or by the compacted field name for consent and financing).
type Bucket map[string]any

// Value implements driver.Valuer. Empty buckets are stored as NULL.
func (b Bucket) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(map[string]any(b))
	if err != nil {
		return nil, fmt.Errorf("marshal bucket: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (b *Bucket) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case map[string]any:
		*b = Bucket(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Bucket", src)
	}
	if len(data) == 0 || string(data) == "null" {
		*b = nil
		return nil
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshal bucket: %w", err)
	}
	*b = m
	return nil
}

// Submission is a bucketed, normalized intake payload that has not been
// stored yet.
type Submission struct {
	Applicant        Bucket
	CoApplicant      Bucket
	Reference        Bucket
	Declarations     Bucket
	Consent          Bucket
	Assets           Bucket
	Liabilities      Bucket
	Totals           Bucket
	FinancingDetails Bucket
}

type Application struct {
	ID               string     `db:"id"`
	Status           string     `db:"status"`
	Applicant        Bucket     `db:"applicant"`
	CoApplicant      Bucket     `db:"co_applicant"`
	Reference        Bucket     `db:"reference"`
	Declarations     Bucket     `db:"declarations"`
	Consent          Bucket     `db:"consent"`
	Assets           Bucket     `db:"assets"`
	Liabilities      Bucket     `db:"liabilities"`
	Totals           Bucket     `db:"totals"`
	FinancingDetails Bucket     `db:"financing_details"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

// NewApplication builds an unsaved application in the submitted state.
func NewApplication(s Submission) Application {
	return Application{
		Status:           StatusSubmitted,
		Applicant:        s.Applicant,
		CoApplicant:      s.CoApplicant,
		Reference:        s.Reference,
		Declarations:     s.Declarations,
		Consent:          s.Consent,
		Assets:           s.Assets,
		Liabilities:      s.Liabilities,
		Totals:           s.Totals,
		FinancingDetails: s.FinancingDetails,
	}
}

type ApplicationRepository interface {
	// Create assigns ID and CreatedAt on the passed application.
	Create(context.Context, *Application) error
	GetByID(context.Context, string) (Application, error)
	UpdateStatus(ctx context.Context, id string, status string) (Application, error)
}
