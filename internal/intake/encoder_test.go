package intake

import (
	"errors"
	"testing"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor(t *testing.T) {
	enc := NewEncoder()
	tests := []struct {
		key  string
		want string
	}{
		{"app-first", BucketApplicant},
		{"emp-income", BucketApplicant},
		{"co-first", BucketCoApplicant},
		{"co-emp-income", BucketCoApplicant},
		{"ref-name", BucketReference},
		{"asset-bank-balance-1", BucketAssets},
		{"debt-cc-balance-1", BucketLiabilities},
		{"nw-net", BucketTotals},
		{"app-bankruptcy", BucketDeclarations},
		{"co-bankruptcy", BucketDeclarations},
		{"sign-app-name", BucketConsent},
		{"consent-text", BucketConsent},
		{"fin-purchase-price", BucketFinancingDetails},
		{"favourite-colour", BucketApplicant},
		{"application-note", BucketApplicant},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, enc.BucketFor(tt.key))
		})
	}
}

func TestEncoderRulesSortedByPrefixLength(t *testing.T) {
	enc := NewEncoder()
	require.Len(t, enc.rules, len(prefixRules))
	for i := 1; i < len(enc.rules); i++ {
		assert.GreaterOrEqual(t, len(enc.rules[i-1].prefix), len(enc.rules[i].prefix))
	}
	assert.Equal(t, "app-bankruptcy", enc.rules[0].prefix)
}

func TestEncode(t *testing.T) {
	enc := NewEncoder()
	sub, err := enc.Encode(map[string]any{
		"status":          "approved",
		"app-first":       "  Jane ",
		"app-last":        "Doe",
		"app-phone":       "",
		"emp-income":      85000.0,
		"co-first":        "John",
		"co-emp-income":   "64000",
		"ref-name":        "   ",
		"app-bankruptcy":  "no",
		"asset-re-type-1": "Condo",
		"nw-assets":       "100",
		"nw-liabs":        "40",
		"sign-app-name":   "Jane Doe",
		"consent-text":    "I agree",
		"loose-field":     true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Bucket{
		"app-first":   "Jane",
		"app-last":    "Doe",
		"app-phone":   nil,
		"emp-income":  85000.0,
		"loose-field": true,
	}, sub.Applicant)
	assert.Equal(t, domain.Bucket{"co-first": "John", "co-emp-income": "64000"}, sub.CoApplicant)
	assert.Nil(t, sub.Reference, "all-blank bucket is stored as null")
	assert.Equal(t, domain.Bucket{"app-bankruptcy": "no"}, sub.Declarations)
	assert.Equal(t, domain.Bucket{"asset-re-type-1": "Condo"}, sub.Assets)
	assert.Nil(t, sub.Liabilities)
	assert.Equal(t, domain.Bucket{"nw-assets": "100", "nw-liabs": "40", "nw-net": 60.0}, sub.Totals)
	assert.Equal(t, domain.Bucket{"applicant_name": "Jane Doe", "signature": "Jane Doe"}, sub.Consent)
	assert.Nil(t, sub.FinancingDetails)
	_, hasStatus := sub.Applicant["status"]
	assert.False(t, hasStatus)
}

func TestEncodeRejectsMissingApplicant(t *testing.T) {
	enc := NewEncoder()
	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"empty", map[string]any{}},
		{"only other buckets", map[string]any{"co-first": "John", "fin-purchase-price": "1"}},
		{"only blank applicant values", map[string]any{"app-first": " ", "app-last": ""}},
		{"only status", map[string]any{"status": "submitted"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(tt.fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestEncodeFinancing(t *testing.T) {
	enc := NewEncoder()
	tests := []struct {
		name   string
		fields map[string]any
		want   domain.Bucket
	}{
		{
			name: "recomputes finance amount",
			fields: map[string]any{
				"fin-purchase-price": "500000",
				"fin-down-payment":   "100000",
				"fin-finance-amount": "1",
			},
			want: domain.Bucket{"purchase_price": 500000.0, "down_payment": 100000.0, "finance_amount": 400000.0},
		},
		{
			name: "never negative",
			fields: map[string]any{
				"fin-purchase-price": 100.0,
				"fin-down-payment":   250.0,
			},
			want: domain.Bucket{"purchase_price": 100.0, "down_payment": 250.0, "finance_amount": 0.0},
		},
		{
			name: "falls back to submitted amount",
			fields: map[string]any{
				"fin-purchase-price": "500000",
				"fin-finance-amount": "420000",
			},
			want: domain.Bucket{"purchase_price": 500000.0, "finance_amount": 420000.0},
		},
		{
			name: "no fallback available",
			fields: map[string]any{
				"fin-purchase-price": "500000",
				"fin-down-payment":   "lots",
			},
			want: domain.Bucket{"purchase_price": 500000.0},
		},
		{
			name: "strings trimmed",
			fields: map[string]any{
				"fin-closing-date":         "2026-03-01",
				"fin-property-address":     " 1 Main St ",
				"fin-property-postal-code": "",
				"fin-notes":                "ignored",
			},
			want: domain.Bucket{"closing_date": "2026-03-01", "property_address": "1 Main St"},
		},
		{
			name:   "all invalid collapses to null",
			fields: map[string]any{"fin-purchase-price": "n/a", "fin-closing-date": " "},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fields["app-first"] = "Jane"
			sub, err := enc.Encode(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sub.FinancingDetails)
		})
	}
}

func TestCompactConsent(t *testing.T) {
	assert.Nil(t, CompactConsent(nil))
	assert.Nil(t, CompactConsent(domain.Bucket{"consent-text": "I agree", "sign-file": "sig.png"}))

	got := CompactConsent(domain.Bucket{
		"sign-app-name": "Jane Doe",
		"sign-app-date": "2026-10-01",
		"sign-co-name":  "John Doe",
		"sign-co-date":  nil,
		"consent-text":  "I agree",
	})
	assert.Equal(t, domain.Bucket{
		"applicant_name":   "Jane Doe",
		"applicant_date":   "2026-10-01",
		"coapplicant_name": "John Doe",
		"signature":        "Jane Doe",
	}, got)

	got = CompactConsent(domain.Bucket{"sign-co-name": "John Doe"})
	assert.Equal(t, domain.Bucket{"coapplicant_name": "John Doe"}, got)
}

func TestCompleteTotals(t *testing.T) {
	assert.Nil(t, CompleteTotals(nil))

	in := domain.Bucket{"nw-assets": "1000", "nw-liabs": "2500"}
	out := CompleteTotals(in)
	assert.Equal(t, -1500.0, out["nw-net"])
	_, touched := in["nw-net"]
	assert.False(t, touched)

	kept := CompleteTotals(domain.Bucket{"nw-assets": "1000", "nw-liabs": "1", "nw-net": "5"})
	assert.Equal(t, "5", kept["nw-net"])

	partial := CompleteTotals(domain.Bucket{"nw-assets": "1000"})
	assert.Nil(t, partial["nw-net"])
}
