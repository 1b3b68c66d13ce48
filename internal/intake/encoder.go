// Package intake turns flat, prefix-keyed form submissions into the bucketed
// shape stored for an application.
package intake

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/samber/lo"
)

// Bucket names, matching the applications table columns.
const (
	BucketApplicant        = "applicant"
	BucketCoApplicant      = "co_applicant"
	BucketReference        = "reference"
	BucketDeclarations     = "declarations"
	BucketConsent          = "consent"
	BucketAssets           = "assets"
	BucketLiabilities      = "liabilities"
	BucketTotals           = "totals"
	BucketFinancingDetails = "financing_details"
)

// StatusKey is reserved in submissions and never bucketed.
const StatusKey = "status"

type prefixRule struct {
	prefix string
	bucket string
}

// Both co-applicant prefixes land in co_applicant. "co-emp-" is kept as its
// own row so the table documents where employment fields go.
var prefixRules = []prefixRule{
	{"app-", BucketApplicant},
	{"emp-", BucketApplicant},
	{"ref-", BucketReference},
	{"co-", BucketCoApplicant},
	{"co-emp-", BucketCoApplicant},
	{"asset-", BucketAssets},
	{"debt-", BucketLiabilities},
	{"nw-", BucketTotals},
	{"app-bankruptcy", BucketDeclarations},
	{"co-bankruptcy", BucketDeclarations},
	{"sign-", BucketConsent},
	{"consent-", BucketConsent},
	{"fin-", BucketFinancingDetails},
}

// Encoder buckets submissions using a prefix table sorted once, longest
// prefix first.
type Encoder struct {
	rules []prefixRule
}

func NewEncoder() *Encoder {
	rules := make([]prefixRule, len(prefixRules))
	copy(rules, prefixRules)
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].prefix) > len(rules[j].prefix)
	})
	return &Encoder{rules: rules}
}

// BucketFor returns the bucket a key belongs to. Keys that match no prefix
// fall back to the applicant bucket.
func (e *Encoder) BucketFor(key string) string {
	rule, ok := lo.Find(e.rules, func(r prefixRule) bool {
		return strings.HasPrefix(key, r.prefix)
	})
	if !ok {
		return BucketApplicant
	}
	return rule.bucket
}

// Encode normalizes and buckets a flat submission. It fails with
// domain.ErrValidation when no applicant value survives normalization.
func (e *Encoder) Encode(fields map[string]any) (domain.Submission, error) {
	raw := make(map[string]domain.Bucket)
	for key, value := range fields {
		if key == StatusKey {
			continue
		}
		name := e.BucketFor(key)
		if raw[name] == nil {
			raw[name] = domain.Bucket{}
		}
		raw[name][key] = Normalize(value)
	}

	applicant := nonEmpty(raw[BucketApplicant])
	if applicant == nil {
		return domain.Submission{}, fmt.Errorf("%w: missing applicant data", domain.ErrValidation)
	}

	return domain.Submission{
		Applicant:        applicant,
		CoApplicant:      nonEmpty(raw[BucketCoApplicant]),
		Reference:        nonEmpty(raw[BucketReference]),
		Declarations:     nonEmpty(raw[BucketDeclarations]),
		Consent:          CompactConsent(raw[BucketConsent]),
		Assets:           nonEmpty(raw[BucketAssets]),
		Liabilities:      nonEmpty(raw[BucketLiabilities]),
		Totals:           nonEmpty(CompleteTotals(raw[BucketTotals])),
		FinancingDetails: CompactFinancing(raw[BucketFinancingDetails]),
	}, nil
}

// nonEmpty returns nil for a bucket whose values are all null. Otherwise the
// bucket is returned as is, null entries included.
func nonEmpty(b domain.Bucket) domain.Bucket {
	if lo.EveryBy(lo.Values(b), isNil) {
		return nil
	}
	return b
}

// prune drops null entries and collapses an empty result to nil.
func prune(b domain.Bucket) domain.Bucket {
	out := lo.OmitBy(b, func(_ string, v any) bool { return isNil(v) })
	if len(out) == 0 {
		return nil
	}
	return out
}

func isNil(v any) bool {
	return v == nil
}
