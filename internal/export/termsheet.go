package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/samber/lo"
)

// Document is a format-neutral term sheet. Renderers only lay it out.
type Document struct {
	Title    string
	Subtitle string
	Issued   string
	Sections []Section
	Notice   string
}

type Section struct {
	Heading    string
	Paragraphs []string
	Rows       []Row
	Signatures []SignatureLine
}

type Row struct {
	Label string
	Value string
}

type SignatureLine struct {
	Name string
	Date string
}

// Options are the fixed inputs a term sheet needs besides the application.
type Options struct {
	LenderName string
	IssuedAt   time.Time
}

const (
	termSheetTitle   = "Mortgage Financing Term Sheet"
	defaultLender    = "The Lender"
	sensitiveNotice  = "Note: This document may contain sensitive personal information. Handle and store securely."
	signatureLabel   = "Signature"
	clientOneDefault = "Client 1"
)

var feeParagraphs = []string{
	"Lender Fee: Nil, unless otherwise disclosed in the mortgage commitment.",
	"Appraisal Fee: Payable by the Borrower(s) when the appraisal is ordered.",
	"Legal and Title Insurance: Borne by the Borrower(s).",
	"Broker Fee: As disclosed separately in writing before closing.",
}

var conditionParagraphs = []string{
	"This term sheet is not a commitment to lend. Financing is subject to satisfactory verification of credit, income, down payment and the Property.",
	"The terms above are indicative and remain open until the closing date shown, after which they may be revised.",
}

type fieldLabel struct {
	key   string
	label string
}

var applicantLabels = []fieldLabel{
	{"app-first", "First Name"},
	{"app-last", "Last Name"},
	{"app-email", "Email"},
	{"app-phone", "Phone"},
	{"app-dob", "Date of Birth"},
	{"app-sin", "SIN"},
	{"app-street", "Street"},
	{"app-city", "City"},
	{"app-province", "Province"},
	{"app-postal", "Postal Code"},
	{"app-status", "Status"},
	{"emp-position", "Position"},
	{"emp-income", "Income"},
	{"emp-paytype", "Pay Type"},
	{"emp-tenure", "Tenure"},
}

var coApplicantLabels = []fieldLabel{
	{"co-first", "First Name"},
	{"co-last", "Last Name"},
	{"co-email", "Email"},
	{"co-phone", "Phone"},
	{"co-dob", "Date of Birth"},
	{"co-sin", "SIN"},
	{"co-street", "Street"},
	{"co-city", "City"},
	{"co-province", "Province"},
	{"co-postal", "Postal Code"},
	{"co-status", "Status"},
	{"co-emp-position", "Position"},
	{"co-emp-income", "Income"},
	{"co-emp-paytype", "Pay Type"},
	{"co-emp-tenure", "Tenure"},
}

// BuildTermSheet lays out the fixed term sheet sections for an application.
func BuildTermSheet(app domain.Application, opts Options) Document {
	lender := lo.Ternary(opts.LenderName != "", opts.LenderName, defaultLender)
	applicantName := FullName(app.Applicant, "app")
	coApplicantName := FullName(app.CoApplicant, "co")
	fin := app.FinancingDetails

	subtitle := "Application ID: " + app.ID
	if app.Status != "" {
		subtitle += " • Status: " + app.Status
	}

	parties := Section{Heading: "Parties", Rows: []Row{
		{"Borrower", orPlaceholder(lo.FromPtr(applicantName))},
	}}
	if app.CoApplicant != nil {
		parties.Rows = append(parties.Rows, Row{"Co-Borrower", orPlaceholder(lo.FromPtr(coApplicantName))})
	}
	parties.Rows = append(parties.Rows, Row{"Lender", lender})

	property := Section{Heading: "Property", Rows: []Row{
		{"Address", orPlaceholder(stringField(fin, "property_address"))},
		{"City", orPlaceholder(stringField(fin, "property_city"))},
		{"Province", orPlaceholder(stringField(fin, "property_province"))},
		{"Postal Code", orPlaceholder(stringField(fin, "property_postal_code"))},
	}}

	purchasePrice := numberField(fin, "purchase_price")
	financeAmount := numberField(fin, "finance_amount")
	facility := Section{
		Heading:    "Facility Terms",
		Paragraphs: []string{"Facility: First mortgage charge registered against the Property."},
		Rows: []Row{
			{"Purchase Price", FormatMoney(purchasePrice)},
			{"Down Payment", FormatMoney(numberField(fin, "down_payment"))},
			{"Finance Amount", FormatMoney(financeAmount)},
			{"Loan-to-Value", loanToValue(financeAmount, purchasePrice)},
			{"Closing Date", FormatDate(stringField(fin, "closing_date"))},
		},
	}

	sections := []Section{
		parties,
		property,
		facility,
		{Heading: "Fees", Paragraphs: feeParagraphs},
		{Heading: "Conditions", Paragraphs: conditionParagraphs},
		{Heading: "Applicant", Rows: bucketRows(app.Applicant, applicantLabels)},
	}
	if app.CoApplicant != nil {
		sections = append(sections, Section{Heading: "Co-Applicant", Rows: bucketRows(app.CoApplicant, coApplicantLabels)})
	}
	sections = append(sections, Section{Heading: "Signatures", Signatures: signatureLines(app, applicantName, coApplicantName)})

	return Document{
		Title:    termSheetTitle,
		Subtitle: subtitle,
		Issued:   "Issued: " + FormatTime(opts.IssuedAt),
		Sections: sections,
		Notice:   sensitiveNotice,
	}
}

func loanToValue(financeAmount, purchasePrice *float64) string {
	if financeAmount == nil || purchasePrice == nil || *purchasePrice <= 0 {
		return placeholder
	}
	return fmt.Sprintf("%.1f%%", *financeAmount / *purchasePrice * 100)
}

// bucketRows lists labelled keys in label order, then any other keys
// alphabetically under their raw names.
func bucketRows(b domain.Bucket, labels []fieldLabel) []Row {
	if len(b) == 0 {
		return []Row{{placeholder, ""}}
	}
	rows := make([]Row, 0, len(b))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		seen[l.key] = true
		if v, ok := b[l.key]; ok {
			rows = append(rows, Row{l.label, DisplayValue(v)})
		}
	}
	rest := lo.Filter(lo.Keys(b), func(k string, _ int) bool { return !seen[k] })
	sort.Strings(rest)
	for _, k := range rest {
		rows = append(rows, Row{k, DisplayValue(b[k])})
	}
	return rows
}

func signatureLines(app domain.Application, applicantName, coApplicantName *string) []SignatureLine {
	lines := []SignatureLine{{
		Name: lo.Ternary(applicantName != nil, lo.FromPtr(applicantName), clientOneDefault),
		Date: stringField(app.Consent, "applicant_date"),
	}}
	if coApplicantName != nil {
		lines = append(lines, SignatureLine{
			Name: *coApplicantName,
			Date: stringField(app.Consent, "coapplicant_date"),
		})
	}
	lines = append(lines, SignatureLine{Name: signatureLabel})
	for i := range lines {
		if lines[i].Date != "" {
			lines[i].Date = FormatDate(lines[i].Date)
		}
	}
	return lines
}
