package schema

import (
	"github.com/sells-group/leads-checker/internal/table"
)

// DealRecord is one exported deal row reduced to its canonical fields.
// Individual fields may be blank.
type DealRecord struct {
	ContactName  string
	ContactEmail string
	CompanyName  string
	CompanyID    string
}

// AlignmentRecord is one known company↔domain association.
type AlignmentRecord struct {
	CompanyName string
	Domain      string
}

// LeadRecord is one prospective lead. Raw keeps every original column for
// passthrough export.
type LeadRecord struct {
	Email       string
	CompanyName string
	FirstName   string
	LastName    string
	Raw         table.Row
}

// Deals resolves a parsed deals export with the built-in alias table. At
// least one of the contact-email or company-name columns must be present.
func Deals(t *table.Table) ([]DealRecord, error) {
	return DealsWith(t, DefaultAliases(SourceDeals))
}

// DealsWith resolves a parsed deals export with a custom alias table.
func DealsWith(t *table.Table, aliases Aliases) ([]DealRecord, error) {
	r := NewResolverWithAliases(SourceDeals, t.Columns, aliases)
	if err := r.RequireAny(FieldContactEmail, FieldCompanyName); err != nil {
		return nil, err
	}

	out := make([]DealRecord, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, DealRecord{
			ContactName:  r.Value(row, FieldContactName),
			ContactEmail: r.Value(row, FieldContactEmail),
			CompanyName:  r.Value(row, FieldCompanyName),
			CompanyID:    r.Value(row, FieldCompanyID),
		})
	}
	return out, nil
}

// Alignments resolves a parsed company-alignment export with the built-in
// alias table. Both the company name and domain columns are required.
func Alignments(t *table.Table) ([]AlignmentRecord, error) {
	return AlignmentsWith(t, DefaultAliases(SourceAlignment))
}

// AlignmentsWith resolves a parsed company-alignment export with a custom
// alias table.
func AlignmentsWith(t *table.Table, aliases Aliases) ([]AlignmentRecord, error) {
	r := NewResolverWithAliases(SourceAlignment, t.Columns, aliases)
	if err := r.Require(FieldCompanyName, FieldDomain); err != nil {
		return nil, err
	}

	out := make([]AlignmentRecord, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, AlignmentRecord{
			CompanyName: r.Value(row, FieldCompanyName),
			Domain:      r.Value(row, FieldDomain),
		})
	}
	return out, nil
}

// Leads resolves a parsed New Leads table with the built-in alias table.
// The email column is required; blank emails on individual rows are allowed
// and classified conservatively.
func Leads(t *table.Table) ([]LeadRecord, error) {
	return LeadsWith(t, DefaultAliases(SourceNewLeads))
}

// LeadsWith resolves a parsed New Leads table with a custom alias table.
func LeadsWith(t *table.Table, aliases Aliases) ([]LeadRecord, error) {
	r := NewResolverWithAliases(SourceNewLeads, t.Columns, aliases)
	if err := r.Require(FieldEmail); err != nil {
		return nil, err
	}

	out := make([]LeadRecord, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, LeadRecord{
			Email:       r.Value(row, FieldEmail),
			CompanyName: r.Value(row, FieldCompanyName),
			FirstName:   r.Value(row, FieldFirstName),
			LastName:    r.Value(row, FieldLastName),
			Raw:         row,
		})
	}
	return out, nil
}
