// Package schema maps the varying column names of HubSpot exports onto the
// canonical field set each source needs. Exports differ by language and
// version, so every canonical field carries a priority-ordered alias list;
// the first alias present in the header wins. The alias tables are the
// single seam for future export-format changes.
package schema

import (
	"fmt"
	"strings"

	"github.com/sells-group/leads-checker/internal/table"
)

// Source identifies one of the three input tables.
type Source string

const (
	SourceDeals     Source = "deals"
	SourceAlignment Source = "alignment"
	SourceNewLeads  Source = "new_leads"
)

// Canonical field names.
const (
	FieldContactName  = "contact_name"
	FieldContactEmail = "contact_email"
	FieldCompanyName  = "company_name"
	FieldCompanyID    = "company_id"
	FieldDomain       = "company_domain"
	FieldEmail        = "email"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
)

// MissingColumnError reports a required canonical field with no resolvable
// alias in a source table. It aborts the run before classification starts.
type MissingColumnError struct {
	Source Source
	Field  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("schema: %s is missing a required column for %q", e.Source, e.Field)
}

// Aliases lists acceptable column names per canonical field, in priority
// order. Resolution is case-insensitive and whitespace-tolerant.
type Aliases map[string][]string

var emailAliases = []string{"E-Mail-Adresse", "Email", "E-Mail", "Associated Email"}

var companyAliases = []string{
	"Firma/Organisation", "Company", "Firma", "Unternehmen",
	"Unternehmensname", "Associated Company", "Alt Company",
}

// DefaultAliases returns the built-in alias table for a source.
func DefaultAliases(src Source) Aliases {
	switch src {
	case SourceDeals:
		return Aliases{
			FieldContactName:  {"Name", "Contact Name", "Associated Contact"},
			FieldContactEmail: emailAliases,
			FieldCompanyName:  companyAliases,
			FieldCompanyID:    {"Unternehmens-ID", "Company ID", "Record ID"},
		}
	case SourceAlignment:
		return Aliases{
			FieldCompanyName: companyAliases,
			FieldDomain: {
				"Domain-Name des Unternehmens", "Company Domain Name",
				"Domain", "Website",
			},
		}
	case SourceNewLeads:
		return Aliases{
			FieldEmail:       emailAliases,
			FieldCompanyName: companyAliases,
			FieldFirstName:   {"Vorname", "First Name"},
			FieldLastName:    {"Nachname", "Last Name"},
		}
	default:
		return Aliases{}
	}
}

// Resolver resolves one source table's header to canonical fields.
type Resolver struct {
	src Source
	// byField maps a canonical field to the original column names present
	// in the table, in alias priority order.
	byField map[string][]string
}

// NewResolver builds a Resolver for a table header using the built-in alias
// table for the source.
func NewResolver(src Source, columns []string) *Resolver {
	return NewResolverWithAliases(src, columns, DefaultAliases(src))
}

// NewResolverWithAliases builds a Resolver with a custom alias table.
func NewResolverWithAliases(src Source, columns []string, aliases Aliases) *Resolver {
	lookup := make(map[string]string, len(columns))
	for _, col := range columns {
		lookup[foldHeader(col)] = col
	}

	byField := make(map[string][]string, len(aliases))
	for field, names := range aliases {
		for _, name := range names {
			if orig, ok := lookup[foldHeader(name)]; ok {
				byField[field] = append(byField[field], orig)
			}
		}
	}

	return &Resolver{src: src, byField: byField}
}

// Has reports whether any alias of the field is present in the header.
func (r *Resolver) Has(field string) bool {
	return len(r.byField[field]) > 0
}

// Value returns the first non-blank value among the field's resolved
// columns, probed in alias priority order. Multiple company-like columns in
// a New Leads export fall through this chain row by row.
func (r *Resolver) Value(row table.Row, field string) string {
	for _, col := range r.byField[field] {
		if v := strings.TrimSpace(row.Get(col)); v != "" {
			return v
		}
	}
	return ""
}

// Require returns a MissingColumnError unless every listed field has at
// least one alias in the header. Blank values on individual rows are fine;
// the classifier degrades those per record.
func (r *Resolver) Require(fields ...string) error {
	for _, f := range fields {
		if !r.Has(f) {
			return &MissingColumnError{Source: r.src, Field: f}
		}
	}
	return nil
}

// RequireAny returns a MissingColumnError for the first field unless at
// least one of the listed fields resolves.
func (r *Resolver) RequireAny(fields ...string) error {
	for _, f := range fields {
		if r.Has(f) {
			return nil
		}
	}
	return &MissingColumnError{Source: r.src, Field: strings.Join(fields, "|")}
}

func foldHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}
