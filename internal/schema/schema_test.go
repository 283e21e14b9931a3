package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-checker/internal/table"
)

func TestResolveCaseAndWhitespaceInsensitive(t *testing.T) {
	r := NewResolver(SourceNewLeads, []string{" e-mail-adresse ", "FIRMA/ORGANISATION"})

	assert.True(t, r.Has(FieldEmail))
	assert.True(t, r.Has(FieldCompanyName))

	row := table.Row{" e-mail-adresse ": "a@x.com", "FIRMA/ORGANISATION": "Acme"}
	assert.Equal(t, "a@x.com", r.Value(row, FieldEmail))
	assert.Equal(t, "Acme", r.Value(row, FieldCompanyName))
}

func TestCompanyFallbackChain(t *testing.T) {
	cols := []string{"Firma/Organisation", "Company", "Unternehmensname"}
	r := NewResolver(SourceNewLeads, cols)

	// First non-blank value wins, probed in alias priority order per row.
	row := table.Row{"Firma/Organisation": "", "Company": "Beta Inc", "Unternehmensname": "Gamma"}
	assert.Equal(t, "Beta Inc", r.Value(row, FieldCompanyName))

	row = table.Row{"Firma/Organisation": "Acme", "Company": "Beta Inc"}
	assert.Equal(t, "Acme", r.Value(row, FieldCompanyName))

	row = table.Row{"Firma/Organisation": "  ", "Company": "", "Unternehmensname": ""}
	assert.Equal(t, "", r.Value(row, FieldCompanyName))
}

func TestLeadsMissingEmailColumn(t *testing.T) {
	tbl := &table.Table{Columns: []string{"Company"}, Rows: []table.Row{{"Company": "Acme"}}}

	_, err := Leads(tbl)
	require.Error(t, err)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, SourceNewLeads, missing.Source)
	assert.Equal(t, FieldEmail, missing.Field)
}

func TestLeadsBlankEmailRowAllowed(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"Email", "Company"},
		Rows: []table.Row{
			{"Email": "a@x.com", "Company": "Acme"},
			{"Email": "", "Company": "Beta"},
		},
	}

	leads, err := Leads(tbl)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "", leads[1].Email)
	assert.Equal(t, "Beta", leads[1].CompanyName)
	assert.Equal(t, tbl.Rows[1], leads[1].Raw)
}

func TestDealsRequireEmailOrCompany(t *testing.T) {
	tbl := &table.Table{Columns: []string{"Record ID"}}
	_, err := Deals(tbl)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, SourceDeals, missing.Source)

	tbl = &table.Table{
		Columns: []string{"Associated Company"},
		Rows:    []table.Row{{"Associated Company": "Acme GmbH"}},
	}
	deals, err := Deals(tbl)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "Acme GmbH", deals[0].CompanyName)
}

func TestAlignmentsRequireNameAndDomain(t *testing.T) {
	tbl := &table.Table{Columns: []string{"Company"}}
	_, err := Alignments(tbl)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, FieldDomain, missing.Field)

	tbl = &table.Table{
		Columns: []string{"Company", "Domain-Name des Unternehmens"},
		Rows:    []table.Row{{"Company": "Beta Inc", "Domain-Name des Unternehmens": "beta.nl"}},
	}
	aligns, err := Alignments(tbl)
	require.NoError(t, err)
	require.Len(t, aligns, 1)
	assert.Equal(t, "beta.nl", aligns[0].Domain)
}

func TestGermanHubSpotHeaders(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"E-Mail-Adresse", "Firma/Organisation", "Vorname", "Nachname"},
		Rows: []table.Row{{
			"E-Mail-Adresse":     "k.schmidt@acme.de",
			"Firma/Organisation": "Acme GmbH",
			"Vorname":            "Kai",
			"Nachname":           "Schmidt",
		}},
	}

	leads, err := Leads(tbl)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "k.schmidt@acme.de", leads[0].Email)
	assert.Equal(t, "Acme GmbH", leads[0].CompanyName)
	assert.Equal(t, "Kai", leads[0].FirstName)
	assert.Equal(t, "Schmidt", leads[0].LastName)
}

func TestLoadAliasesMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	yaml := `
new_leads:
  email: ["Mail", "Kontakt-Mail"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	merged, err := LoadAliases(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mail", "Kontakt-Mail"}, merged[SourceNewLeads][FieldEmail])
	// Untouched fields keep the defaults.
	assert.Equal(t, companyAliases, merged[SourceNewLeads][FieldCompanyName])
	assert.Equal(t, emailAliases, merged[SourceDeals][FieldContactEmail])
}

func TestLoadAliasesMissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
