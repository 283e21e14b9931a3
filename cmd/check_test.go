package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-checker/internal/config"
	"github.com/sells-group/leads-checker/internal/schema"
)

func testConfig() *config.Config {
	return &config.Config{
		Match: config.MatchConfig{
			HighThreshold:       0.90,
			LowThreshold:        0.75,
			KnownTLDs:           []string{"com", "de", "nl", "org", "net", "io"},
			LegalSuffixes:       []string{"gmbh", "ag", "bv", "ltd", "llc", "inc", "corp"},
			SubdomainStripToken: []string{"www", "mail", "mx"},
		},
		Classify: config.ClassifyConfig{Workers: 2},
		Export:   config.ExportConfig{Delimiter: ";"},
	}
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCheckEndToEnd(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	deals := writeInput(t, dir, "deals.csv",
		"Associated Email,Associated Company\nj@acme.com,Acme GmbH\n")
	aligns := writeInput(t, dir, "alignment.csv",
		"Company;Domain-Name des Unternehmens\nBeta Inc;beta.nl\n")
	leads := writeInput(t, dir, "leads.csv",
		"E-Mail-Adresse,Firma/Organisation\nk@acme.de,Acme\nz@zeta.org,Zeta Industries\n,\n")

	buckets, err := runCheck(context.Background(), testConfig(), checkPaths{deals: deals, alignment: aligns, leads: leads, outDir: outDir})
	require.NoError(t, err)

	assert.Equal(t, 1, buckets.Existing.Len())
	assert.Equal(t, 1, buckets.New.Len())
	assert.Equal(t, 1, buckets.DoubleCheck.Len())
	assert.Equal(t, "domain match against deal", buckets.Existing.Rows[0]["match_reason"])

	files, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestRunCheckMissingColumnAborts(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	deals := writeInput(t, dir, "deals.csv", "Associated Email\nj@acme.com\n")
	aligns := writeInput(t, dir, "alignment.csv", "Company;Domain-Name des Unternehmens\nBeta Inc;beta.nl\n")
	// No resolvable email column in the leads file.
	leads := writeInput(t, dir, "leads.csv", "Telefon,Firma/Organisation\n123,Acme\n")

	_, err := runCheck(context.Background(), testConfig(), checkPaths{deals: deals, alignment: aligns, leads: leads, outDir: outDir})
	var missing *schema.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, schema.SourceNewLeads, missing.Source)

	// A structural failure produces no partial output.
	files, err2 := os.ReadDir(outDir)
	require.NoError(t, err2)
	assert.Empty(t, files)
}

func TestRunCheckEmptyReferenceAborts(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	deals := writeInput(t, dir, "deals.csv", "Associated Email,Associated Company\n")
	aligns := writeInput(t, dir, "alignment.csv", "Company;Domain-Name des Unternehmens\nBeta Inc;beta.nl\n")
	leads := writeInput(t, dir, "leads.csv", "E-Mail-Adresse\nk@acme.de\n")

	_, err := runCheck(context.Background(), testConfig(), checkPaths{deals: deals, alignment: aligns, leads: leads, outDir: outDir})
	require.Error(t, err)

	files, err2 := os.ReadDir(outDir)
	require.NoError(t, err2)
	assert.Empty(t, files)
}

func TestRunCheckAliasOverrides(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	deals := writeInput(t, dir, "deals.csv",
		"Associated Email,Associated Company\nj@acme.com,Acme GmbH\n")
	aligns := writeInput(t, dir, "alignment.csv",
		"Company;Domain-Name des Unternehmens\nBeta Inc;beta.nl\n")
	// "Kontakt-Mail" is not a built-in alias; the override maps it.
	leads := writeInput(t, dir, "leads.csv", "Kontakt-Mail\nk@acme.de\n")
	aliasFile := writeInput(t, dir, "aliases.yaml", "new_leads:\n  email: [\"Kontakt-Mail\"]\n")

	buckets, err := runCheck(context.Background(), testConfig(), checkPaths{
		deals: deals, alignment: aligns, leads: leads, aliases: aliasFile, outDir: outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, buckets.Existing.Len())
}

func TestExportDelimiter(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, ';', exportDelimiter(cfg))

	cfg.Export.Delimiter = ""
	assert.Equal(t, ';', exportDelimiter(cfg))

	cfg.Export.Delimiter = ","
	assert.Equal(t, ',', exportDelimiter(cfg))

	// A multi-byte character decodes as one rune, not its first byte.
	cfg.Export.Delimiter = "§"
	assert.Equal(t, '§', exportDelimiter(cfg))
}

func TestRunCheckMissingFile(t *testing.T) {
	outDir := t.TempDir()
	_, err := runCheck(context.Background(), testConfig(), checkPaths{deals: "no-such.csv", alignment: "no-such.csv", leads: "no-such.csv", outDir: outDir})
	assert.Error(t, err)
}
