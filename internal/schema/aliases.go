package schema

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of an alias override file:
//
//	deals:
//	  contact_email: ["E-Mail-Adresse", "Email"]
//	new_leads:
//	  company_name: ["Firma/Organisation", "Company"]
type aliasFile map[Source]map[string][]string

// LoadAliases reads alias overrides from a YAML file and merges them over
// the built-in table for each source. Overridden fields replace the built-in
// list wholesale; untouched fields keep their defaults. New export formats
// are onboarded here without touching the classifier.
func LoadAliases(path string) (map[Source]Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "schema: read alias file")
	}

	var overrides aliasFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrap(err, "schema: parse alias file")
	}

	merged := make(map[Source]Aliases, 3)
	for _, src := range []Source{SourceDeals, SourceAlignment, SourceNewLeads} {
		a := DefaultAliases(src)
		for field, names := range overrides[src] {
			a[field] = names
		}
		merged[src] = a
	}
	return merged, nil
}
