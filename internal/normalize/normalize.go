// Package normalize canonicalizes emails, domains, and company names so the
// matchers compare like with like. Every function here is pure and
// idempotent: normalizing an already-normalized value returns it unchanged.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer derives comparison keys from raw record fields. The TLD set,
// legal suffix set, and subdomain strip tokens come from configuration.
type Normalizer struct {
	knownTLDs   map[string]bool
	suffixes    map[string]bool
	stripTokens map[string]bool
}

// Key is the derived comparison form of one record. It is never exported to
// output files.
type Key struct {
	LocalPart  string
	DomainRoot string
	CompanyKey string
}

// New builds a Normalizer from the configured token sets.
func New(knownTLDs, legalSuffixes, subdomainStripTokens []string) *Normalizer {
	return &Normalizer{
		knownTLDs:   toSet(knownTLDs),
		suffixes:    toSet(legalSuffixes),
		stripTokens: toSet(subdomainStripTokens),
	}
}

// LeadKey derives the full comparison key for a lead.
func (n *Normalizer) LeadKey(email, company string) Key {
	local, domain := SplitEmail(email)
	return Key{
		LocalPart:  local,
		DomainRoot: n.DomainRoot(domain),
		CompanyKey: n.CompanyKey(company),
	}
}

// SplitEmail splits an address on the final "@" into a lower-cased, trimmed
// local part and domain. An address without "@" has no domain; the record is
// still processed, domain comparison simply never matches.
func SplitEmail(email string) (local, domain string) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, ""
	}
	return email[:at], email[at+1:]
}

// DomainRoot reduces a domain to its organization-identifying labels:
// lower-cased, with one leading hosting-style label (www, mail, mx) and one
// trailing known-TLD label stripped. "mail.acme.de" and "acme.com" both
// reduce to "acme". URL forms are accepted too, since alignment exports
// sometimes carry a website column: the scheme and any path are dropped
// before the labels are examined.
func (n *Normalizer) DomainRoot(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	if domain == "" {
		return ""
	}

	labels := strings.Split(domain, ".")
	for len(labels) > 1 && n.stripTokens[labels[0]] {
		labels = labels[1:]
	}
	// Strip trailing known-TLD labels until a non-TLD label remains; this
	// keeps the reduction idempotent for compound TLDs like "co.uk".
	for len(labels) > 1 && n.knownTLDs[labels[len(labels)-1]] {
		labels = labels[:len(labels)-1]
	}
	return strings.Join(labels, ".")
}

// CompanyKey canonicalizes a company name for similarity comparison:
// lower-cased, diacritics folded, punctuation removed, whitespace collapsed,
// and legal-entity suffixes stripped as whole trailing tokens.
func (n *Normalizer) CompanyKey(name string) string {
	name = stripDiacritics(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	// Strip trailing suffix tokens, but never down to an empty key.
	for len(tokens) > 1 && n.suffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		return s
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.ToLower(strings.TrimSpace(it))] = true
	}
	return set
}
