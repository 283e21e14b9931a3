// Package match holds the pairwise comparison logic: domain equivalence and
// fuzzy company-name similarity.
package match

// DomainsMatch reports whether two already-normalized domain roots identify
// the same organization. TLD and hosting-style subdomains were stripped
// during normalization, so "acme.com" and "acme.de" compare equal. That
// tolerance for false positives is deliberate: catching the same org across
// country TLDs matters more here than precision.
func DomainsMatch(rootA, rootB string) bool {
	return rootA != "" && rootA == rootB
}
