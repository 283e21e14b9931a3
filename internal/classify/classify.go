// Package classify is the reconciliation core: it checks each prospective
// lead against the deals and alignment reference sets and buckets it as
// New, Existing, or DoubleCheck with a human-readable reason.
package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leads-checker/internal/match"
	"github.com/sells-group/leads-checker/internal/normalize"
	"github.com/sells-group/leads-checker/internal/schema"
)

// Bucket is the classification outcome for one lead.
type Bucket int

const (
	New Bucket = iota
	Existing
	DoubleCheck
)

func (b Bucket) String() string {
	switch b {
	case Existing:
		return "existing"
	case DoubleCheck:
		return "double_check"
	default:
		return "new"
	}
}

// SourceKind names the reference set a lead matched against.
type SourceKind string

const (
	SourceDeal      SourceKind = "deal"
	SourceAlignment SourceKind = "alignment"
)

// Reference points at the record a lead matched. Exactly one of Deal and
// Alignment is set.
type Reference struct {
	Source    SourceKind
	Deal      *schema.DealRecord
	Alignment *schema.AlignmentRecord
}

// Result is the classification of one lead. Matched is set only when the
// lead was compared against a concrete deal or alignment record; buckets
// reached without a counterpart (missing email, duplicate local part, no
// match) carry none.
type Result struct {
	Lead    schema.LeadRecord
	Bucket  Bucket
	Reason  string
	Matched *Reference
}

// EmptyInputError reports an empty reference table. Deals and Alignment are
// required reference data; an empty New Leads input is not an error.
type EmptyInputError struct {
	Source schema.Source
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("classify: %s input has no rows", e.Source)
}

// Engine classifies leads against pre-indexed reference data. The reference
// sets are read-only for the duration of a run, so the per-lead loop is safe
// to parallelize.
type Engine struct {
	norm    *normalize.Normalizer
	matcher *match.Matcher
	workers int
}

// NewEngine builds an Engine. workers bounds the parallel classification
// loop; values below 1 fall back to sequential.
func NewEngine(norm *normalize.Normalizer, matcher *match.Matcher, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{norm: norm, matcher: matcher, workers: workers}
}

// domainEntry and companyEntry are the pre-normalized reference indexes.
type domainEntry struct {
	root string
	ref  Reference
}

type companyEntry struct {
	key string
	ref Reference
}

type refIndex struct {
	// domains maps a normalized domain root to the first record carrying
	// it. Deals are indexed before alignments, so a deal wins when both
	// sources share a root.
	domains   map[string]domainEntry
	companies []companyEntry
}

// Run classifies every lead and returns exactly one Result per lead, in
// input order. Structural problems (empty reference data) fail the whole
// run before any classification happens; per-record anomalies degrade to
// DoubleCheck instead.
func (e *Engine) Run(ctx context.Context, deals []schema.DealRecord, aligns []schema.AlignmentRecord, leads []schema.LeadRecord) ([]Result, error) {
	if len(deals) == 0 {
		return nil, &EmptyInputError{Source: schema.SourceDeals}
	}
	if len(aligns) == 0 {
		return nil, &EmptyInputError{Source: schema.SourceAlignment}
	}
	if len(leads) == 0 {
		return []Result{}, nil
	}

	idx := e.buildIndex(deals, aligns)

	// Sequential prepass: normalized keys plus the duplicate local-part
	// flag, which depends on lead order within the batch.
	keys := make([]normalize.Key, len(leads))
	dup := make([]bool, len(leads))
	seen := make(map[string]map[string]bool) // local part -> domain roots
	for i, lead := range leads {
		keys[i] = e.norm.LeadKey(lead.Email, lead.CompanyName)
		if lead.Email == "" {
			continue
		}
		k := keys[i]
		roots := seen[k.LocalPart]
		if roots == nil {
			roots = make(map[string]bool, 1)
			seen[k.LocalPart] = roots
		}
		for r := range roots {
			if r != k.DomainRoot {
				dup[i] = true
				break
			}
		}
		roots[k.DomainRoot] = true
	}

	// The matching steps have no cross-lead dependency, so they fan out.
	results := make([]Result, len(leads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range leads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.classifyOne(leads[i], keys[i], dup[i], idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("classification complete",
		zap.Int("leads", len(leads)),
		zap.Int("deals", len(deals)),
		zap.Int("alignments", len(aligns)),
	)

	return results, nil
}

// classifyOne applies the match cascade to a single lead. Step order is
// authoritative: a later, weaker signal never overrides an earlier one.
func (e *Engine) classifyOne(lead schema.LeadRecord, key normalize.Key, dup bool, idx *refIndex) Result {
	res := Result{Lead: lead}

	// Domain and duplicate checks are undefined without an email.
	if lead.Email == "" {
		res.Bucket = DoubleCheck
		res.Reason = "missing email"
		return res
	}

	// Step 1: domain root against deal contact emails and alignment
	// domains. The map narrows to one candidate; DomainsMatch is the
	// authoritative equivalence check (and rejects empty roots).
	if ent, ok := idx.domains[key.DomainRoot]; ok && match.DomainsMatch(key.DomainRoot, ent.root) {
		ref := ent.ref
		res.Bucket = Existing
		res.Reason = fmt.Sprintf("domain match against %s", ref.Source)
		res.Matched = &Reference{Source: ref.Source, Deal: ref.Deal, Alignment: ref.Alignment}
		return res
	}

	// Steps 2-3: best company similarity across both sources. Deals are
	// indexed first and the comparison is strict, so a deal wins ties.
	if key.CompanyKey != "" {
		var (
			bestScore float64
			bestRef   Reference
		)
		for _, ce := range idx.companies {
			if score := match.Similarity(key.CompanyKey, ce.key); score > bestScore {
				bestScore = score
				bestRef = ce.ref
			}
		}
		switch e.matcher.Outcome(bestScore) {
		case match.Confident:
			res.Bucket = Existing
			res.Reason = fmt.Sprintf("company name match (%.2f) against %s", bestScore, bestRef.Source)
			res.Matched = &Reference{Source: bestRef.Source, Deal: bestRef.Deal, Alignment: bestRef.Alignment}
			return res
		case match.Ambiguous:
			res.Bucket = DoubleCheck
			res.Reason = fmt.Sprintf("ambiguous company match (%.2f) against %s", bestScore, bestRef.Source)
			res.Matched = &Reference{Source: bestRef.Source, Deal: bestRef.Deal, Alignment: bestRef.Alignment}
			return res
		}
	}

	// Step 4: same local part under a different domain earlier in the
	// batch, usually the same person behind a rebrand or alias domain.
	if dup {
		res.Bucket = DoubleCheck
		res.Reason = "duplicate local-part across different domains"
		return res
	}

	res.Bucket = New
	res.Reason = "no match found"
	return res
}

func (e *Engine) buildIndex(deals []schema.DealRecord, aligns []schema.AlignmentRecord) *refIndex {
	idx := &refIndex{domains: make(map[string]domainEntry)}

	for i := range deals {
		d := &deals[i]
		ref := Reference{Source: SourceDeal, Deal: d}
		if d.ContactEmail != "" {
			_, domain := normalize.SplitEmail(d.ContactEmail)
			if root := e.norm.DomainRoot(domain); root != "" {
				if _, ok := idx.domains[root]; !ok {
					idx.domains[root] = domainEntry{root: root, ref: ref}
				}
			}
		}
		if key := e.norm.CompanyKey(d.CompanyName); key != "" {
			idx.companies = append(idx.companies, companyEntry{key: key, ref: ref})
		}
	}

	for i := range aligns {
		a := &aligns[i]
		ref := Reference{Source: SourceAlignment, Alignment: a}
		if root := e.norm.DomainRoot(a.Domain); root != "" {
			if _, ok := idx.domains[root]; !ok {
				idx.domains[root] = domainEntry{root: root, ref: ref}
			}
		}
		if key := e.norm.CompanyKey(a.CompanyName); key != "" {
			idx.companies = append(idx.companies, companyEntry{key: key, ref: ref})
		}
	}

	return idx
}
