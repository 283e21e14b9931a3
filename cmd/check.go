package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leads-checker/internal/classify"
	"github.com/sells-group/leads-checker/internal/config"
	"github.com/sells-group/leads-checker/internal/match"
	"github.com/sells-group/leads-checker/internal/normalize"
	"github.com/sells-group/leads-checker/internal/schema"
	"github.com/sells-group/leads-checker/internal/table"
)

var (
	checkDealsPath     string
	checkAlignmentPath string
	checkLeadsPath     string
	checkOutDir        string
	checkAliasesPath   string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one reconciliation over deals, alignment, and new-leads files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		buckets, err := runCheck(cmd.Context(), cfg, checkPaths{
			deals:     checkDealsPath,
			alignment: checkAlignmentPath,
			leads:     checkLeadsPath,
			aliases:   checkAliasesPath,
			outDir:    checkOutDir,
		})
		if err != nil {
			return err
		}

		zap.L().Info("reconciliation complete",
			zap.Int("new", buckets.New.Len()),
			zap.Int("existing", buckets.Existing.Len()),
			zap.Int("double_check", buckets.DoubleCheck.Len()),
			zap.String("out_dir", checkOutDir),
		)
		return nil
	},
}

// checkPaths carries the file arguments of one run.
type checkPaths struct {
	deals     string
	alignment string
	leads     string
	aliases   string // optional YAML alias overrides
	outDir    string
}

// runCheck loads the three inputs, classifies, partitions, and writes the
// three output files. Nothing is written when any step fails.
func runCheck(ctx context.Context, cfg *config.Config, paths checkPaths) (*classify.Buckets, error) {
	aliases := map[schema.Source]schema.Aliases{
		schema.SourceDeals:     schema.DefaultAliases(schema.SourceDeals),
		schema.SourceAlignment: schema.DefaultAliases(schema.SourceAlignment),
		schema.SourceNewLeads:  schema.DefaultAliases(schema.SourceNewLeads),
	}
	if paths.aliases != "" {
		merged, err := schema.LoadAliases(paths.aliases)
		if err != nil {
			return nil, err
		}
		aliases = merged
	}

	dealsTbl, err := table.Load(paths.deals)
	if err != nil {
		return nil, eris.Wrap(err, "load deals")
	}
	alignTbl, err := table.Load(paths.alignment)
	if err != nil {
		return nil, eris.Wrap(err, "load alignment")
	}
	leadsTbl, err := table.Load(paths.leads)
	if err != nil {
		return nil, eris.Wrap(err, "load leads")
	}

	deals, err := schema.DealsWith(dealsTbl, aliases[schema.SourceDeals])
	if err != nil {
		return nil, err
	}
	aligns, err := schema.AlignmentsWith(alignTbl, aliases[schema.SourceAlignment])
	if err != nil {
		return nil, err
	}
	leads, err := schema.LeadsWith(leadsTbl, aliases[schema.SourceNewLeads])
	if err != nil {
		return nil, err
	}

	zap.L().Info("inputs loaded",
		zap.Int("deals", len(deals)),
		zap.Int("alignments", len(aligns)),
		zap.Int("leads", len(leads)),
	)

	results, err := newEngine(cfg).Run(ctx, deals, aligns, leads)
	if err != nil {
		return nil, eris.Wrap(err, "classify")
	}

	buckets := classify.Partition(results, leadsTbl.Columns)

	ts := time.Now().Format("20060102_150405")
	outputs := []struct {
		name string
		tbl  *table.Table
	}{
		{fmt.Sprintf("new_leads_%s.csv", ts), buckets.New},
		{fmt.Sprintf("existing_leads_%s.csv", ts), buckets.Existing},
		{fmt.Sprintf("double_check_%s.csv", ts), buckets.DoubleCheck},
	}
	for _, out := range outputs {
		path := filepath.Join(paths.outDir, out.name)
		if err := table.WriteCSV(path, out.tbl, exportDelimiter(cfg)); err != nil {
			return nil, eris.Wrapf(err, "write %s", out.name)
		}
	}

	return buckets, nil
}

func newEngine(cfg *config.Config) *classify.Engine {
	norm := normalize.New(cfg.Match.KnownTLDs, cfg.Match.LegalSuffixes, cfg.Match.SubdomainStripToken)
	matcher := match.NewMatcher(cfg.Match.HighThreshold, cfg.Match.LowThreshold)
	return classify.NewEngine(norm, matcher, cfg.Classify.Workers)
}

func exportDelimiter(cfg *config.Config) rune {
	r, _ := utf8.DecodeRuneInString(cfg.Export.Delimiter)
	if r == utf8.RuneError {
		return ';'
	}
	return r
}

func init() {
	checkCmd.Flags().StringVar(&checkDealsPath, "deals", "", "path to the HubSpot deals export (csv or xlsx)")
	checkCmd.Flags().StringVar(&checkAlignmentPath, "alignment", "", "path to the company-alignment export (csv or xlsx)")
	checkCmd.Flags().StringVar(&checkLeadsPath, "leads", "", "path to the new-leads file (csv or xlsx)")
	checkCmd.Flags().StringVar(&checkOutDir, "out-dir", ".", "directory for the three output files")
	checkCmd.Flags().StringVar(&checkAliasesPath, "aliases", "", "optional YAML file overriding column-name aliases")
	_ = checkCmd.MarkFlagRequired("deals")
	_ = checkCmd.MarkFlagRequired("alignment")
	_ = checkCmd.MarkFlagRequired("leads")
	rootCmd.AddCommand(checkCmd)
}
