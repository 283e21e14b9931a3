package classify

import (
	"github.com/sells-group/leads-checker/internal/table"
)

// Annotation column names appended to every output row.
const (
	ColMatchReason   = "match_reason"
	ColMatchedSource = "matched_source"
)

// Buckets holds the three partitioned output tables of one run.
type Buckets struct {
	New         *table.Table
	Existing    *table.Table
	DoubleCheck *table.Table
}

// Total returns the combined row count across the three tables.
func (b *Buckets) Total() int {
	return b.New.Len() + b.Existing.Len() + b.DoubleCheck.Len()
}

// Partition splits classified results into the three output tables. Every
// original New Leads column passes through untouched, with the reason and
// matched source appended; rows keep their input order within each bucket
// and no result is dropped.
func Partition(results []Result, leadColumns []string) *Buckets {
	cols := make([]string, 0, len(leadColumns)+2)
	cols = append(cols, leadColumns...)
	cols = append(cols, ColMatchReason, ColMatchedSource)

	b := &Buckets{
		New:         &table.Table{Columns: cols},
		Existing:    &table.Table{Columns: cols},
		DoubleCheck: &table.Table{Columns: cols},
	}

	for _, res := range results {
		row := make(table.Row, len(cols))
		for _, col := range leadColumns {
			row[col] = res.Lead.Raw[col]
		}
		row[ColMatchReason] = res.Reason
		if res.Matched != nil {
			row[ColMatchedSource] = string(res.Matched.Source)
		} else {
			row[ColMatchedSource] = ""
		}

		switch res.Bucket {
		case Existing:
			b.Existing.Rows = append(b.Existing.Rows, row)
		case DoubleCheck:
			b.DoubleCheck.Rows = append(b.DoubleCheck.Rows, row)
		default:
			b.New.Rows = append(b.New.Rows, row)
		}
	}

	return b
}
