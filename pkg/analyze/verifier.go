// pkg/analyze/verifier.go
package analyze

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// Verifier checks the structural properties an analysis result must satisfy.
// It exists so a run can be validated independently of how it was produced.
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a result verifier.
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// Issue describes one failed verification check.
type Issue struct {
	Check  string
	Detail string
}

// VerificationReport collects the outcome of all checks over one result.
type VerificationReport struct {
	RunID  string
	Passed bool
	Issues []Issue
}

func (r *VerificationReport) add(check, format string, args ...interface{}) {
	r.Passed = false
	r.Issues = append(r.Issues, Issue{Check: check, Detail: fmt.Sprintf(format, args...)})
}

// Verify runs every check against a completed result.
func (v *Verifier) Verify(result *Result) *VerificationReport {
	report := &VerificationReport{RunID: result.RunID, Passed: true}

	v.checkRowCounts(result, report)
	v.checkCleanRecords(result, report)
	if result.RFM != nil {
		v.checkRFM(result.RFM, report)
	}

	if report.Passed {
		v.logger.Info("Result verification passed", zap.String("runID", result.RunID))
	} else {
		v.logger.Warn("Result verification found issues",
			zap.String("runID", result.RunID),
			zap.Int("issues", len(report.Issues)))
	}

	return report
}

// checkRowCounts verifies the pipeline only ever narrows the data.
func (v *Verifier) checkRowCounts(result *Result, report *VerificationReport) {
	rowsStd := len(result.Standard.Records)
	rowsClean := len(result.Clean.Records)

	if rowsStd > result.RowsRaw {
		report.add("row_counts", "standardized rows (%d) exceed raw rows (%d)", rowsStd, result.RowsRaw)
	}
	if rowsClean > rowsStd {
		report.add("row_counts", "clean rows (%d) exceed standardized rows (%d)", rowsClean, rowsStd)
	}

	dropped := result.Clean.DroppedNonPositive + result.Clean.DroppedOutliers
	if rowsStd-rowsClean != dropped {
		report.add("row_counts", "drop accounting mismatch: %d rows removed but %d recorded",
			rowsStd-rowsClean, dropped)
	}
}

// checkCleanRecords verifies every clean row satisfies the filter contract:
// positive amount and quantity, and revenue within the outlier cutoff.
func (v *Verifier) checkCleanRecords(result *Result, report *VerificationReport) {
	threshold := result.Clean.OutlierThreshold
	for i, rec := range result.Clean.Records {
		if rec.Amount <= 0 {
			report.add("positivity", "clean row %d has non-positive amount %.4f", i, rec.Amount)
		}
		if rec.Quantity <= 0 {
			report.add("positivity", "clean row %d has non-positive quantity %.4f", i, rec.Quantity)
		}
		if threshold > 0 && rec.TotalSales > threshold {
			report.add("outlier_bound", "clean row %d revenue %.4f exceeds cutoff %.4f",
				i, rec.TotalSales, threshold)
		}
		if rec.Date != nil && rec.YYYYMM == "" {
			report.add("calendar", "clean row %d has a date but no derived month", i)
		}
	}
}

// checkRFM verifies score ranges, segment totality, and the recency floor.
func (v *Verifier) checkRFM(table *model.RFMTable, report *VerificationReport) {
	seen := make(map[string]bool, len(table.Records))
	for i, rec := range table.Records {
		if seen[rec.CustomerID] {
			report.add("rfm_distinct", "customer %s appears more than once", rec.CustomerID)
		}
		seen[rec.CustomerID] = true

		if rec.Recency < 1 {
			report.add("rfm_recency", "customer %s has recency %d, below the snapshot floor", rec.CustomerID, rec.Recency)
		}
		if rec.Frequency < 1 {
			report.add("rfm_frequency", "customer %s has frequency %d", rec.CustomerID, rec.Frequency)
		}

		if table.Scored {
			if rec.RScore < 1 || rec.RScore > 5 {
				report.add("rfm_scores", "customer %s has R score %d outside 1..5", rec.CustomerID, rec.RScore)
			}
			if rec.FScore < 1 || rec.FScore > 5 {
				report.add("rfm_scores", "customer %s has F score %d outside 1..5", rec.CustomerID, rec.FScore)
			}
			if rec.Segment == "" {
				report.add("rfm_segments", "customer %s has no segment", rec.CustomerID)
			}
		} else if rec.RScore != 0 || rec.FScore != 0 || rec.Segment != "" {
			report.add("rfm_scores", "unscored table carries scores for customer %s (row %d)", rec.CustomerID, i)
		}
	}

	if !table.Scored && table.ScoringErr == nil {
		report.add("rfm_scores", "table is unscored but carries no scoring error")
	}
}

// GenerateReport creates a text report of the verification outcome.
func (r *VerificationReport) GenerateReport() string {
	report := fmt.Sprintf(`
Verification Report
===================
Run ID:  %s
Status:  %s
`,
		r.RunID,
		map[bool]string{true: "PASSED", false: "FAILED"}[r.Passed],
	)

	if len(r.Issues) > 0 {
		report += "\nIssues\n------\n"
		for _, issue := range r.Issues {
			report += fmt.Sprintf("- [%s] %s\n", issue.Check, issue.Detail)
		}
	}

	return report
}
