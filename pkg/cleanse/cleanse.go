// pkg/cleanse/cleanse.go
package cleanse

import (
	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/stats"
)

// Cleaner removes noise rows and trims upper-tail outliers from a
// standardized batch, then derives calendar features for the survivors. It
// never mutates the standard table it consumes.
type Cleaner struct {
	logger          *zap.Logger
	outlierQuantile float64
}

// New creates a Cleaner with the default 99th-percentile outlier cutoff.
func New(logger *zap.Logger) *Cleaner {
	return &Cleaner{
		logger:          logger,
		outlierQuantile: 0.99,
	}
}

// WithOutlierQuantile sets the upper-tail trim percentile and returns the
// modified cleaner.
func (c *Cleaner) WithOutlierQuantile(q float64) *Cleaner {
	if q > 0 && q <= 1 {
		c.outlierQuantile = q
	}
	return c
}

// Clean filters the standardized rows in two stages: first drop rows with
// non-positive Amount or Quantity, then compute the outlier threshold over
// the surviving candidates and drop rows exceeding it. The threshold is taken
// over the candidate set, not the raw set, so inclusion is a two-stage
// filter rather than one predicate per row. Rows are never added or mutated
// beyond the derived calendar columns.
func (c *Cleaner) Clean(std *model.StandardTable) *model.CleanTable {
	out := &model.CleanTable{}

	// Stage 1: positivity filter.
	candidates := make([]model.StandardRecord, 0, len(std.Records))
	for _, rec := range std.Records {
		if rec.Amount <= 0 || rec.Quantity <= 0 {
			out.DroppedNonPositive++
			continue
		}
		candidates = append(candidates, rec)
	}

	// Stage 2: upper-tail trim. Skipped entirely on an empty candidate set so
	// no NaN threshold can propagate.
	if len(candidates) > 0 {
		totals := make([]float64, len(candidates))
		for i, rec := range candidates {
			totals[i] = rec.TotalSales
		}
		out.OutlierThreshold = stats.Quantile(totals, c.outlierQuantile)
	}

	out.Records = make([]model.CleanRecord, 0, len(candidates))
	for _, rec := range candidates {
		if rec.TotalSales > out.OutlierThreshold {
			out.DroppedOutliers++
			continue
		}
		out.Records = append(out.Records, deriveCalendar(rec))
	}

	c.logger.Info("Cleaned batch",
		zap.Int("input", len(std.Records)),
		zap.Int("output", len(out.Records)),
		zap.Int("droppedNonPositive", out.DroppedNonPositive),
		zap.Int("droppedOutliers", out.DroppedOutliers),
		zap.Float64("outlierThreshold", out.OutlierThreshold))

	return out
}

// deriveCalendar attaches Year/YYYYMM/Hour/Weekday features. A null Date
// propagates null markers instead of the row being dropped.
func deriveCalendar(rec model.StandardRecord) model.CleanRecord {
	clean := model.CleanRecord{
		StandardRecord: rec,
		Hour:           -1,
	}

	if rec.Date != nil {
		d := *rec.Date
		clean.Year = d.Year()
		clean.YYYYMM = d.Format("2006-01")
		clean.Hour = d.Hour()
		clean.Weekday = d.Weekday().String()
	}

	return clean
}
