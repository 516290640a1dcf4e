// pkg/analyze/analyze.go
package analyze

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/cleanse"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/config"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/mapper"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/rfm"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/source"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/standardize"
)

// Analyzer runs the full normalization and segmentation pipeline over a raw
// sales export: column mapping, standardization, cleaning, and RFM analysis.
type Analyzer struct {
	cfg    *config.Config
	logger *zap.Logger

	mapper       *mapper.Mapper
	standardizer *standardize.Standardizer
	cleaner      *cleanse.Cleaner
	rfm          *rfm.Engine
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return NewAnalyzerWithConfig(config.Default(), logger)
}

// NewAnalyzerWithConfig creates an analyzer with the given configuration.
func NewAnalyzerWithConfig(cfg *config.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: logger,
		mapper: mapper.New(logger),
		standardizer: standardize.NewWithConfig(logger, standardize.Config{
			UnitPriceMeanThreshold: cfg.UnitPriceMeanThreshold,
		}),
		cleaner: cleanse.New(logger).WithOutlierQuantile(cfg.OutlierQuantile),
		rfm:     rfm.NewEngine(logger),
	}
}

// MapColumns proposes a role mapping for the given header. The caller may
// adjust the result before running the pipeline; Run never re-maps.
func (a *Analyzer) MapColumns(columns []string) model.ColumnMapping {
	return a.mapper.Map(columns)
}

// Run executes the pipeline stages over an already-loaded raw table using the
// given column mapping. Only a missing required column fails the run; every
// other degradation is recorded in the result instead.
func (a *Analyzer) Run(table *model.RawTable, mapping model.ColumnMapping) (*Result, error) {
	result := NewResult(len(table.Records), mapping)

	a.logger.Info("Starting analysis run",
		zap.String("runID", result.RunID),
		zap.Int("rows", len(table.Records)),
		zap.Int("mappedColumns", mapping.ResolvedCount()))

	std, repairs, err := a.standardizer.Standardize(*table, mapping)
	if err != nil {
		result.Complete(err)
		return result, fmt.Errorf("standardization failed: %w", err)
	}
	result.Standard = std
	result.Repairs = repairs

	result.Clean = a.cleaner.Clean(std)

	rfmTable, err := a.rfm.Compute(result.Clean.Records)
	switch {
	case err == nil:
		result.RFM = rfmTable
	case errors.Is(err, rfm.ErrNoCustomerDimension):
		// Informational: the export simply has no customer dimension.
		a.logger.Info("RFM analysis not applicable", zap.String("runID", result.RunID))
		result.RFMErr = err
	default:
		result.Complete(err)
		return result, fmt.Errorf("RFM computation failed: %w", err)
	}

	result.Summary = BuildSummary(a.cfg, result)
	result.Complete(nil)

	a.logger.Info("Analysis run completed",
		zap.String("runID", result.RunID),
		zap.Duration("duration", result.Duration()),
		zap.Int("rowsClean", len(result.Clean.Records)),
		zap.Float64("retentionPct", result.Summary.RetentionPct))

	return result, nil
}

// AnalyzeSource loads a raw table from the source, maps its columns, and runs
// the pipeline in one step.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src source.RecordSource) (*Result, error) {
	start := time.Now()

	table, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load from %s: %w", src.Name(), err)
	}

	a.logger.Info("Source loaded",
		zap.String("source", src.Name()),
		zap.Int("rows", len(table.Records)),
		zap.Duration("loadTime", time.Since(start)))

	mapping := a.MapColumns(table.Columns)

	result, err := a.Run(table, mapping)
	if result != nil {
		result.SourceName = src.Name()
	}
	return result, err
}
