// pkg/analyze/metrics.go
package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/config"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/stats"
)

// Summary holds the headline metrics of one analysis run.
type Summary struct {
	RowsRaw      int
	RowsStandard int
	RowsClean    int
	RowsDropped  int
	RetentionPct float64

	TotalRevenue float64
	RevenueBasis model.RevenueBasis
	RepairCount  int

	// Revenue and quantity distributions before and after cleaning
	RevenueBefore  stats.Summary
	RevenueAfter   stats.Summary
	QuantityBefore stats.Summary
	QuantityAfter  stats.Summary

	MonthlyTrend []TrendPoint
	HourlyTrend  []HourPoint
	TopProducts  []ProductRevenue

	RFMApplicable bool
	RFMScored     bool
	CustomerCount int
	SegmentCounts map[string]int
}

// TrendPoint is aggregate revenue for one calendar month.
type TrendPoint struct {
	Period  string // YYYY-MM
	Revenue float64
	Orders  int
}

// HourPoint is aggregate revenue for one hour of day.
type HourPoint struct {
	Hour    int
	Revenue float64
	Orders  int
}

// ProductRevenue is aggregate revenue for one product.
type ProductRevenue struct {
	Product string
	Revenue float64
}

// BuildSummary derives the run summary from the pipeline outputs.
func BuildSummary(cfg *config.Config, result *Result) *Summary {
	s := &Summary{
		RowsRaw:      result.RowsRaw,
		RevenueBasis: result.Standard.Basis,
		RepairCount:  len(result.Repairs),
	}

	s.RowsStandard = len(result.Standard.Records)
	s.RowsClean = len(result.Clean.Records)
	s.RowsDropped = s.RowsStandard - s.RowsClean
	if s.RowsStandard > 0 {
		s.RetentionPct = float64(s.RowsClean) / float64(s.RowsStandard) * 100
	}

	revBefore := make([]float64, len(result.Standard.Records))
	qtyBefore := make([]float64, len(result.Standard.Records))
	for i, rec := range result.Standard.Records {
		revBefore[i] = rec.TotalSales
		qtyBefore[i] = rec.Quantity
	}
	revAfter := make([]float64, len(result.Clean.Records))
	qtyAfter := make([]float64, len(result.Clean.Records))
	for i, rec := range result.Clean.Records {
		revAfter[i] = rec.TotalSales
		qtyAfter[i] = rec.Quantity
		s.TotalRevenue += rec.TotalSales
	}
	s.RevenueBefore = stats.Describe(revBefore)
	s.RevenueAfter = stats.Describe(revAfter)
	s.QuantityBefore = stats.Describe(qtyBefore)
	s.QuantityAfter = stats.Describe(qtyAfter)

	s.MonthlyTrend = monthlyTrend(result.Clean.Records)
	s.HourlyTrend = hourlyTrend(result.Clean.Records)
	s.TopProducts = topProducts(result.Clean.Records, cfg.TopProductCount)

	if result.RFM != nil {
		s.RFMApplicable = true
		s.RFMScored = result.RFM.Scored
		s.CustomerCount = len(result.RFM.Records)
		if result.RFM.Scored {
			s.SegmentCounts = make(map[string]int)
			for _, rec := range result.RFM.Records {
				s.SegmentCounts[rec.Segment]++
			}
		}
	}

	return s
}

// monthlyTrend aggregates revenue per calendar month in chronological order.
// Rows with no parseable date have no month and are skipped.
func monthlyTrend(records []model.CleanRecord) []TrendPoint {
	byMonth := make(map[string]*TrendPoint)
	for _, rec := range records {
		if rec.YYYYMM == "" {
			continue
		}
		p, ok := byMonth[rec.YYYYMM]
		if !ok {
			p = &TrendPoint{Period: rec.YYYYMM}
			byMonth[rec.YYYYMM] = p
		}
		p.Revenue += rec.TotalSales
		p.Orders++
	}

	trend := make([]TrendPoint, 0, len(byMonth))
	for _, p := range byMonth {
		trend = append(trend, *p)
	}
	// YYYY-MM sorts chronologically as a string.
	sort.Slice(trend, func(i, j int) bool { return trend[i].Period < trend[j].Period })
	return trend
}

// hourlyTrend aggregates revenue per hour of day, ascending.
func hourlyTrend(records []model.CleanRecord) []HourPoint {
	byHour := make(map[int]*HourPoint)
	for _, rec := range records {
		if rec.Hour < 0 {
			continue
		}
		p, ok := byHour[rec.Hour]
		if !ok {
			p = &HourPoint{Hour: rec.Hour}
			byHour[rec.Hour] = p
		}
		p.Revenue += rec.TotalSales
		p.Orders++
	}

	trend := make([]HourPoint, 0, len(byHour))
	for _, p := range byHour {
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Hour < trend[j].Hour })
	return trend
}

// topProducts returns the n highest-revenue products, descending. Ties break
// by product name so the ranking is stable across runs.
func topProducts(records []model.CleanRecord, n int) []ProductRevenue {
	byProduct := make(map[string]float64)
	for _, rec := range records {
		if rec.Product == nil {
			continue
		}
		byProduct[cast.ToString(rec.Product)] += rec.TotalSales
	}

	ranked := make([]ProductRevenue, 0, len(byProduct))
	for product, revenue := range byProduct {
		ranked = append(ranked, ProductRevenue{Product: product, Revenue: revenue})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Product < ranked[j].Product
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// GenerateReport creates a detailed text report for one analysis run.
func (r *Result) GenerateReport() string {
	s := r.Summary
	if s == nil {
		return "no summary available\n"
	}

	report := fmt.Sprintf(`
Analysis Report
===============
Run ID:                  %s
Source:                  %s
Started:                 %s
Duration:                %s

Pipeline Summary
----------------
Raw Rows:                %d
Standardized Rows:       %d
Clean Rows:              %d (%.1f%% retained)
Dropped Rows:            %d
Value Repairs:           %d
Revenue Basis:           %s
Total Clean Revenue:     %.2f

Revenue Distribution (before -> after cleaning)
-----------------------------------------------
Mean:                    %.2f -> %.2f
Std Dev:                 %.2f -> %.2f
Min:                     %.2f -> %.2f
Median:                  %.2f -> %.2f
Max:                     %.2f -> %.2f

Quantity Distribution (before -> after cleaning)
------------------------------------------------
Mean:                    %.2f -> %.2f
Min:                     %.2f -> %.2f
Max:                     %.2f -> %.2f
`,
		r.RunID,
		r.SourceName,
		r.StartTime.Format(time.RFC3339),
		r.Duration().Round(time.Millisecond),

		s.RowsRaw,
		s.RowsStandard,
		s.RowsClean, s.RetentionPct,
		s.RowsDropped,
		s.RepairCount,
		s.RevenueBasis,
		s.TotalRevenue,

		s.RevenueBefore.Mean, s.RevenueAfter.Mean,
		s.RevenueBefore.Std, s.RevenueAfter.Std,
		s.RevenueBefore.Min, s.RevenueAfter.Min,
		s.RevenueBefore.Median, s.RevenueAfter.Median,
		s.RevenueBefore.Max, s.RevenueAfter.Max,

		s.QuantityBefore.Mean, s.QuantityAfter.Mean,
		s.QuantityBefore.Min, s.QuantityAfter.Min,
		s.QuantityBefore.Max, s.QuantityAfter.Max,
	)

	if len(s.MonthlyTrend) > 0 {
		report += "\nMonthly Revenue\n---------------\n"
		for _, p := range s.MonthlyTrend {
			report += fmt.Sprintf("- %s: %.2f (%d orders)\n", p.Period, p.Revenue, p.Orders)
		}
	}

	if len(s.TopProducts) > 0 {
		report += "\nTop Products\n------------\n"
		for i, p := range s.TopProducts {
			report += fmt.Sprintf("%2d. %s: %.2f\n", i+1, p.Product, p.Revenue)
		}
	}

	report += "\nCustomer Segmentation\n---------------------\n"
	switch {
	case !s.RFMApplicable:
		report += "Not applicable: no customer dimension in the export.\n"
	case !s.RFMScored:
		report += fmt.Sprintf("Raw RFM only for %d customers: %v\n", s.CustomerCount, r.RFM.ScoringErr)
	default:
		report += fmt.Sprintf("Customers:               %d\n", s.CustomerCount)
		report += fmt.Sprintf("Snapshot Date:           %s\n", r.RFM.SnapshotDate.Format("2006-01-02"))
		for _, seg := range []string{model.SegmentChampions, model.SegmentLoyal, model.SegmentAtRisk, model.SegmentRegular} {
			report += fmt.Sprintf("- %s: %d\n", seg, s.SegmentCounts[seg])
		}
	}

	return report
}
