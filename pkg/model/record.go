// pkg/model/record.go
package model

import "time"

// RawRecord is one row of an uploaded sales export. Keys are the original
// column names; values are whatever the source produced (string, number, or
// nil for a missing cell). No invariants hold until the row is standardized.
type RawRecord map[string]interface{}

// RawTable is the full raw upload: the header in its original order plus
// every row. Column order matters to the mapper, so it is carried explicitly
// rather than recovered from map keys.
type RawTable struct {
	Columns []string
	Records []RawRecord
}

// RevenueBasis records which branch of the revenue-derivation heuristic was
// applied to a standardized batch. The decision is made once per dataset and
// applied uniformly to every row.
type RevenueBasis string

const (
	// RevenueBasisUnitPrice means Amount was treated as a per-unit price and
	// TotalSales derived as Amount * Quantity.
	RevenueBasisUnitPrice RevenueBasis = "unit_price"
	// RevenueBasisTotal means Amount was treated as an already-aggregated
	// revenue figure and carried into TotalSales unchanged.
	RevenueBasisTotal RevenueBasis = "total"
)

// StandardRecord is a typed row produced by the standardizer. It is immutable
// once produced; the cleaner consumes it without mutation.
type StandardRecord struct {
	Date       *time.Time  // nil when the source value could not be parsed
	Amount     float64     // unparseable values default to 0
	Quantity   float64     // unparseable values default to 0
	TotalSales float64     // derived, see RevenueBasis
	CustomerID interface{} // carried through verbatim, nil when unmapped
	Product    interface{} // carried through verbatim, nil when unmapped
	Country    interface{} // carried through verbatim, nil when unmapped
}

// StandardTable is the standardizer's output: the typed rows plus the
// batch-level revenue decision and the means that drove it.
type StandardTable struct {
	Records      []StandardRecord
	Basis        RevenueBasis
	MeanAmount   float64
	MeanQuantity float64
}

// CleanRecord is a StandardRecord that survived noise and outlier filtering,
// extended with calendar features derived from Date. When Date is nil the
// derived fields hold their null markers (zero Year, empty YYYYMM and
// Weekday, Hour of -1) rather than the row being dropped.
type CleanRecord struct {
	StandardRecord
	Year    int
	YYYYMM  string
	Hour    int
	Weekday string
}

// CleanTable is the cleaner's output along with the filter accounting the
// summary metrics are built from.
type CleanTable struct {
	Records            []CleanRecord
	OutlierThreshold   float64 // the applied TotalSales cutoff, 0 if none
	DroppedNonPositive int
	DroppedOutliers    int
}

// RFMRecord holds the Recency/Frequency/Monetary aggregation for one
// customer. RScore/FScore are 1-5 ordinals and Segment a behavioral label;
// all three are absent (zero / empty) when the population could not support
// quintile scoring.
type RFMRecord struct {
	CustomerID string
	Recency    int // days since last purchase, relative to the snapshot date
	Frequency  int // transaction count
	Monetary   float64
	RScore     int
	FScore     int
	Segment    string
}

// Segment labels, in rule-precedence order.
const (
	SegmentChampions = "Champions"
	SegmentLoyal     = "Loyal"
	SegmentAtRisk    = "At Risk"
	SegmentRegular   = "Regular"
)

// RFMTable is the RFM engine's output. Scored reports whether quintile
// scoring succeeded; when false the records carry raw aggregates only and
// ScoringErr explains why.
type RFMTable struct {
	Records      []RFMRecord
	SnapshotDate time.Time
	Scored       bool
	ScoringErr   error
}
