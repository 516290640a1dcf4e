// pkg/rfm/rfm.go
package rfm

import (
	"errors"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// ErrNoCustomerDimension signals that RFM analysis is not applicable: either
// no customer column was mapped or every customer ID in the clean set is
// null. Informational, not a pipeline failure.
var ErrNoCustomerDimension = errors.New("no customer dimension available")

// ErrInsufficientPopulation signals that the customer population is too small
// or too homogeneous to form five distinct quantile bins. The aggregation
// still succeeds; only scores and segments are omitted.
var ErrInsufficientPopulation = errors.New("population cannot support five quantile bins")

// Engine computes per-customer Recency/Frequency/Monetary aggregates,
// quintile scores, and behavioral segments over a clean batch.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an RFM engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// customerAgg accumulates one customer's transactions during the single
// grouping pass.
type customerAgg struct {
	id       string
	lastSeen time.Time
	dated    bool
	count    int
	monetary float64
}

// Compute aggregates the clean set into one RFMRecord per distinct non-null
// customer. Returns ErrNoCustomerDimension when no customer can be
// identified. When quintile scoring is infeasible the table is still
// returned, carrying raw aggregates with Scored false and the reason in
// ScoringErr — scoring degradation never fails the aggregation.
func (e *Engine) Compute(records []model.CleanRecord) (*model.RFMTable, error) {
	// Group by customer in first-occurrence order. Order is load-bearing: the
	// frequency rank transform breaks ties by occurrence, so a stable
	// grouping keeps scoring deterministic.
	byID := make(map[string]*customerAgg)
	var order []*customerAgg

	for _, rec := range records {
		if rec.CustomerID == nil {
			continue
		}
		id := cast.ToString(rec.CustomerID)

		agg, ok := byID[id]
		if !ok {
			agg = &customerAgg{id: id}
			byID[id] = agg
			order = append(order, agg)
		}

		agg.count++
		agg.monetary += rec.TotalSales
		if rec.Date != nil {
			if !agg.dated || rec.Date.After(agg.lastSeen) {
				agg.lastSeen = *rec.Date
				agg.dated = true
			}
		}
	}

	if len(order) == 0 {
		return nil, ErrNoCustomerDimension
	}

	// Customers with no dated transactions cannot anchor a recency; they are
	// excluded rather than given a fabricated one.
	customers := make([]*customerAgg, 0, len(order))
	var maxDate time.Time
	for _, agg := range order {
		if !agg.dated {
			e.logger.Warn("Excluding customer with no dated transactions",
				zap.String("customerID", agg.id))
			continue
		}
		customers = append(customers, agg)
		if agg.lastSeen.After(maxDate) {
			maxDate = agg.lastSeen
		}
	}

	if len(customers) == 0 {
		return nil, ErrNoCustomerDimension
	}

	// Anchor the snapshot one day past the latest transaction so the most
	// recent buyer has Recency 1, never 0.
	snapshot := maxDate.AddDate(0, 0, 1)

	table := &model.RFMTable{
		SnapshotDate: snapshot,
		Records:      make([]model.RFMRecord, len(customers)),
	}

	recencies := make([]float64, len(customers))
	frequencies := make([]float64, len(customers))
	for i, agg := range customers {
		recency := int(snapshot.Sub(agg.lastSeen).Hours() / 24)
		table.Records[i] = model.RFMRecord{
			CustomerID: agg.id,
			Recency:    recency,
			Frequency:  agg.count,
			Monetary:   agg.monetary,
		}
		recencies[i] = float64(recency)
		frequencies[i] = float64(agg.count)
	}

	if err := e.score(table, recencies, frequencies); err != nil {
		e.logger.Warn("Quintile scoring not supportable, returning raw aggregates",
			zap.Int("customers", len(customers)),
			zap.Error(err))
		table.Scored = false
		table.ScoringErr = err
		return table, nil
	}

	table.Scored = true

	e.logger.Info("RFM computed",
		zap.Int("customers", len(customers)),
		zap.Time("snapshotDate", snapshot),
		zap.Bool("scored", table.Scored))

	return table, nil
}

// score assigns R/F quintile scores and segments in place, or reports why it
// cannot.
func (e *Engine) score(table *model.RFMTable, recencies, frequencies []float64) error {
	rBins, err := quintileBins(recencies)
	if err != nil {
		return err
	}

	// Frequency values tie constantly (many customers share a count), so they
	// are rank-transformed first; ranks are distinct by construction.
	fBins, err := quintileBins(rankFirst(frequencies))
	if err != nil {
		return err
	}

	for i := range table.Records {
		// Ascending recency bins label 5..1: the most recent buyers score 5.
		table.Records[i].RScore = 5 - rBins[i]
		// Ascending frequency bins label 1..5.
		table.Records[i].FScore = fBins[i] + 1
		table.Records[i].Segment = segment(table.Records[i].RScore, table.Records[i].FScore)
	}

	return nil
}

// segment classifies a customer from its R/F scores. Rules are evaluated
// top-to-bottom and the first match wins; the order is semantically
// load-bearing because the conditions overlap.
func segment(rScore, fScore int) string {
	switch {
	case rScore >= 4 && fScore >= 4:
		return model.SegmentChampions
	case fScore >= 3:
		return model.SegmentLoyal
	case rScore <= 2:
		return model.SegmentAtRisk
	default:
		return model.SegmentRegular
	}
}
