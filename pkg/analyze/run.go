// pkg/analyze/run.go
package analyze

import (
	"time"

	"github.com/google/uuid"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// Result carries everything one analysis run produced: the intermediate
// tables, the repair audit trail, and the derived summary.
type Result struct {
	RunID      string
	SourceName string
	StartTime  time.Time
	EndTime    time.Time

	RowsRaw int
	Mapping model.ColumnMapping

	Standard *model.StandardTable
	Clean    *model.CleanTable
	RFM      *model.RFMTable // nil when RFM was not applicable
	RFMErr   error           // why RFM was skipped, nil otherwise
	Repairs  []model.RepairOperation

	Summary *Summary

	Err error // fatal pipeline error, nil on success
}

// NewResult creates a result shell for a starting run.
func NewResult(rowsRaw int, mapping model.ColumnMapping) *Result {
	return &Result{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
		RowsRaw:   rowsRaw,
		Mapping:   mapping,
	}
}

// Complete marks the run finished, recording the fatal error if any.
func (r *Result) Complete(err error) {
	r.EndTime = time.Now()
	r.Err = err
}

// Duration returns how long the run took so far, or took in total once
// completed.
func (r *Result) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Success reports whether the run completed without a fatal error.
func (r *Result) Success() bool {
	return !r.EndTime.IsZero() && r.Err == nil
}
