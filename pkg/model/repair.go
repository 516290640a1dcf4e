// pkg/model/repair.go
package model

import (
	"time"
)

// RepairOperation records a single cell-level repair performed while
// standardizing a batch: a stripped currency symbol, a failed parse defaulted
// to zero, a date coerced to null. Malformed cells never abort the batch, so
// the audit trail is the only witness that a value was touched.
type RepairOperation struct {
	ColumnName    string      // canonical column the repair applied to
	RowIndex      int         // position of the row in the raw batch
	OriginalValue interface{} // original cell value (may be nil)
	NewValue      string      // value after repair, rendered as text
	Operation     string      // type of repair performed (e.g. "currency_strip")
	Reason        string      // why the repair happened (e.g. "unparseable_number")
	RepairedAt    time.Time
}

// Repair operation types.
const (
	RepairCurrencyStrip = "currency_strip"
	RepairDefaultZero   = "default_zero"
	RepairNullDate      = "null_date"
)
