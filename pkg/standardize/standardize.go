// pkg/standardize/standardize.go
package standardize

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

// Standardizer turns a raw batch plus a column mapping into typed
// StandardRecords: canonical column names, currency noise stripped, values
// coerced, and a canonical TotalSales derived for every row.
type Standardizer struct {
	logger *zap.Logger
	config Config
}

// Config provides tuning options for standardization
type Config struct {
	// UnitPriceMeanThreshold is the revenue-derivation cutoff: when the batch
	// mean of Amount falls below it (and quantities are present), Amount is
	// treated as a unit price. The value is a heuristic with no ground truth,
	// preserved as configuration rather than hard-coded.
	UnitPriceMeanThreshold float64
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		UnitPriceMeanThreshold: 1000,
	}
}

// New creates a Standardizer with default configuration.
func New(logger *zap.Logger) *Standardizer {
	return NewWithConfig(logger, DefaultConfig())
}

// NewWithConfig creates a Standardizer with custom configuration.
func NewWithConfig(logger *zap.Logger, config Config) *Standardizer {
	return &Standardizer{
		logger: logger,
		config: config,
	}
}

// MissingRequiredColumnError indicates that a role standardization cannot
// proceed without (date, price or quantity) failed to resolve to a real
// column. It is fatal to the standardizer call; no partial result is
// produced.
type MissingRequiredColumnError struct {
	Roles []model.Role
}

func (e *MissingRequiredColumnError) Error() string {
	return fmt.Sprintf("required columns unresolved after mapping: %v", e.Roles)
}

// Standardize converts the raw batch into StandardRecords, returning the
// typed table, the cell-level repairs performed, and an error only when a
// required role is unresolved. Malformed cells never abort the batch: they
// degrade to null/zero and leave a repair record behind.
func (s *Standardizer) Standardize(table model.RawTable, mapping model.ColumnMapping) (*model.StandardTable, []model.RepairOperation, error) {
	if missing := mapping.MissingRequired(); len(missing) > 0 {
		return nil, nil, &MissingRequiredColumnError{Roles: missing}
	}

	dateCol, _ := mapping.Resolved(model.RoleDate)
	priceCol, _ := mapping.Resolved(model.RolePrice)
	qtyCol, _ := mapping.Resolved(model.RoleQuantity)
	custCol, hasCustomer := mapping.Resolved(model.RoleCustomer)
	prodCol, hasProduct := mapping.Resolved(model.RoleProduct)
	countryCol, hasCountry := mapping.Resolved(model.RoleCountry)

	records := make([]model.StandardRecord, 0, len(table.Records))
	var repairs []model.RepairOperation

	for i, row := range table.Records {
		rec := model.StandardRecord{}

		// Cleaning must precede numeric coercion: "$1,234.50" only parses
		// once the currency noise is gone.
		amountRaw, amountOps := scrubCurrency(row[priceCol], model.RolePrice.CanonicalName(), i)
		qtyRaw, qtyOps := scrubCurrency(row[qtyCol], model.RoleQuantity.CanonicalName(), i)
		repairs = append(repairs, amountOps...)
		repairs = append(repairs, qtyOps...)

		date, op := coerceDate(row[dateCol], model.RoleDate.CanonicalName(), i)
		rec.Date = date
		if op != nil {
			repairs = append(repairs, *op)
		}

		amount, op := coerceNumber(amountRaw, model.RolePrice.CanonicalName(), i)
		rec.Amount = amount
		if op != nil {
			repairs = append(repairs, *op)
		}

		qty, op := coerceNumber(qtyRaw, model.RoleQuantity.CanonicalName(), i)
		rec.Quantity = qty
		if op != nil {
			repairs = append(repairs, *op)
		}

		// Optional dimensions are carried through verbatim.
		if hasCustomer {
			rec.CustomerID = row[custCol]
		}
		if hasProduct {
			rec.Product = row[prodCol]
		}
		if hasCountry {
			rec.Country = row[countryCol]
		}

		records = append(records, rec)
	}

	std := &model.StandardTable{Records: records}
	s.deriveRevenue(std)

	s.logger.Info("Standardized batch",
		zap.Int("rows", len(records)),
		zap.Int("repairs", len(repairs)),
		zap.String("revenueBasis", string(std.Basis)))

	return std, repairs, nil
}

// deriveRevenue applies the dataset-level revenue heuristic: a low batch mean
// for Amount together with nonzero quantities suggests Amount is a per-unit
// price. The decision is recorded on the table so downstream consumers can
// see which branch fired. It is best-effort inference, not a guaranteed
// classifier: a dataset legitimately averaging below the threshold in total
// revenue per row will be treated as unit-price data.
func (s *Standardizer) deriveRevenue(std *model.StandardTable) {
	if len(std.Records) == 0 {
		std.Basis = model.RevenueBasisTotal
		return
	}

	amounts := make([]float64, len(std.Records))
	quantities := make([]float64, len(std.Records))
	for i, rec := range std.Records {
		amounts[i] = rec.Amount
		quantities[i] = rec.Quantity
	}

	std.MeanAmount = stat.Mean(amounts, nil)
	std.MeanQuantity = stat.Mean(quantities, nil)

	if std.MeanAmount < s.config.UnitPriceMeanThreshold && std.MeanQuantity > 0 {
		std.Basis = model.RevenueBasisUnitPrice
		for i := range std.Records {
			std.Records[i].TotalSales = std.Records[i].Amount * std.Records[i].Quantity
		}
	} else {
		std.Basis = model.RevenueBasisTotal
		for i := range std.Records {
			std.Records[i].TotalSales = std.Records[i].Amount
		}
	}

	s.logger.Debug("Derived revenue basis",
		zap.Float64("meanAmount", std.MeanAmount),
		zap.Float64("meanQuantity", std.MeanQuantity),
		zap.Float64("threshold", s.config.UnitPriceMeanThreshold),
		zap.String("basis", string(std.Basis)))
}
