package standardize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

func fullMapping() model.ColumnMapping {
	return model.ColumnMapping{
		model.RoleDate:     "Date",
		model.RolePrice:    "Price",
		model.RoleQuantity: "Qty",
		model.RoleCustomer: "Customer",
		model.RoleProduct:  "Product",
		model.RoleCountry:  "Country",
	}
}

func rawTable(rows ...model.RawRecord) model.RawTable {
	return model.RawTable{
		Columns: []string{"Date", "Price", "Qty", "Customer", "Product", "Country"},
		Records: rows,
	}
}

func TestStandardizeMissingRequiredColumn(t *testing.T) {
	s := New(zap.NewNop())

	mapping := fullMapping()
	mapping[model.RoleQuantity] = ""

	_, _, err := s.Standardize(rawTable(), mapping)
	require.Error(t, err)

	var missingErr *MissingRequiredColumnError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []model.Role{model.RoleQuantity}, missingErr.Roles)
}

func TestStandardizeCurrencyStrip(t *testing.T) {
	s := New(zap.NewNop())

	std, repairs, err := s.Standardize(rawTable(
		model.RawRecord{"Date": "2024-03-01", "Price": "$1,234.50", "Qty": "2"},
	), fullMapping())
	require.NoError(t, err)
	require.Len(t, std.Records, 1)

	assert.Equal(t, 1234.50, std.Records[0].Amount)
	assert.Equal(t, 2.0, std.Records[0].Quantity)

	require.Len(t, repairs, 1)
	assert.Equal(t, model.RepairCurrencyStrip, repairs[0].Operation)
	assert.Equal(t, "Amount", repairs[0].ColumnName)
	assert.Equal(t, "$1,234.50", repairs[0].OriginalValue)
	assert.Equal(t, "1234.50", repairs[0].NewValue)
}

func TestStandardizeUnparseableValuesDegrade(t *testing.T) {
	s := New(zap.NewNop())

	std, repairs, err := s.Standardize(rawTable(
		model.RawRecord{"Date": "not a date", "Price": "abc", "Qty": "5"},
	), fullMapping())
	require.NoError(t, err)
	require.Len(t, std.Records, 1)

	assert.Nil(t, std.Records[0].Date)
	assert.Equal(t, 0.0, std.Records[0].Amount)
	assert.Equal(t, 5.0, std.Records[0].Quantity)

	ops := make(map[string]string)
	for _, r := range repairs {
		ops[r.ColumnName] = r.Operation
	}
	assert.Equal(t, model.RepairNullDate, ops["Date"])
	assert.Equal(t, model.RepairDefaultZero, ops["Amount"])
}

func TestStandardizeMissingCellsAreSilent(t *testing.T) {
	s := New(zap.NewNop())

	std, repairs, err := s.Standardize(rawTable(
		model.RawRecord{"Date": nil, "Price": nil, "Qty": ""},
	), fullMapping())
	require.NoError(t, err)
	require.Len(t, std.Records, 1)

	// Absent cells default without leaving repair records; only malformed
	// values are audited.
	assert.Nil(t, std.Records[0].Date)
	assert.Equal(t, 0.0, std.Records[0].Amount)
	assert.Equal(t, 0.0, std.Records[0].Quantity)
	assert.Empty(t, repairs)
}

func TestStandardizeUnitPriceBasis(t *testing.T) {
	s := New(zap.NewNop())

	std, _, err := s.Standardize(rawTable(
		model.RawRecord{"Date": "2024-03-01", "Price": "5", "Qty": "2"},
		model.RawRecord{"Date": "2024-03-02", "Price": "10", "Qty": "3"},
	), fullMapping())
	require.NoError(t, err)

	assert.Equal(t, model.RevenueBasisUnitPrice, std.Basis)
	assert.Equal(t, 7.5, std.MeanAmount)
	assert.Equal(t, 2.5, std.MeanQuantity)
	assert.Equal(t, 10.0, std.Records[0].TotalSales)
	assert.Equal(t, 30.0, std.Records[1].TotalSales)
}

func TestStandardizeTotalBasis(t *testing.T) {
	s := New(zap.NewNop())

	std, _, err := s.Standardize(rawTable(
		model.RawRecord{"Date": "2024-03-01", "Price": "1500", "Qty": "2"},
		model.RawRecord{"Date": "2024-03-02", "Price": "2500", "Qty": "3"},
	), fullMapping())
	require.NoError(t, err)

	assert.Equal(t, model.RevenueBasisTotal, std.Basis)
	assert.Equal(t, 1500.0, std.Records[0].TotalSales)
	assert.Equal(t, 2500.0, std.Records[1].TotalSales)
}

func TestStandardizeThresholdOverride(t *testing.T) {
	s := NewWithConfig(zap.NewNop(), Config{UnitPriceMeanThreshold: 5})

	std, _, err := s.Standardize(rawTable(
		model.RawRecord{"Date": "2024-03-01", "Price": "10", "Qty": "2"},
	), fullMapping())
	require.NoError(t, err)

	// Mean amount 10 is at or above the configured cutoff of 5, so the
	// amounts are treated as already-aggregated revenue.
	assert.Equal(t, model.RevenueBasisTotal, std.Basis)
	assert.Equal(t, 10.0, std.Records[0].TotalSales)
}

func TestStandardizeOptionalDimensionsVerbatim(t *testing.T) {
	s := New(zap.NewNop())

	std, _, err := s.Standardize(rawTable(
		model.RawRecord{
			"Date": "2024-03-01", "Price": "10", "Qty": "1",
			"Customer": 17850, "Product": "WHITE HANGING HEART", "Country": nil,
		},
	), fullMapping())
	require.NoError(t, err)

	assert.Equal(t, 17850, std.Records[0].CustomerID)
	assert.Equal(t, "WHITE HANGING HEART", std.Records[0].Product)
	assert.Nil(t, std.Records[0].Country)
}

func TestStandardizeDateFormats(t *testing.T) {
	s := New(zap.NewNop())

	std, _, err := s.Standardize(rawTable(
		model.RawRecord{"Date": "2011-12-09 10:30", "Price": "1", "Qty": "1"},
		model.RawRecord{"Date": "12/09/2011 10:30", "Price": "1", "Qty": "1"},
		model.RawRecord{"Date": "2011-12-09", "Price": "1", "Qty": "1"},
	), fullMapping())
	require.NoError(t, err)

	want := time.Date(2011, 12, 9, 10, 30, 0, 0, time.UTC)
	require.NotNil(t, std.Records[0].Date)
	assert.True(t, std.Records[0].Date.Equal(want))
	require.NotNil(t, std.Records[1].Date)
	assert.True(t, std.Records[1].Date.Equal(want))
	require.NotNil(t, std.Records[2].Date)
	assert.True(t, std.Records[2].Date.Equal(time.Date(2011, 12, 9, 0, 0, 0, 0, time.UTC)))
}

func TestStandardizeIdempotent(t *testing.T) {
	s := New(zap.NewNop())

	table := rawTable(
		model.RawRecord{"Date": "2024-03-01", "Price": "$10.00", "Qty": "2"},
		model.RawRecord{"Date": "2024-03-02", "Price": "20", "Qty": "1"},
	)

	first, _, err := s.Standardize(table, fullMapping())
	require.NoError(t, err)
	second, _, err := s.Standardize(table, fullMapping())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
