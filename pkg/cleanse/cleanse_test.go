package cleanse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CoNhanQuy/CN-DA22TTB-CoNhanQuy-PhanTichDuLieu/pkg/model"
)

func stdRecord(amount, qty, total float64) model.StandardRecord {
	return model.StandardRecord{Amount: amount, Quantity: qty, TotalSales: total}
}

func TestCleanDropsNonPositiveRows(t *testing.T) {
	c := New(zap.NewNop())

	clean := c.Clean(&model.StandardTable{Records: []model.StandardRecord{
		stdRecord(10, 2, 20),
		stdRecord(-5, 2, -10),
		stdRecord(10, 0, 0),
		stdRecord(0, 3, 0),
	}})

	assert.Len(t, clean.Records, 1)
	assert.Equal(t, 3, clean.DroppedNonPositive)
	assert.Equal(t, 0, clean.DroppedOutliers)
	assert.Equal(t, 20.0, clean.Records[0].TotalSales)
}

func TestCleanTrimsUpperTail(t *testing.T) {
	c := New(zap.NewNop())

	// Revenues 1..100: the 99th percentile interpolates to 99.01, so only the
	// single top row falls outside it.
	records := make([]model.StandardRecord, 100)
	for i := range records {
		records[i] = stdRecord(1, 1, float64(i+1))
	}

	clean := c.Clean(&model.StandardTable{Records: records})

	assert.Len(t, clean.Records, 99)
	assert.Equal(t, 1, clean.DroppedOutliers)
	assert.InDelta(t, 99.01, clean.OutlierThreshold, 1e-9)
}

func TestCleanThresholdComputedAfterPositivityFilter(t *testing.T) {
	c := New(zap.NewNop())

	// The negative row must not participate in the threshold computation.
	clean := c.Clean(&model.StandardTable{Records: []model.StandardRecord{
		stdRecord(-1, 1, -1000),
		stdRecord(10, 1, 10),
		stdRecord(20, 1, 20),
	}})

	assert.Equal(t, 1, clean.DroppedNonPositive)
	// Threshold over {10, 20} at the 99th percentile is 19.9.
	assert.InDelta(t, 19.9, clean.OutlierThreshold, 1e-9)
	assert.Len(t, clean.Records, 1)
	assert.Equal(t, 1, clean.DroppedOutliers)
}

func TestCleanEmptyInput(t *testing.T) {
	c := New(zap.NewNop())

	clean := c.Clean(&model.StandardTable{})

	assert.Empty(t, clean.Records)
	assert.Zero(t, clean.OutlierThreshold)
	assert.Zero(t, clean.DroppedNonPositive)
	assert.Zero(t, clean.DroppedOutliers)
}

func TestCleanDerivesCalendarFeatures(t *testing.T) {
	c := New(zap.NewNop())

	date := time.Date(2011, 12, 9, 10, 30, 0, 0, time.UTC)
	rec := stdRecord(5, 2, 10)
	rec.Date = &date

	clean := c.Clean(&model.StandardTable{Records: []model.StandardRecord{rec}})
	require.Len(t, clean.Records, 1)

	got := clean.Records[0]
	assert.Equal(t, 2011, got.Year)
	assert.Equal(t, "2011-12", got.YYYYMM)
	assert.Equal(t, 10, got.Hour)
	assert.Equal(t, "Friday", got.Weekday)
}

func TestCleanNullDateKeepsRowWithNullMarkers(t *testing.T) {
	c := New(zap.NewNop())

	clean := c.Clean(&model.StandardTable{Records: []model.StandardRecord{
		stdRecord(5, 2, 10),
	}})
	require.Len(t, clean.Records, 1)

	got := clean.Records[0]
	assert.Zero(t, got.Year)
	assert.Empty(t, got.YYYYMM)
	assert.Equal(t, -1, got.Hour)
	assert.Empty(t, got.Weekday)
}

func TestWithOutlierQuantile(t *testing.T) {
	c := New(zap.NewNop()).WithOutlierQuantile(0.5)

	records := make([]model.StandardRecord, 5)
	for i := range records {
		records[i] = stdRecord(1, 1, float64(i+1))
	}

	clean := c.Clean(&model.StandardTable{Records: records})

	// Median of 1..5 is 3; the two rows above it are trimmed.
	assert.Equal(t, 3.0, clean.OutlierThreshold)
	assert.Len(t, clean.Records, 3)
	assert.Equal(t, 2, clean.DroppedOutliers)

	// Out-of-range quantiles are ignored.
	assert.Equal(t, c, c.WithOutlierQuantile(0))
	assert.Equal(t, c, c.WithOutlierQuantile(1.5))
}
