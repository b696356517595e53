package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationLevelRoundTrip(t *testing.T) {
	for _, level := range []AggregationLevel{LevelDecade, LevelMonth, LevelYear} {
		parsed, err := ParseAggregationLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	_, err := ParseAggregationLevel("week")
	assert.Error(t, err)

	assert.Equal(t, "level(9)", AggregationLevel(9).String())
}

func TestFieldsMerge(t *testing.T) {
	f := Fields{"tmxgg.val_md": 11.7, "tmxgg.wht": 1}
	f.Merge(Fields{"tmxgg.val_md": 12.0, "prec24.val_tot": 3.0})

	assert.Equal(t, Fields{
		"tmxgg.val_md":   12.0,
		"tmxgg.wht":      1,
		"prec24.val_tot": 3.0,
	}, f)
}

func TestFieldsAllAbsent(t *testing.T) {
	assert.True(t, Fields{}.AllAbsent())
	assert.True(t, Fields{"a": Absent, "b": Absent}.AllAbsent())
	assert.False(t, Fields{"a": Absent, "b": 0}.AllAbsent())
}

func TestFieldsValueScanRoundTrip(t *testing.T) {
	f := Fields{"prec24.val_tot": 16.1, "prec24.data_mx": "2023-03-02 00:00:00", "prec24.val_vr": Absent}

	raw, err := f.Value()
	require.NoError(t, err)

	var got Fields
	require.NoError(t, got.Scan(raw))
	assert.Equal(t, 16.1, got["prec24.val_tot"])
	assert.Equal(t, "2023-03-02 00:00:00", got["prec24.data_mx"])
	assert.Equal(t, Absent, got["prec24.val_vr"])
}

func TestFieldsScan(t *testing.T) {
	var f Fields
	require.NoError(t, f.Scan(`{"tmxgg.ndati": 3}`))
	assert.Equal(t, 3.0, f["tmxgg.ndati"], "JSON numbers decode as float64")

	require.NoError(t, f.Scan(nil))
	assert.Nil(t, f)

	assert.Error(t, f.Scan(42))
}

func TestAggregatedRecordKey(t *testing.T) {
	rec := AggregatedRecord{
		StationID:  "ST001",
		PeriodDate: time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC),
		Level:      LevelDecade,
		Fields:     Fields{"x": 1.0},
	}
	assert.Equal(t, PeriodKey{
		StationID: "ST001",
		Date:      rec.PeriodDate,
		Level:     LevelDecade,
	}, rec.Key())
}
