package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-feed/internal/models"
)

func aggRec(date time.Time, level models.AggregationLevel, fields models.Fields) models.AggregatedRecord {
	return models.AggregatedRecord{
		StationID:  testStation.ID,
		PeriodDate: date,
		Level:      level,
		Fields:     fields,
	}
}

func TestAssemblerMergesFamiliesPerKey(t *testing.T) {
	date := testDay(2023, time.January, 10)
	a := NewAssembler()
	a.Merge(aggRec(date, models.LevelDecade, models.Fields{"tmxgg.val_md": 11.7}))
	a.Merge(aggRec(date, models.LevelDecade, models.Fields{"prec24.val_tot": 3.0}))

	records := a.Records()
	require.Len(t, records, 1)
	assert.Equal(t, models.Fields{
		"tmxgg.val_md":   11.7,
		"prec24.val_tot": 3.0,
	}, records[0].Fields)
}

func TestAssemblerLaterMergeOverwritesSameField(t *testing.T) {
	date := testDay(2023, time.January, 10)
	a := NewAssembler()
	a.Merge(aggRec(date, models.LevelDecade, models.Fields{"tmxgg.val_md": 11.7, "tmxgg.wht": 1}))
	a.Merge(aggRec(date, models.LevelDecade, models.Fields{"tmxgg.val_md": 12.0}))

	records := a.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 12.0, records[0].Fields["tmxgg.val_md"])
	assert.Equal(t, 1, records[0].Fields["tmxgg.wht"], "untouched fields survive")
}

func TestAssemblerKeysAreDistinctPerLevel(t *testing.T) {
	date := testDay(2023, time.January, 31)
	a := NewAssembler()
	a.Merge(aggRec(date, models.LevelDecade, models.Fields{"tmxgg.val_md": 1.0}))
	a.Merge(aggRec(date, models.LevelMonth, models.Fields{"tmxgg.val_md": 2.0}))

	records := a.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 2, a.Len())
}

func TestAssemblerFirstSeenOrder(t *testing.T) {
	a := NewAssembler()
	a.Merge(
		aggRec(testDay(2023, time.January, 10), models.LevelDecade, models.Fields{"x": 1.0}),
		aggRec(testDay(2023, time.January, 31), models.LevelMonth, models.Fields{"x": 1.0}),
	)
	a.Merge(aggRec(testDay(2023, time.January, 10), models.LevelDecade, models.Fields{"y": 2.0}))

	records := a.Records()
	require.Len(t, records, 2)
	assert.Equal(t, models.LevelDecade, records[0].Level)
	assert.Equal(t, models.LevelMonth, records[1].Level)
}

func TestAssemblerDropsAllAbsentRecords(t *testing.T) {
	a := NewAssembler()
	a.Merge(aggRec(testDay(2023, time.January, 10), models.LevelDecade, models.Fields{
		"elio.val_md": models.Absent,
		"elio.val_mx": models.Absent,
	}))
	a.Merge(aggRec(testDay(2023, time.January, 20), models.LevelDecade, models.Fields{
		"elio.val_md": 4.2,
		"elio.val_mx": models.Absent,
	}))

	records := a.Records()
	require.Len(t, records, 1, "all-absent records are dropped")
	assert.Equal(t, testDay(2023, time.January, 20), records[0].PeriodDate)
	assert.Equal(t, 2, a.Len(), "dropped keys still count as seen")
}
