package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-feed/internal/models"
)

func TestPrecipTotal(t *testing.T) {
	records := scalarDays(testDay(2023, time.March, 1), 0.0, 12.4, 3.2, 0.5)

	summary, err := PrecipTotal(records, 10, 0.9)
	require.NoError(t, err)
	require.NotNil(t, summary)

	fields := summary.Fields("prec24")
	assert.Equal(t, 4, fields["prec24.ndati"])
	assert.Equal(t, 0, fields["prec24.wht"], "4 of 10 days misses the 0.9 threshold")
	assert.Equal(t, 16.1, fields["prec24.val_tot"])
	assert.Equal(t, 12.4, fields["prec24.val_mx"])
	assert.Equal(t, "2023-03-02 00:00:00", fields["prec24.data_mx"])
}

func TestPrecipTotalEmptySeries(t *testing.T) {
	summary, err := PrecipTotal([]models.DailyRecord{missingRec(testDay(2023, time.March, 1))}, 10, 0.9)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestPrecipShortMax(t *testing.T) {
	records := scalarDays(testDay(2023, time.March, 1), 1.0, 7.5, 2.0)

	summary, err := PrecipShortMax(records, 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("prec06")
	assert.Equal(t, 1, fields["prec06.wht"])
	assert.Equal(t, 7.5, fields["prec06.val_mx"])
	assert.Equal(t, "2023-03-02 00:00:00", fields["prec06.data_mx"])
	assert.NotContains(t, fields, "prec06.val_tot")
}

func TestPrecipClass(t *testing.T) {
	tests := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{1, 0}, // class edges are inclusive upper bounds
		{1.1, 1},
		{5, 1},
		{10, 2},
		{20, 3},
		{50, 4},
		{50.1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, precipClass(tt.value), "value %v", tt.value)
	}
}

func TestPrecipClasses(t *testing.T) {
	records := scalarDays(testDay(2023, time.March, 1), 0.0, 0.8, 4.0, 15.0, 80.0)

	summary, err := PrecipClasses(records, 31, 0.9)
	require.NoError(t, err)

	fields := summary.Fields("cl_prec24")
	assert.Equal(t, 2, fields["cl_prec24.dry"])
	assert.Equal(t, 1, fields["cl_prec24.wet_01"])
	assert.Equal(t, 0, fields["cl_prec24.wet_02"])
	assert.Equal(t, 1, fields["cl_prec24.wet_03"])
	assert.Equal(t, 1, fields["cl_prec24.wet_05"])
	assert.NotContains(t, fields, "cl_prec24.ndati", "classification carries no coverage flag")
}

func TestPrecipClassVector(t *testing.T) {
	assert.Equal(t, models.Vector{1, 0, 0, 0, 0, 0}, PrecipClassVector(0.4))
	assert.Equal(t, models.Vector{0, 0, 1, 0, 0, 0}, PrecipClassVector(8.0))
	assert.Equal(t, models.Vector{0, 0, 0, 0, 0, 1}, PrecipClassVector(120.0))
}

func TestPrecipShortClasses(t *testing.T) {
	records := []models.DailyRecord{
		vectorRec(testDay(2023, time.March, 1), 1, 0, 0, 0, 0, 0),
		vectorRec(testDay(2023, time.March, 2), 0, 1, 0, 0, 0, 0),
		vectorRec(testDay(2023, time.March, 3), 0, 1, 0, 0, 1, 0),
		{Station: testStation, Date: testDay(2023, time.March, 4), Value: models.Vector{9, 9, 9, 9, 9, 9}, Valid: false},
	}

	summary, err := PrecipShortClasses(records, 31, 0.9)
	require.NoError(t, err)

	fields := summary.Fields("cl_prec06")
	assert.Equal(t, 1.0, fields["cl_prec06.dry"])
	assert.Equal(t, 2.0, fields["cl_prec06.wet_01"])
	assert.Equal(t, 1.0, fields["cl_prec06.wet_04"])
	assert.Equal(t, 0.0, fields["cl_prec06.wet_05"], "invalid days never add to the counts")
}

func TestPrecipShortClassesWrongArity(t *testing.T) {
	records := []models.DailyRecord{vectorRec(testDay(2023, time.March, 1), 1, 0)}
	_, err := PrecipShortClasses(records, 31, 0.9)
	assert.Error(t, err)
}

func TestPrecipPersistence(t *testing.T) {
	// dry run of 2, wet run of 1, dry run of 1
	records := scalarDays(testDay(2023, time.March, 1), 0.5, 0.2, 5.0, 0.0)

	summary, err := PrecipPersistence(records, 10, 0.3)
	require.NoError(t, err)

	require.Len(t, summary.Dry, 2)
	assert.Equal(t, 2, summary.Dry[0].Length)
	assert.Equal(t, testDay(2023, time.March, 1), summary.Dry[0].Start)
	assert.Equal(t, 1, summary.Dry[1].Length)
	assert.Equal(t, testDay(2023, time.March, 4), summary.Dry[1].Start)

	require.Len(t, summary.Wet, 1)
	assert.Equal(t, 1, summary.Wet[0].Length)
	assert.Equal(t, 5.0, summary.Wet[0].Total)

	fields := summary.Fields("prs_prec24")
	assert.Equal(t, 2, fields["prs_prec24.ndry_01"])
	assert.Equal(t, "2023-03-01 00:00:00", fields["prs_prec24.datadry_01"])
	assert.Equal(t, 1, fields["prs_prec24.nwet_01"])
	assert.Equal(t, 5.0, fields["prs_prec24.totwet_01"])
	assert.Equal(t, models.Absent, fields["prs_prec24.ndry_03"])
	assert.Equal(t, models.Absent, fields["prs_prec24.nwet_02"])
}

func TestPrecipPersistenceEqualRunsKeepChronologicalOrder(t *testing.T) {
	// two dry runs of 2 days, separated by a wet day
	records := scalarDays(testDay(2023, time.March, 1), 0.0, 0.5, 9.0, 0.3, 0.1)

	summary, err := PrecipPersistence(records, 10, 0.3)
	require.NoError(t, err)

	require.Len(t, summary.Dry, 2)
	assert.Equal(t, testDay(2023, time.March, 1), summary.Dry[0].Start)
	assert.Equal(t, testDay(2023, time.March, 4), summary.Dry[1].Start)
}

func TestPrecipPersistenceCapsReportedRuns(t *testing.T) {
	// four dry runs separated by single wet days
	records := scalarDays(testDay(2023, time.March, 1),
		0, 0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 2, 0)

	summary, err := PrecipPersistence(records, 31, 0.3)
	require.NoError(t, err)

	require.Len(t, summary.Dry, 3)
	assert.Equal(t, 4, summary.Dry[0].Length)
	assert.Equal(t, 3, summary.Dry[1].Length)
	assert.Equal(t, 2, summary.Dry[2].Length)
}
