package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-feed/internal/models"
)

func TestWindGridVector(t *testing.T) {
	t.Run("calm day", func(t *testing.T) {
		v := WindGridVector(0.3, 270)
		require.Len(t, v, 65)
		assert.Equal(t, 1.0, v[0])
		for _, c := range v[1:] {
			assert.Equal(t, 0.0, c)
		}
	})

	tests := []struct {
		name      string
		speed     float64
		direction float64
		wantCell  int
	}{
		{"north light", 2.0, 0, 1},          // sector 0, class 0
		{"north wrap from 355", 2.0, 355, 1}, // the north sector spans 348.75 to 11.25
		{"north class edge inclusive", 3.0, 0, 1},
		{"north second class", 3.1, 0, 2},
		{"east light", 2.0, 90, 1 + 4*4}, // sector 4
		{"south open class", 15.0, 180, 1 + 8*4 + 3},
		{"last sector", 2.0, 340, 1 + 15*4},
		{"negative direction", 2.0, -40, 1 + 14*4},   // -40 reads as 320
		{"negative below one turn", 5.0, -400, 1 + 14*4 + 1},
		{"above one turn", 2.0, 450, 1 + 4*4}, // 450 reads as 90
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := WindGridVector(tt.speed, tt.direction)
			assert.Equal(t, 1.0, v[tt.wantCell])
			total := 0.0
			for _, c := range v {
				total += c
			}
			assert.Equal(t, 1.0, total, "exactly one cell set")
		})
	}
}

func TestWindGust(t *testing.T) {
	records := []models.DailyRecord{
		pairRec(testDay(2023, time.July, 1), fp(12.0), fp(200)),
		pairRec(testDay(2023, time.July, 2), fp(18.4), fp(310)),
		pairRec(testDay(2023, time.July, 3), fp(9.0), fp(90)),
	}

	summary, err := WindGust(records, 10, 0.3)
	require.NoError(t, err)
	require.NotNil(t, summary)

	fields := summary.Fields("vntmxgg")
	assert.Equal(t, 18.4, fields["vntmxgg.ff"])
	assert.Equal(t, 310.0, fields["vntmxgg.dd"])
	assert.Equal(t, 3, fields["vntmxgg.ndati"])
}

func TestWindGustMissingDirection(t *testing.T) {
	records := []models.DailyRecord{
		pairRec(testDay(2023, time.July, 1), fp(12.0), fp(200)),
		pairRec(testDay(2023, time.July, 2), fp(18.4), nil),
	}

	summary, err := WindGust(records, 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("vntmxgg")
	assert.Equal(t, 18.4, fields["vntmxgg.ff"], "missing direction still competes on speed")
	assert.Equal(t, models.Absent, fields["vntmxgg.dd"])
}

func TestWindGustNoSpeeds(t *testing.T) {
	records := []models.DailyRecord{pairRec(testDay(2023, time.July, 1), nil, fp(200))}
	summary, err := WindGust(records, 10, 0.3)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestWindMean(t *testing.T) {
	records := scalarDays(testDay(2023, time.July, 1), 2.0, 4.0, 3.5)

	summary, err := WindMean(records, 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("vntmd")
	assert.Equal(t, 3.2, fields["vntmd.ff"])
	assert.Equal(t, 1, fields["vntmd.wht"])
}

func TestWindFrequency(t *testing.T) {
	records := []models.DailyRecord{
		vectorRec(testDay(2023, time.July, 1), 1, 0, 2),
		vectorRec(testDay(2023, time.July, 2), 0, 3, 0),
		{Station: testStation, Date: testDay(2023, time.July, 3), Value: models.Vector{9, 9, 9}, Valid: false},
	}

	summary, err := WindFrequency(records, 10, 0.3)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, []float64{1, 3, 2}, summary.Cells)
	assert.Equal(t, 2, summary.Flag.ValidCount)
}

func TestWindFrequencyGridFieldNames(t *testing.T) {
	days := []models.DailyRecord{
		{Station: testStation, Date: testDay(2023, time.July, 1), Value: WindGridVector(0.2, 0), Valid: true},
		{Station: testStation, Date: testDay(2023, time.July, 2), Value: WindGridVector(2.0, 0), Valid: true},
		{Station: testStation, Date: testDay(2023, time.July, 3), Value: WindGridVector(15.0, 180), Valid: true},
	}

	summary, err := WindFrequency(days, 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("vnt")
	assert.Equal(t, 1.0, fields["vnt.frq_calme"])
	assert.Equal(t, 1.0, fields["vnt.frq_s01c1"])
	assert.Equal(t, 1.0, fields["vnt.frq_s09c4"])
	assert.Equal(t, 0.0, fields["vnt.frq_s02c1"])
	assert.Len(t, fields, 65+2, "all grid cells plus the flag pair")
}

func TestWindFrequencyLengthMismatch(t *testing.T) {
	records := []models.DailyRecord{
		vectorRec(testDay(2023, time.July, 1), 1, 0, 0),
		vectorRec(testDay(2023, time.July, 2), 0, 1),
	}
	_, err := WindFrequency(records, 10, 0.3)
	assert.Error(t, err)
}

func TestWindFrequencyEmpty(t *testing.T) {
	summary, err := WindFrequency(nil, 10, 0.3)
	require.NoError(t, err)
	assert.Nil(t, summary)
}
