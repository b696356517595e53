package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-feed/internal/models"
)

func compositeRec(date time.Time, components ...*float64) models.DailyRecord {
	return models.DailyRecord{Station: testStation, Date: date, Value: models.Composite(components), Valid: true}
}

func TestDegreeDayComposite(t *testing.T) {
	c := DegreeDayComposite(12.0)
	require.Len(t, c, 5)
	assert.Equal(t, 12.0, *c[0])
	assert.Equal(t, 7.0, *c[1])
	assert.Equal(t, 2.0, *c[2])
	assert.Equal(t, 0.0, *c[3], "bases above the mean floor at zero")
	assert.Equal(t, 0.0, *c[4])
}

func TestDegreeDays(t *testing.T) {
	records := []models.DailyRecord{
		{Station: testStation, Date: testDay(2023, time.May, 1), Value: DegreeDayComposite(10.0), Valid: true},
		{Station: testStation, Date: testDay(2023, time.May, 2), Value: DegreeDayComposite(20.0), Valid: true},
	}

	summary, err := DegreeDays(records, 10, 0.2)
	require.NoError(t, err)
	require.NotNil(t, summary)

	fields := summary.Fields("grgg")
	assert.Equal(t, 15.0, fields["grgg.tot00"])
	assert.Equal(t, 10.0, fields["grgg.tot05"])
	assert.Equal(t, 5.0, fields["grgg.tot10"])
	assert.Equal(t, 2.5, fields["grgg.tot15"], "the floored day still contributes a zero")
	assert.Equal(t, 0.0, fields["grgg.tot21"])
}

func TestDegreeDaysMissingComponent(t *testing.T) {
	records := []models.DailyRecord{
		compositeRec(testDay(2023, time.May, 1), fp(10), fp(5), fp(0), nil, nil),
		compositeRec(testDay(2023, time.May, 2), fp(20), fp(15), fp(10), fp(5), nil),
	}

	summary, err := DegreeDays(records, 10, 0.2)
	require.NoError(t, err)

	fields := summary.Fields("grgg")
	assert.Equal(t, 15.0, fields["grgg.tot00"])
	assert.Equal(t, 5.0, fields["grgg.tot15"], "a missing component is skipped, not zeroed")
	assert.Equal(t, models.Absent, fields["grgg.tot21"])
}

func TestDegreeDaysWrongArity(t *testing.T) {
	records := []models.DailyRecord{compositeRec(testDay(2023, time.May, 1), fp(1), fp(2))}
	_, err := DegreeDays(records, 10, 0.2)
	assert.Error(t, err)
}

func TestPressure(t *testing.T) {
	records := []models.DailyRecord{
		compositeRec(testDay(2023, time.May, 1), fp(1010), fp(1015), fp(1005)),
		compositeRec(testDay(2023, time.May, 2), fp(1012), fp(1020), fp(1008)),
	}

	summary, err := Pressure(records, 10, 0.2)
	require.NoError(t, err)

	fields := summary.Fields("press")
	assert.Equal(t, 1011.0, fields["press.val_md"])
	assert.Equal(t, 1020.0, fields["press.val_mx"], "extremes come from the daily max series")
	assert.Equal(t, 1005.0, fields["press.val_mn"])
}

func TestPressureFallsBackToDailyMeans(t *testing.T) {
	records := []models.DailyRecord{
		compositeRec(testDay(2023, time.May, 1), fp(1010), nil, nil),
		compositeRec(testDay(2023, time.May, 2), fp(1014), nil, nil),
	}

	summary, err := Pressure(records, 10, 0.2)
	require.NoError(t, err)

	fields := summary.Fields("press")
	assert.Equal(t, 1014.0, fields["press.val_mx"])
	assert.Equal(t, 1010.0, fields["press.val_mn"])
}

func TestRelativeHumidity(t *testing.T) {
	records := []models.DailyRecord{
		compositeRec(testDay(2023, time.May, 1), fp(60), nil, fp(80), fp(40)),
		compositeRec(testDay(2023, time.May, 2), fp(70), nil, fp(95), fp(55)),
	}

	summary, err := RelativeHumidity(records, 10, 0.2)
	require.NoError(t, err)

	fields := summary.Fields("umdgg")
	assert.Equal(t, 65.0, fields["umdgg.val_md"])
	assert.Equal(t, 95.0, fields["umdgg.val_mx"])
	assert.Equal(t, 40.0, fields["umdgg.val_mn"])
}

func TestRelativeHumidityMeansOnly(t *testing.T) {
	records := []models.DailyRecord{
		compositeRec(testDay(2023, time.May, 1), fp(60), nil, nil, nil),
	}

	summary, err := RelativeHumidity(records, 10, 0.2)
	require.NoError(t, err)

	fields := summary.Fields("umdgg")
	assert.Equal(t, 60.0, fields["umdgg.val_md"])
	assert.Equal(t, models.Absent, fields["umdgg.val_mx"], "unlike pressure, no fallback to the daily means")
}

func TestCompositeAllMissing(t *testing.T) {
	records := []models.DailyRecord{compositeRec(testDay(2023, time.May, 1), nil, nil, nil)}
	summary, err := Pressure(records, 10, 0.2)
	require.NoError(t, err)
	assert.Nil(t, summary)
}
