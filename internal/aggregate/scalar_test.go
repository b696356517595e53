package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-feed/internal/models"
)

func TestHydroBalance(t *testing.T) {
	records := scalarDays(testDay(2023, time.April, 1), -3.0, 1.5, 4.5)

	summary, err := HydroBalance(records, 10, 0.3)
	require.NoError(t, err)
	require.NotNil(t, summary)

	fields := summary.Fields("bilancio")
	assert.Equal(t, 1.0, fields["bilancio.val_md"])
	assert.Equal(t, 4.5, fields["bilancio.val_mx"])
	assert.Equal(t, -3.0, fields["bilancio.val_mn"])
	assert.Equal(t, 1, fields["bilancio.wht"])
}

func TestCentralScalarSingleSample(t *testing.T) {
	summary, err := GlobalRadiation(scalarDays(testDay(2023, time.April, 1), 220.0), 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("radglob")
	assert.Equal(t, 220.0, fields["radglob.val_md"])
	assert.Equal(t, models.Absent, fields["radglob.val_vr"])
	assert.Equal(t, 220.0, fields["radglob.val_mx"])
	assert.Equal(t, 220.0, fields["radglob.val_mn"])
}

func TestCentralScalarEmpty(t *testing.T) {
	summary, err := Evapotranspiration([]models.DailyRecord{missingRec(testDay(2023, time.April, 1))}, 10, 0.3)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestLeafWetness(t *testing.T) {
	records := scalarDays(testDay(2023, time.April, 1), 4.0, 6.0, 8.0)

	summary, err := LeafWetness(records, 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("bagna")
	assert.Equal(t, 18.0, fields["bagna.val_md"], "total riding the val_md slot")
	assert.Equal(t, 6.0, fields["bagna.val_tot"], "daily mean riding the val_tot slot")
	assert.Equal(t, 8.0, fields["bagna.val_mx"])
	assert.Equal(t, 4.0, fields["bagna.val_mn"])
	assert.Equal(t, 2.0, fields["bagna.val_vr"])
}

func TestSunshine(t *testing.T) {
	records := scalarDays(testDay(2023, time.April, 1), 7.5, 0.0, 10.5)

	summary, err := Sunshine(records, 10, 0.3)
	require.NoError(t, err)

	fields := summary.Fields("elio")
	assert.Equal(t, 18.0, fields["elio.val_md"])
	assert.Equal(t, 5.4, fields["elio.val_vr"])
	assert.NotContains(t, fields, "elio.val_mx")
}
