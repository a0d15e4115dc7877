package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronService_StartStop(t *testing.T) {
	svc := NewCronService(nil, nil)
	assert.Equal(t, "cron", svc.Name())

	require.NoError(t, svc.Start())

	// the scheduler must be retained so Stop can tear it down
	cs, ok := svc.(*CronService)
	require.True(t, ok)
	require.NotNil(t, cs.cron)

	require.NoError(t, svc.Stop())

	// stopped scheduler has no pending entries running
	ctx := cs.cron.Stop()
	<-ctx.Done()
}

func TestCronService_StopWithoutStart(t *testing.T) {
	svc := NewCronService(nil, nil)
	assert.NoError(t, svc.Stop())
}

func TestRunBarangRefresh_InvalidTimezone(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.TimeZone = "Mars/Olympus"
	c, err := RunBarangRefresh(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestRunBarangRefresh_InvalidSchedule(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Schedule = "not a cron spec"
	c, err := RunBarangRefresh(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, c)
}
