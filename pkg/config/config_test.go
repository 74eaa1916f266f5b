package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("UNDERLOAD_THRESHOLD_PCT", "")
	t.Setenv("GRADE_MAX_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Workload.UnderloadThresholdPct)
	assert.Equal(t, 100.0, cfg.Workload.OverloadThresholdPct)
	assert.Equal(t, 20.0, cfg.Workload.SeverityMarginPct)
	assert.Equal(t, 180.0, cfg.Workload.DefaultMaxHours)
	assert.Nil(t, cfg.Workload.GradeMaxHours)
	assert.Equal(t, 5*time.Minute, cfg.Conflicts.CacheTTL)
}

func TestLoadTables(t *testing.T) {
	t.Setenv("GRADE_MAX_HOURS", "Professeur=110, Maître de Conférences=140")
	t.Setenv("ROOM_CAPACITIES", "Salle 202=45,Amphi C=300")
	t.Setenv("STRICT_TIME_RANGES", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Professeur": 110, "Maître de Conférences": 140}, cfg.Workload.GradeMaxHours)
	assert.Equal(t, map[string]int{"Salle 202": 45, "Amphi C": 300}, cfg.Timetable.RoomCapacities)
	assert.True(t, cfg.Timetable.StrictTimeRanges)
}

func TestLoadRejectsMalformedTable(t *testing.T) {
	t.Setenv("ROOM_CAPACITIES", "Salle 202")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
