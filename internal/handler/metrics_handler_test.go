package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/service"
)

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveAnalysis(service.DomainTimetable, time.Millisecond, []conflict.Conflict{{Type: conflict.TypeRoom, Severity: conflict.SeverityHigh}})
	handler := NewMetricsHandler(metrics, nil)

	c, rec := newTestContext(http.MethodGet, "/metrics", nil)
	handler.Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `conflicts_detected_total{domain="timetable",severity="high",type="room"} 1`))
}

func TestMetricsHandlerReady(t *testing.T) {
	handler := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
	})
	c, rec := newTestContext(http.MethodGet, "/ready", nil)
	handler.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	handler = NewMetricsHandler(nil, map[string]ReadinessCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	c, rec = newTestContext(http.MethodGet, "/ready", nil)
	handler.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
