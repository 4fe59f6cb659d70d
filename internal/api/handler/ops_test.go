package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/api/handler"
)

func TestOps_HealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-08-30T00:00:00Z", nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil)
	w := httptest.NewRecorder()

	h.HealthCheck(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string                 `json:"status"`
		Details map[string]interface{} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "1.2.3", resp.Details["version"])
}

func TestOps_ReadinessCheck_AllHealthy(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "", map[string]handler.ReadinessCheck{
		"redis": func(context.Context) error { return nil },
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil)
	w := httptest.NewRecorder()

	h.ReadinessCheck(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string                 `json:"status"`
		Details map[string]interface{} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "ok", resp.Details["redis"])
}

func TestOps_ReadinessCheck_DependencyDown(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "", map[string]handler.ReadinessCheck{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil)
	w := httptest.NewRecorder()

	h.ReadinessCheck(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		Status  string                 `json:"status"`
		Details map[string]interface{} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "FAIL", resp.Status)
	assert.Equal(t, "connection refused", resp.Details["postgres"])
}
