package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ad-intel/internal/config"
)

func testMonitoringConfig() config.MonitoringConfig {
	return config.MonitoringConfig{
		FailureRateThreshold:   0.10,
		RejectionRateThreshold: 0.50,
		CostThresholdUSD:       5.0,
	}
}

func TestAlerter_Evaluate_NoAlerts(t *testing.T) {
	a := NewAlerter(testMonitoringConfig())
	alerts := a.Evaluate(BatchSnapshot{Source: "ads.jsonl", Processed: 100, StageFailures: 5, RegionRejected: 10, CostUSD: 1})
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_StageFailureRate(t *testing.T) {
	a := NewAlerter(testMonitoringConfig())
	alerts := a.Evaluate(BatchSnapshot{Source: "ads.jsonl", Processed: 20, StageFailures: 8})
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertStageFailureRate, alerts[0].Type)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "40.0%")
}

func TestAlerter_Evaluate_SmallBatchQuiet(t *testing.T) {
	a := NewAlerter(testMonitoringConfig())
	alerts := a.Evaluate(BatchSnapshot{Processed: 2, StageFailures: 2, RegionRejected: 2})
	assert.Empty(t, alerts)
}

func TestAlerter_Evaluate_StoreFailure(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	alerts := a.Evaluate(BatchSnapshot{Processed: 3, StoreFailures: 3})
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertStoreFailure, alerts[0].Type)
}

func TestAlerter_Evaluate_RejectionAndCost(t *testing.T) {
	a := NewAlerter(testMonitoringConfig())
	alerts := a.Evaluate(BatchSnapshot{Source: "s3 export", Processed: 10, RegionRejected: 9, CostUSD: 7.5})
	require.Len(t, alerts, 2)
	assert.Equal(t, AlertRejectionRate, alerts[0].Type)
	assert.Equal(t, "medium", alerts[0].Severity)
	assert.Equal(t, AlertCostOverrun, alerts[1].Type)
	assert.Contains(t, alerts[1].Message, "$7.50")
}

func TestAlerter_Evaluate_ZeroThresholdsDisableRates(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	alerts := a.Evaluate(BatchSnapshot{Processed: 10, StageFailures: 10, RegionRejected: 10, CostUSD: 100})
	assert.Empty(t, alerts)
}

func TestAlerter_SendAlerts(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var alert Alert
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&alert))
		assert.NotEmpty(t, alert.Type)
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := testMonitoringConfig()
	cfg.WebhookURL = srv.URL
	a := NewAlerter(cfg)

	alerts := a.Check(context.Background(), BatchSnapshot{Processed: 10, StageFailures: 5, StoreFailures: 1})
	require.Len(t, alerts, 2)
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_SendAlerts_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testMonitoringConfig()
	cfg.WebhookURL = srv.URL
	a := NewAlerter(cfg)

	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertStoreFailure}})
	assert.Equal(t, 0, sent)
}

func TestAlerter_SendAlerts_NoWebhook(t *testing.T) {
	a := NewAlerter(testMonitoringConfig())
	assert.Equal(t, 0, a.SendAlerts(context.Background(), []Alert{{Type: AlertStoreFailure}}))
}
