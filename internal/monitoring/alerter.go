// Package monitoring checks batch outcomes against alert thresholds and
// posts breaches to a webhook.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertStageFailureRate AlertType = "stage_failure_rate"
	AlertStoreFailure     AlertType = "store_failure"
	AlertRejectionRate    AlertType = "region_rejection_rate"
	AlertCostOverrun      AlertType = "cost_overrun"
)

// minSample is the batch size below which rate alerts stay quiet.
const minSample = 5

// BatchSnapshot is the outcome of one batch run.
type BatchSnapshot struct {
	Source         string
	Processed      int64
	RegionRejected int64
	StageFailures  int64
	StoreFailures  int64
	CostUSD        float64
}

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a BatchSnapshot against configured thresholds and sends
// alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func rate(n, of int64) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of)
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
// A zero threshold disables its check.
func (a *Alerter) Evaluate(snap BatchSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// Stage failures are counted per stage, so the rate can exceed 1.
	if failRate := rate(snap.StageFailures, snap.Processed); a.cfg.FailureRateThreshold > 0 &&
		snap.Processed >= minSample && failRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertStageFailureRate,
			Severity: "high",
			Message: fmt.Sprintf("Stage failure rate %.1f%% exceeds threshold %.1f%% (%d failures / %d ads from %s)",
				failRate*100, a.cfg.FailureRateThreshold*100, snap.StageFailures, snap.Processed, snap.Source),
			Details: map[string]any{
				"failure_rate": failRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"failures":     snap.StageFailures,
				"processed":    snap.Processed,
			},
			Timestamp: now,
		})
	}

	if snap.StoreFailures > 0 {
		alerts = append(alerts, Alert{
			Type:      AlertStoreFailure,
			Severity:  "high",
			Message:   fmt.Sprintf("%d record(s) from %s were not persisted", snap.StoreFailures, snap.Source),
			Details:   map[string]any{"store_failures": snap.StoreFailures},
			Timestamp: now,
		})
	}

	// A high rejection rate usually means the export targets the wrong market.
	if rejRate := rate(snap.RegionRejected, snap.Processed); a.cfg.RejectionRateThreshold > 0 &&
		snap.Processed >= minSample && rejRate > a.cfg.RejectionRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertRejectionRate,
			Severity: "medium",
			Message: fmt.Sprintf("Region rejection rate %.1f%% exceeds threshold %.1f%% (%d / %d ads from %s)",
				rejRate*100, a.cfg.RejectionRateThreshold*100, snap.RegionRejected, snap.Processed, snap.Source),
			Details: map[string]any{
				"rejection_rate": rejRate,
				"threshold":      a.cfg.RejectionRateThreshold,
			},
			Timestamp: now,
		})
	}

	if a.cfg.CostThresholdUSD > 0 && snap.CostUSD > a.cfg.CostThresholdUSD {
		alerts = append(alerts, Alert{
			Type:     AlertCostOverrun,
			Severity: "high",
			Message: fmt.Sprintf("Generative cost $%.2f exceeds threshold $%.2f for %s",
				snap.CostUSD, a.cfg.CostThresholdUSD, snap.Source),
			Details: map[string]any{
				"cost_usd":      snap.CostUSD,
				"threshold_usd": a.cfg.CostThresholdUSD,
				"processed":     snap.Processed,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// Check evaluates snap, logs every alert and sends them to the webhook.
// Returns the alerts raised.
func (a *Alerter) Check(ctx context.Context, snap BatchSnapshot) []Alert {
	alerts := a.Evaluate(snap)
	for _, alert := range alerts {
		zap.L().Warn("monitoring: "+alert.Message, zap.String("type", string(alert.Type)))
	}
	a.SendAlerts(ctx, alerts)
	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent
}

func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
