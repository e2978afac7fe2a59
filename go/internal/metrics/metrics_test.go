package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestRecordProvisionCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProvision("ready")
	c.RecordProvision("ready")
	c.RecordProvision("error")

	if got := counterValue(t, reg, "squadmarket_provision_total"); got != 3 {
		t.Errorf("provision_total = %v, want 3", got)
	}
}

func TestRecordDuplicateEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDuplicateEvent()
	c.RecordDuplicateEvent()

	if got := counterValue(t, reg, "squadmarket_provision_duplicate_events_total"); got != 2 {
		t.Errorf("duplicate_events_total = %v, want 2", got)
	}
}

func TestRecordTransferOpLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTransferOp("buy", "ok")
	c.RecordTransferOp("buy", "not_listed")
	c.RecordTransferOp("list", "ok")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "squadmarket_transfer_ops_total" {
			if len(mf.GetMetric()) != 3 {
				t.Fatalf("expected 3 label combinations, got %d", len(mf.GetMetric()))
			}
			return
		}
	}
	t.Error("squadmarket_transfer_ops_total metric not found")
}

func TestRecordOutboxBacklogGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOutboxBacklog(7)
	c.RecordOutboxBacklog(2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "squadmarket_outbox_backlog" {
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 2 {
				t.Errorf("outbox_backlog = %v, want 2", got)
			}
			return
		}
	}
	t.Error("squadmarket_outbox_backlog metric not found")
}

func TestHandlerServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProvision("ready")
	c.RecordTransferOp("buy", "ok")
	c.RecordEventPublished("SquadReady", true)
	c.RecordOutboxBacklog(1)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, metric := range []string{
		"squadmarket_provision_total",
		"squadmarket_transfer_ops_total",
		"squadmarket_outbox_events_published_total",
		"squadmarket_outbox_backlog",
	} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}
