// Package metrics collects and exposes Prometheus metrics for the squad
// provisioner and the transfer market.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the metrics interfaces consumed by the provisioner,
// the transfer app, and the outbox worker.
type Collector struct {
	provisionOutcome *prometheus.CounterVec
	duplicateEvents  prometheus.Counter
	transferOps      *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
	outboxBacklog    prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		provisionOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squadmarket_provision_total",
			Help: "Squad provisioning attempts by terminal outcome",
		}, []string{"outcome"}),
		duplicateEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squadmarket_provision_duplicate_events_total",
			Help: "AccountCreated deliveries discarded because a squad already existed",
		}),
		transferOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squadmarket_transfer_ops_total",
			Help: "Transfer operations by op and outcome",
		}, []string{"op", "outcome"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squadmarket_outbox_events_published_total",
			Help: "Outbox publish attempts by event type and result",
		}, []string{"event_type", "success"}),
		outboxBacklog: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "squadmarket_outbox_backlog",
			Help: "Outbox events not yet published",
		}),
	}

	reg.MustRegister(
		c.provisionOutcome,
		c.duplicateEvents,
		c.transferOps,
		c.eventsPublished,
		c.outboxBacklog,
	)

	return c
}

// RecordProvision records one terminal provisioning outcome (ready or error).
func (c *Collector) RecordProvision(outcome string) {
	c.provisionOutcome.WithLabelValues(outcome).Inc()
}

// RecordDuplicateEvent records a discarded duplicate AccountCreated delivery.
func (c *Collector) RecordDuplicateEvent() {
	c.duplicateEvents.Inc()
}

// RecordTransferOp records a transfer operation outcome.
func (c *Collector) RecordTransferOp(op, outcome string) {
	c.transferOps.WithLabelValues(op, outcome).Inc()
}

// RecordEventPublished records one publish attempt to the event channel.
func (c *Collector) RecordEventPublished(eventType string, success bool) {
	c.eventsPublished.WithLabelValues(eventType, strconv.FormatBool(success)).Inc()
}

// RecordOutboxBacklog records the current unsent outbox depth.
func (c *Collector) RecordOutboxBacklog(count int) {
	c.outboxBacklog.Set(float64(count))
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
