/*
 * metrics.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 *
 * It is licensed under the MIT license. The full license text can be found
 * in the LICENSE.txt file at the root of this project.
 */

package py4j

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for one gateway. Exposed on
// an internal HTTP endpoint by cmd/py4j-gateway, never multiplexed onto
// the object protocol's TCP port.
type Metrics struct {
	CommandsHandled    *prometheus.CounterVec
	ConnectionsTotal   prometheus.Counter
	CallbackRoundTrips *prometheus.CounterVec
	RegistrySize       prometheus.GaugeFunc
	CommandLatency     *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with unregistered instruments.
// Call Register to attach them to a prometheus.Registerer.
func NewMetrics() *Metrics {
	return &Metrics{
		CommandsHandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "py4j",
				Subsystem: "gateway",
				Name:      "commands_handled_total",
				Help:      "Commands handled by the dispatcher, by command name and outcome.",
			},
			[]string{"command", "outcome"},
		),
		ConnectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "py4j",
				Subsystem: "gateway",
				Name:      "connections_accepted_total",
				Help:      "Duplex connections accepted from peers.",
			},
		),
		CallbackRoundTrips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "py4j",
				Subsystem: "gateway",
				Name:      "callback_roundtrips_total",
				Help:      "Host-initiated callback round-trips, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		CommandLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "py4j",
				Subsystem: "gateway",
				Name:      "command_duration_seconds",
				Help:      "Command handling latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
}

// BindRegistrySize wires the registry-size gauge to reg's live count.
// Must be called once, before Register.
func (self *Metrics) BindRegistrySize(reg *Registry) {
	self.RegistrySize = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "py4j",
			Subsystem: "gateway",
			Name:      "registry_size",
			Help:      "Live object bindings in the registry.",
		},
		func() float64 { return float64(reg.Len()) },
	)
}

// Register attaches every non-nil instrument to reg.
func (self *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(self.CommandsHandled, self.ConnectionsTotal, self.CallbackRoundTrips, self.CommandLatency)
	if nil != self.RegistrySize {
		reg.MustRegister(self.RegistrySize)
	}
}
