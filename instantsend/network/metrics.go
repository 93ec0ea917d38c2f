// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"github.com/luxfi/metric"

	"github.com/luxfi/instantsend/utils/wrappers"
)

const opLabel = "op"

var opLabels = []string{opLabel}

type networkMetrics struct {
	received      metric.CounterVec
	sent          metric.CounterVec
	sendFailures  metric.Counter
	relaysDropped metric.Counter
	peers         metric.Gauge
}

func newMetrics(registerer metric.Registerer) (*networkMetrics, error) {
	m := &networkMetrics{
		received: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "gossip_received",
				Help: "Number of gossip messages received",
			},
			opLabels,
		),
		sent: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "gossip_sent",
				Help: "Number of gossip messages sent",
			},
			opLabels,
		),
		sendFailures: metric.NewCounter(metric.CounterOpts{
			Name: "gossip_send_failures",
			Help: "Number of gossip messages that could not be sent",
		}),
		relaysDropped: metric.NewCounter(metric.CounterOpts{
			Name: "gossip_relays_dropped",
			Help: "Number of relays dropped because the relay queue was full",
		}),
		peers: metric.NewGauge(metric.GaugeOpts{
			Name: "gossip_peers",
			Help: "Number of connected peers",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.received)),
		registerer.Register(metric.AsCollector(m.sent)),
		registerer.Register(metric.AsCollector(m.sendFailures)),
		registerer.Register(metric.AsCollector(m.relaysDropped)),
		registerer.Register(metric.AsCollector(m.peers)),
	)
	return m, errs.Err
}

func (m *networkMetrics) observeReceived(op Op) {
	m.received.With(metric.Labels{opLabel: op.String()}).Inc()
}

func (m *networkMetrics) observeSent(op Op, n int) {
	m.sent.With(metric.Labels{opLabel: op.String()}).Add(float64(n))
}
