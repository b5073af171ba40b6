package blockminer

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "spreadd"
	metricsSubsystem = "miner"
)

type metrics struct {
	hashes     prometheus.Counter
	signatures prometheus.Counter
	blocks     prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		hashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "hashes_total",
			Help:      "Number of proof-of-work hashes computed",
		}),
		signatures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "signatures_total",
			Help:      "Number of miner signatures produced",
		}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "blocks_total",
			Help:      "Number of blocks solved",
		}),
	}
	if registerer == nil {
		return m, nil
	}
	for _, collector := range []prometheus.Collector{m.hashes, m.signatures, m.blocks} {
		if err := registerer.Register(collector); err != nil {
			return nil, errors.Wrap(err, "failed to register the miner metrics")
		}
	}
	return m, nil
}
