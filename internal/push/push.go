// Package push delivers metric snapshots to a Prometheus Pushgateway.
package push

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher wraps the pushgateway client with the exporter's fixed job and
// instance grouping.
type Pusher struct {
	pusher *push.Pusher
}

// New builds a pusher for the given gateway URL. The instance grouping key
// is optional.
func New(url, job, instance string, gatherer prometheus.Gatherer) *Pusher {
	p := push.New(url, job).Gatherer(gatherer)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	return &Pusher{pusher: p}
}

// Push replaces the metrics of the job/instance group with the current
// registry snapshot. Pushing the same snapshot twice is a no-op for the
// gateway, so retried cycles are safe.
func (p *Pusher) Push(ctx context.Context) error {
	return p.pusher.PushContext(ctx)
}
