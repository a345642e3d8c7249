// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for commands, schedules and watches.
package metrics

import (
	"context"

	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/matt-FFFFFF/chore/internal/schedule"
	"github.com/matt-FFFFFF/chore/internal/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chore"

// Result label values.
const (
	ResultOK    = "ok"
	ResultFault = "fault"
)

// Collectors records runnable activity. The Observe methods match the hooks
// in config.BuildOptions.
type Collectors struct {
	commands        *prometheus.CounterVec
	commandDuration prometheus.Histogram
	scheduleTicks   *prometheus.CounterVec
	watchPolls      *prometheus.CounterVec
	watchChanges    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)

	c := &Collectors{
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands run, by failure kind.",
		}, []string{"failure"}),
		commandDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall clock duration of each command.",
			Buckets:   prometheus.DefBuckets,
		}),
		scheduleTicks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_ticks_total",
			Help:      "Scheduled action invocations.",
		}, []string{"schedule", "result"}),
		watchPolls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_polls_total",
			Help:      "Directory watcher polls.",
		}, []string{"watch", "result"}),
		watchChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_changes_total",
			Help:      "Paths reported changed by directory watchers.",
		}, []string{"watch", "kind"}),
	}

	// Export every failure kind from the start so rates work before the first failure.
	for k := runbatch.FailureNone; k <= runbatch.FailureCancelled; k++ {
		c.commands.WithLabelValues(k.String())
	}

	return c
}

// ObserveResult records a command result.
func (c *Collectors) ObserveResult(_ context.Context, r *runbatch.Result) {
	if r == nil {
		return
	}

	c.commands.WithLabelValues(r.Failure.String()).Inc()
	c.commandDuration.Observe(r.Duration.Seconds())
}

// ObserveTick records a schedule tick.
func (c *Collectors) ObserveTick(_ context.Context, label string, t schedule.Tick) {
	c.scheduleTicks.WithLabelValues(label, result(t.Err)).Inc()
}

// ObservePoll records a watcher poll and the changes it found.
func (c *Collectors) ObservePoll(_ context.Context, label string, r watch.PollReport) {
	c.watchPolls.WithLabelValues(label, result(r.Err)).Inc()

	if r.Baseline {
		return
	}

	c.watchChanges.WithLabelValues(label, "added").Add(float64(len(r.Changes.Added)))
	c.watchChanges.WithLabelValues(label, "removed").Add(float64(len(r.Changes.Removed)))
	c.watchChanges.WithLabelValues(label, "modified").Add(float64(len(r.Changes.Modified)))
}

func result(err error) string {
	if err != nil {
		return ResultFault
	}

	return ResultOK
}
