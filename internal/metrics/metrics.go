// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the generator pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchFailures counts upstream fetch/decode failures by source.
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakugen_fetch_failures_total",
		Help: "Total number of upstream fetch or decode failures, by source.",
	}, []string{"source"})

	// RecordsDropped counts individual records dropped during normalization
	// and filtering, by reason.
	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakugen_records_dropped_total",
		Help: "Total number of records dropped, by reason.",
	}, []string{"reason"})

	// ChannelsEmitted tracks channels in the normalized set per market.
	ChannelsEmitted = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rakugen_channels_emitted",
		Help: "Channels in the normalized set, by market.",
	}, []string{"market"})

	// ProgrammesKept tracks programmes retained by the window filter.
	ProgrammesKept = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rakugen_programmes_kept",
		Help: "Programmes retained by the window filter, by market and window.",
	}, []string{"market", "window"})

	// StreamsResolved counts per-channel stream resolution outcomes.
	StreamsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakugen_streams_resolved_total",
		Help: "Per-channel stream resolution attempts, by outcome.",
	}, []string{"outcome"})

	// ArtifactWrites counts artifact write attempts by kind and outcome.
	ArtifactWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rakugen_artifact_writes_total",
		Help: "Artifact write attempts, by artifact kind and outcome.",
	}, []string{"artifact", "outcome"})

	// RunDuration observes wall-clock duration of a full market run.
	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rakugen_run_duration_seconds",
		Help:    "Wall-clock duration of one market run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"market"})
)
