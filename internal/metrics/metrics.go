// Package metrics defines the Prometheus instruments for form submission,
// uniqueness checks and the notification queue.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmitAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_form_submit_attempts_total",
		Help: "Submit requests by mode and result (accepted, invalid, in_flight)",
	}, []string{"mode", "result"})

	SubmitOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_form_submit_outcomes_total",
		Help: "Completed submissions by mode and outcome (succeeded, failed)",
	}, []string{"mode", "outcome"})

	SubmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_form_submit_duration_seconds",
		Help:    "Time spent waiting on the record service for a submission",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	UniquenessChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_form_uniqueness_checks_total",
		Help: "Identifier uniqueness checks by result (exists, available, stale, failed, skipped)",
	}, []string{"result"})

	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_notifications_published_total",
		Help: "Notifications published by severity",
	}, []string{"severity"})

	NotificationsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_notifications_live",
		Help: "Notifications currently displayed",
	})

	NotificationsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_notifications_received_total",
		Help: "Broadcast notifications received by watchers, by severity",
	}, []string{"severity"})

	NotificationsBroadcastErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_notifications_broadcast_errors_total",
		Help: "Notifications that could not be forwarded to the broadcast channel",
	})
)
