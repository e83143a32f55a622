// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts dispatched user commands by app and command type.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_quiz",
			Name:      "commands_total",
			Help:      "User commands dispatched to an app controller",
		},
		[]string{"app", "command"},
	)

	// DatasetLoadFailures counts failed startup loads of the product or question set.
	DatasetLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_quiz",
			Name:      "dataset_load_failures_total",
			Help:      "Failed dataset loads by dataset",
		},
		[]string{"dataset"},
	)

	// DatasetInvalidRecords counts loaded records dropped by validation.
	DatasetInvalidRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_quiz",
			Name:      "dataset_invalid_records_total",
			Help:      "Loaded records dropped by validation",
		},
		[]string{"dataset"},
	)

	// DatasetSize reports the number of records loaded per dataset.
	DatasetSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storefront_quiz",
			Name:      "dataset_size",
			Help:      "Records loaded per dataset",
		},
		[]string{"dataset"},
	)

	// PersistFailures counts snapshot writes that did not reach storage.
	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_quiz",
			Name:      "persist_failures_total",
			Help:      "Failed snapshot writes by snapshot kind",
		},
		[]string{"snapshot"},
	)

	// ActiveConnections tracks open websocket connections per app.
	ActiveConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storefront_quiz",
			Name:      "active_connections",
			Help:      "Open websocket connections",
		},
		[]string{"app"},
	)
)
