// Package metrics defines the custom Prometheus metrics for the todo API.
// It is the single source of truth for metric names, labels, and help
// strings. HTTP-level request metrics come from the echoprometheus
// middleware registered in the router; the metrics here count domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// AuthAttemptsTotal counts authentication operations.
// Labels:
//   - action: "register", "login", or "refresh"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// TodosCreatedTotal counts newly created todos.
// Label:
//   - priority: "low", "medium", or "high"
var TodosCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todos_created_total",
		Help:      "Total number of todos created, by priority.",
	},
	[]string{"priority"},
)

// TodosToggledTotal counts completion toggles.
// Label:
//   - completed: "true" or "false", the state after the toggle
var TodosToggledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todos_toggled_total",
		Help:      "Total number of completion toggles, by resulting state.",
	},
	[]string{"completed"},
)
