// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConversationTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_conversation_turns_total",
			Help: "Total number of conversation turns processed, by intent",
		},
		[]string{"intent"},
	)

	TurnFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_turn_failures_total",
			Help: "Total number of turns that ended in the apology path",
		},
		[]string{"error_code"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_turn_duration_seconds",
			Help: "Duration of conversation turn processing in seconds",
		},
		[]string{"intent"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_llm_requests_total",
			Help: "Total number of LLM completion requests, by outcome",
		},
		[]string{"status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_active_sessions",
			Help: "Number of sessions currently held by the store",
		},
	)
)
