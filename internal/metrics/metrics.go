package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PitchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_requests_total",
			Help: "Pitch generation requests by outcome",
		},
		[]string{"outcome"},
	)

	PitchGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_generations_total",
			Help: "Completed pitches by generation method",
		},
		[]string{"method"},
	)

	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_llm_calls_total",
			Help: "Calls to the text-generation service by stage and status",
		},
		[]string{"stage", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pitch_llm_call_duration_seconds",
			Help:    "Latency of calls to the text-generation service",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"stage"},
	)

	ExtractedDocuments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_extracted_documents_total",
			Help: "Uploaded documents processed by kind",
		},
		[]string{"kind"},
	)

	ExtractFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_extract_failures_total",
			Help: "Uploaded documents that yielded no text because parsing failed",
		},
		[]string{"kind"},
	)
)
