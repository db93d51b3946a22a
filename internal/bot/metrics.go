package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	MessagesProcessed    prometheus.Counter
	CommandsUnrecognized prometheus.Counter
	Transitions          *prometheus.CounterVec
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
}

// NewMetrics создает новые метрики. Вызывается один раз на процесс.
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_messages_processed_total",
			Help: "Total number of processed messages",
		}),

		CommandsUnrecognized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_commands_unrecognized_total",
			Help: "Messages that matched no button and no input step",
		}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_bot_state_transitions_total",
			Help: "Rendered screens by target state",
		}, []string{"state"}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_errors_total",
			Help: "Panics recovered in update handlers",
		}),

		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "telegram_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) incMessages() {
	if m != nil {
		m.MessagesProcessed.Inc()
	}
}

func (m *Metrics) incUnrecognized() {
	if m != nil {
		m.CommandsUnrecognized.Inc()
	}
}

func (m *Metrics) incTransition(state StateID) {
	if m != nil {
		m.Transitions.WithLabelValues(string(state)).Inc()
	}
}
