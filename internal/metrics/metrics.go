package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sagebot",
		Name:      "commands_total",
		Help:      "Bot commands handled, by command.",
	}, []string{"command"})
	CommandErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sagebot",
		Name:      "command_errors_total",
		Help:      "Bot commands whose handler returned an error.",
	}, []string{"command"})
	CanvasRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sagebot",
		Name:      "canvas_requests_total",
		Help:      "Requests sent to the Canvas API, by endpoint and status code.",
	}, []string{"endpoint", "code"})
	RemindersDeliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sagebot",
		Name:      "reminders_delivered_total",
		Help:      "Reminders delivered to their owners.",
	})
	SyncSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sagebot",
		Name:      "sync_seconds",
		Help:      "Duration of Canvas index syncs.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(CommandsTotal, CommandErrorsTotal, CanvasRequestsTotal, RemindersDeliveredTotal, SyncSeconds)
}
