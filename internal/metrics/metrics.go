package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leetcode_bot"

// Metrics хранит метрики Prometheus бота
type Metrics struct {
	SubmissionOutcomes *prometheus.CounterVec
	PostsPublished     prometheus.Counter
	PostFailures       prometheus.Counter
	ReplyErrors        prometheus.Counter
	LookupDuration     *prometheus.HistogramVec
}

// New регистрирует метрики в reg. В тестах передается prometheus.NewRegistry(),
// чтобы повторная регистрация не паниковала.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submission_outcomes_total",
				Help:      "Submission candidates processed, by verdict",
			},
			[]string{"verdict"},
		),
		PostsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_published_total",
			Help:      "Question sets announced in the chat",
		}),
		PostFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_failures_total",
			Help:      "Posting cycles abandoned because of an error",
		}),
		ReplyErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_errors_total",
			Help:      "Replies that could not be processed",
		}),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "leetcode_request_duration_seconds",
				Help:      "LeetCode GraphQL request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
	}
}
