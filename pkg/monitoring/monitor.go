package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuestionGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_question_generations_total",
			Help: "Question generation attempts by outcome",
		},
		[]string{"outcome"}, // ok / parse_failure / upstream_error
	)

	PredictorFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "behavior_predictor_fallbacks_total",
			Help: "Analyses that fell back from the ML path to rules",
		},
	)

	TrainingSamples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "training_samples_collected_total",
			Help: "Behavioral training samples persisted",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuestionGenerations)
	prometheus.MustRegister(PredictorFallbacks)
	prometheus.MustRegister(TrainingSamples)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
