package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP and ledger collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	httpReqCnt      *prometheus.CounterVec
	httpDur         *prometheus.HistogramVec
	httpInfl        prometheus.Gauge
	bookingCnt      *prometheus.CounterVec
	seatsReserved   prometheus.Counter
	seatsReleased   prometheus.Counter
	reviewCnt       *prometheus.CounterVec
	ratingRecompute prometheus.Counter
	sessionsCleaned prometheus.Counter
}

func New(namespace string) *Metrics {
	ns := namespace
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	bookingCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "bookings_total", Help: "Bookings by ledger event."}, []string{"event"})
	seatsReserved := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "seats_reserved_total"})
	seatsReleased := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "seats_released_total"})
	reviewCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "reviews_total", Help: "Review ledger events."}, []string{"event"})
	ratingRecompute := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "rating_recomputations_total"})
	sessionsCleaned := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "sessions_cleaned_total"})
	r.MustRegister(bookingCnt, seatsReserved, seatsReleased, reviewCnt, ratingRecompute, sessionsCleaned)

	return &Metrics{
		registry:        r,
		httpReqCnt:      httpReqCnt,
		httpDur:         httpDur,
		httpInfl:        httpInfl,
		bookingCnt:      bookingCnt,
		seatsReserved:   seatsReserved,
		seatsReleased:   seatsReleased,
		reviewCnt:       reviewCnt,
		ratingRecompute: ratingRecompute,
		sessionsCleaned: sessionsCleaned,
	}
}

// ==================== LEDGER ====================

func (m *Metrics) BookingCreated(seats int) {
	if m == nil {
		return
	}
	m.bookingCnt.WithLabelValues("created").Inc()
	m.seatsReserved.Add(float64(seats))
}

func (m *Metrics) BookingCancelled(seats int) {
	if m == nil {
		return
	}
	m.bookingCnt.WithLabelValues("cancelled").Inc()
	m.seatsReleased.Add(float64(seats))
}

// ReviewEvent counts submitted, approved, rejected and deleted reviews.
func (m *Metrics) ReviewEvent(event string) {
	if m == nil {
		return
	}
	m.reviewCnt.WithLabelValues(event).Inc()
}

func (m *Metrics) RatingRecomputed() {
	if m == nil {
		return
	}
	m.ratingRecompute.Inc()
}

func (m *Metrics) SessionsCleaned(n int64) {
	if m == nil {
		return
	}
	m.sessionsCleaned.Add(float64(n))
}

// ==================== HTTP ====================

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInfl.Inc()
		defer m.httpInfl.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := strconv.Itoa(rec.status)
		m.httpReqCnt.WithLabelValues(r.Method, route, status).Inc()
		m.httpDur.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
