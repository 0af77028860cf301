package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tavolo",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created by initial status.",
		},
		[]string{"status"},
	)

	reservationConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tavolo",
			Name:      "reservation_conflict_total",
			Help:      "Count of create attempts rejected as overlapping.",
		},
	)

	statusTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tavolo",
			Name:      "status_transition_total",
			Help:      "Count of reservation status transitions.",
		},
		[]string{"from", "to"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tavolo",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, reservationConflict, statusTransition, httpRequests)
	})
}

func IncReservationCreated(status string) {
	reservationCreated.WithLabelValues(status).Inc()
}

func IncReservationConflict() {
	reservationConflict.Inc()
}

func IncStatusTransition(from, to string) {
	statusTransition.WithLabelValues(from, to).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
