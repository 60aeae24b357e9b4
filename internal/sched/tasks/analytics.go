package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shaiso/Radiola/internal/repo"
)

var pendingRequests = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "radiola_requests_pending",
	Help: "Pending listener requests per station",
}, []string{"station"})

// RequestCounter — источник размеров очередей заявок.
type RequestCounter interface {
	PendingCounts(ctx context.Context) ([]repo.PendingCount, error)
}

// Analytics экспортирует размер очереди заявок по станциям
// в prometheus и журнал.
type Analytics struct {
	requests RequestCounter
	logger   *slog.Logger
}

// NewAnalytics создаёт задачу аналитики.
func NewAnalytics(requests RequestCounter, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		requests: requests,
		logger:   logger,
	}
}

// Name реализует sched.Task.
func (t *Analytics) Name() string {
	return "analytics"
}

// Run реализует sched.Task.
func (t *Analytics) Run(ctx context.Context, _ bool) error {
	counts, err := t.requests.PendingCounts(ctx)
	if err != nil {
		return fmt.Errorf("pending counts: %w", err)
	}

	var total int64
	for _, c := range counts {
		pendingRequests.WithLabelValues(c.StationName).Set(float64(c.Pending))
		total += c.Pending
	}

	t.logger.Info("request backlog",
		"stations", len(counts),
		"pending_total", total,
	)
	return nil
}
