package hospital

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluateInventory computes the value of a single-digit postfix expression.
func (s *Service) EvaluateInventory(ctx context.Context, expr string) (int, error) {
	timer := prometheus.NewTimer(s.metrics.InventoryLatency)
	value, hit, err := s.inventory.Evaluate(expr)
	timer.ObserveDuration()

	s.metrics.ObserveOperation("evaluate_inventory", err)
	if err != nil {
		s.logger.WithContext(ctx).Debug("Inventory expression rejected", "expression", expr, "error", err.Error())
		return 0, err
	}

	cache := "miss"
	if hit {
		cache = "hit"
	}
	s.metrics.InventoryEvaluations.WithLabelValues(cache).Inc()
	return value, nil
}
