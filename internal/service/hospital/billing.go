package hospital

import (
	"context"

	"github.com/jwalitptl/patient-registry/internal/billing"
)

func (s *Service) AddBillingTerm(ctx context.Context, coefficient, exponent int) error {
	err := s.bill.InsertTerm(coefficient, exponent)
	s.metrics.ObserveOperation("add_billing_term", err)
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).Debug("Billing term added", "coefficient", coefficient, "exponent", exponent)
	return nil
}

// CalculateBill evaluates the billing polynomial for the given number of
// treatment days.
func (s *Service) CalculateBill(ctx context.Context, days int) int {
	total := s.bill.Evaluate(days)
	s.metrics.ObserveOperation("calculate_bill", nil)
	s.logger.WithContext(ctx).Debug("Bill calculated", "days", days, "total", total)
	return total
}

func (s *Service) BillingTerms(ctx context.Context) []billing.Term {
	return s.bill.Terms()
}

func (s *Service) ResetBilling(ctx context.Context) {
	s.bill.Reset()
	s.metrics.ObserveOperation("reset_billing", nil)
}
