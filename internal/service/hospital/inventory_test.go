package hospital

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

func TestEvaluateInventory(t *testing.T) {
	svc, _, m := newTestService(t, 50)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		v, err := svc.EvaluateInventory(ctx, "23*54*+")
		require.NoError(t, err)
		assert.Equal(t, 26, v)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryEvaluations.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryEvaluations.WithLabelValues("hit")))
	assert.Equal(t, 1, svc.Stats().CachedResults)
}

func TestEvaluateInventoryErrors(t *testing.T) {
	svc, _, m := newTestService(t, 50)
	ctx := context.Background()

	_, err := svc.EvaluateInventory(ctx, "5 0/")
	assert.True(t, errors.HasCode(err, errors.ErrDivisionByZero))

	_, err = svc.EvaluateInventory(ctx, "50")
	assert.True(t, errors.HasCode(err, errors.ErrMalformedExpression))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryOperations.WithLabelValues("evaluate_inventory", "DivisionByZero")))
}
