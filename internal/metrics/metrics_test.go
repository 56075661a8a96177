package metrics

import (
	"errors"
	"fmt"
	"testing"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReorderResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("op: %w", storage.ErrNotFound), "not_found"},
		{fmt.Errorf("op: %w", storage.ErrScopeMismatch), "scope_mismatch"},
		{storage.ErrDuplicateID, "invalid"},
		{models.NewValidationError("ids is required"), "invalid"},
		{errors.New("connection reset"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reorderResult(tt.err))
	}
}

func TestObserveReorder(t *testing.T) {
	before := testutil.ToFloat64(ReorderOperations.WithLabelValues("items", "scope_mismatch"))

	ObserveReorder("items", storage.ErrScopeMismatch)

	assert.Equal(t, before+1, testutil.ToFloat64(ReorderOperations.WithLabelValues("items", "scope_mismatch")))
}
