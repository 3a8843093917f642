package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountSkip(t *testing.T) {
	before := testutil.ToFloat64(RenderSkipped.WithLabelValues("test-lib", ReasonNoBinding))
	CountSkip("test-lib", ReasonNoBinding)
	CountSkip("test-lib", ReasonNoBinding)
	after := testutil.ToFloat64(RenderSkipped.WithLabelValues("test-lib", ReasonNoBinding))
	assert.Equal(t, before+2, after)
}

func TestObserveRender(t *testing.T) {
	ObserveRender("test-lib", time.Now().Add(-10*time.Millisecond))
	assert.Equal(t, 1, testutil.CollectAndCount(RenderDuration, ServiceName+"_render_duration_seconds"))
}

func TestCountReport(t *testing.T) {
	before := testutil.ToFloat64(ReportsGenerated.WithLabelValues(StatusFailure))
	CountReport(StatusFailure)
	assert.Equal(t, before+1, testutil.ToFloat64(ReportsGenerated.WithLabelValues(StatusFailure)))
}

func TestObserveDataset(t *testing.T) {
	ObserveDataset(36600)
	assert.Equal(t, 1, testutil.CollectAndCount(DatasetObservations))
}
