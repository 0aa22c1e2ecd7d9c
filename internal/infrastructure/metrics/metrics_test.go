package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveExtraction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("smartcart", reg)

	m.ObserveExtraction("product", "success", 300*time.Millisecond)
	m.ObserveExtraction("product", "error", 100*time.Millisecond)
	m.ObserveExtraction("product", "cache_hit", 0)
	m.ObserveExtraction("list", "success", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues("product", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Extractions.WithLabelValues("product", "cache_hit")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ExtractionDur))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New("smartcart", reg)

	assert.NotPanics(t, func() { New("smartcart", reg) })
}

func TestDurationMillis(t *testing.T) {
	assert.Equal(t, 1500.0, DurationMillis(1500*time.Millisecond))
}
