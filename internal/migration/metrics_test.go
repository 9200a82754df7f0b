package migration

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewMetricsCollector()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	c.runStarted()
	c.itemDone(ItemSucceeded, 0.2)
	c.itemDone(ItemSucceeded, 0.3)
	c.itemDone(ItemFailed, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.itemsTotal.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.itemsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))

	c.runFinished()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))

	count, err := testutil.GatherAndCount(reg, "kontent_migrator_item_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.runStarted()
		c.itemDone(ItemFailed, 1)
		c.runFinished()
	})
}

func TestItemStatus_String(t *testing.T) {
	assert.Equal(t, "pending", ItemPending.String())
	assert.Equal(t, "succeeded", ItemSucceeded.String())
	assert.Equal(t, "failed", ItemFailed.String())
	assert.Equal(t, "ItemStatus(7)", ItemStatus(7).String())

	text, err := ItemFailed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "failed", string(text))
}
