package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting a search", func(t *testing.T) {
		tr := NewCollector().Start(5)
		for i := 0; i < 3; i++ {
			tr.AddExpansion()
		}
		tr.AddEvaluation()
		tr.AddEvaluation()

		got := tr.Complete()

		require.Equal(t, 5, got.Budget)
		require.Equal(t, int64(3), got.Expansions)
		require.Equal(t, int64(2), got.Evaluations)
		require.False(t, got.Aborted)
		require.False(t, got.StartTime.IsZero())
		require.GreaterOrEqual(t, int64(got.Duration), int64(0))
	})

	t.Run("each start gets its own counters", func(t *testing.T) {
		c := NewCollector()
		first := c.Start(1)
		first.AddExpansion()
		first.SetAborted(true)

		second := c.Start(2)
		got := second.Complete()

		require.Equal(t, int64(0), got.Expansions, "A new search should start from zero")
		require.False(t, got.Aborted)
		require.Equal(t, int64(1), first.Complete().Expansions, "Starting a search should not touch another")
	})

	t.Run("concurrent searches stay separate", func(t *testing.T) {
		c := NewCollector()
		results := make([]SearchMetric, 4)

		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tr := c.Start(i)
				for j := 0; j <= i*100; j++ {
					tr.AddExpansion()
				}
				results[i] = tr.Complete()
			}(i)
		}
		wg.Wait()

		for i, got := range results {
			require.Equal(t, i, got.Budget)
			require.Equal(t, int64(i*100+1), got.Expansions, "Search %d should only count its own work", i)
		}
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		tr := NewDummyCollector().Start(3)
		tr.AddExpansion()
		tr.SetAborted(true)

		require.Equal(t, SearchMetric{}, tr.Complete())
	})
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg).(*promCollector)

	tr := c.Start(4)
	tr.AddExpansion()
	tr.AddExpansion()
	tr.AddEvaluation()
	first := tr.Complete()

	tr = c.Start(4)
	tr.AddExpansion()
	tr.SetAborted(true)
	tr.Complete()

	require.Equal(t, int64(2), first.Expansions, "Completed metric should match the in-memory counts")
	require.Equal(t, 3.0, testutil.ToFloat64(c.expansions), "Expansions should accumulate across searches")
	require.Equal(t, 1.0, testutil.ToFloat64(c.evaluations))
	require.Equal(t, 1.0, testutil.ToFloat64(c.searches.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.searches.WithLabelValues("aborted")))

	count, err := testutil.GatherAndCount(reg, "valves_search_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
