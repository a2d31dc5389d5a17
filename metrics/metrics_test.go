package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/poiesic/actionbar/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.QueryReset(1)
	c.QueryStarted(1, "call jane")
	c.CandidateAccepted(1, core.ScoredAction{})
	c.CandidateAccepted(1, core.ScoredAction{})
	c.StaleDropped(1)
	c.NounMatched(1, core.NounMatch{})
	c.MatcherFailed("verb-first", errors.New("boom"))
	c.QueryFinished(1, 2, 5*time.Millisecond, nil)
	c.QueryFinished(2, 0, time.Millisecond, errors.New("assertion"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.queries))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resets))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.candidates.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.candidates.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.nouns))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("verb-first")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors))

	count, err := testutil.GatherAndCount(reg, "actionbar_session_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_Unregistered(t *testing.T) {
	c := NewCollector(nil)
	c.QueryStarted(1, "jane")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queries))
}
