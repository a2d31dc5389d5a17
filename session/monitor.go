package session

import (
	"time"

	"github.com/poiesic/actionbar/core"
)

// Monitor provides hooks to observe query sessions.
type Monitor interface {
	QueryStarted(gen uint64, query string)
	QueryReset(gen uint64)
	CandidateAccepted(gen uint64, action core.ScoredAction)
	StaleDropped(gen uint64)
	NounMatched(gen uint64, match core.NounMatch)
	QueryFinished(gen uint64, accepted int, elapsed time.Duration, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) QueryStarted(_ uint64, _ string)                          {}
func (n *noopMonitor) QueryReset(_ uint64)                                      {}
func (n *noopMonitor) CandidateAccepted(_ uint64, _ core.ScoredAction)          {}
func (n *noopMonitor) StaleDropped(_ uint64)                                    {}
func (n *noopMonitor) NounMatched(_ uint64, _ core.NounMatch)                   {}
func (n *noopMonitor) QueryFinished(_ uint64, _ int, _ time.Duration, _ error) {}
