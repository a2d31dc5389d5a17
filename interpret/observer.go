package interpret

// Observer receives notifications about degraded matching.
type Observer interface {
	// MatcherFailed is called when a matcher call failed and was treated
	// as returning no matches.
	MatcherFailed(strategy string, err error)
}

type noopObserver struct{}

var _ Observer = noopObserver{}

func (noopObserver) MatcherFailed(string, error) {}
