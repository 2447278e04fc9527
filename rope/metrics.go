package rope

// MetricsRecorder receives lifecycle counts, *observability.RopeCollector satisfies it
type MetricsRecorder interface {
	InstrumentSpawned(kind string)
	InstrumentBuilt(kind string, seconds float64)
	InstrumentSevered(kind string)
	InstrumentTerminated(kind string)
	PlacementRejected(kind, reason string)
	PathRegistered(edgeType string)
	PathRemoved(edgeType string)
	SetWorldCounts(instruments, chains, bodies int)
}

type noopMetrics struct{}

func (noopMetrics) InstrumentSpawned(string) {}
func (noopMetrics) InstrumentBuilt(string, float64) {}
func (noopMetrics) InstrumentSevered(string) {}
func (noopMetrics) InstrumentTerminated(string) {}
func (noopMetrics) PlacementRejected(string, string) {}
func (noopMetrics) PathRegistered(string) {}
func (noopMetrics) PathRemoved(string) {}
func (noopMetrics) SetWorldCounts(int, int, int) {}
