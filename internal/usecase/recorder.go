package usecase

// Cycle outcomes reported to PipelineRecorder.RecordCycle.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// PipelineRecorder receives cycle telemetry. *metrics.PipelineMetrics implements it.
type PipelineRecorder interface {
	RecordCycle(outcome, stage string, durationSeconds float64)
	RecordFetchError(source, kind string)
	RecordFallbackRate()
	RecordStored(priceUSD, priceReal, rate float64, unixSeconds float64)
}

type noopRecorder struct{}

func (noopRecorder) RecordCycle(string, string, float64)             {}
func (noopRecorder) RecordFetchError(string, string)                 {}
func (noopRecorder) RecordFallbackRate()                             {}
func (noopRecorder) RecordStored(float64, float64, float64, float64) {}
