package metrics

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (*NoopRecorder) IncUserCreated()    {}
func (*NoopRecorder) IncUserDeleted()    {}
func (*NoopRecorder) IncBookCreated()    {}
func (*NoopRecorder) IncBookLoaned()     {}
func (*NoopRecorder) IncBookReturned()   {}
func (*NoopRecorder) IncLoanConflict()   {}
func (*NoopRecorder) IncStatsCacheHit()  {}
func (*NoopRecorder) IncStatsCacheMiss() {}
