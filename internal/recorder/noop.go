package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ *AnalysisEvent) error         { return nil }
func (n *NoopRecorder) RecordBacktest(_ *BacktestEvent) error         { return nil }
func (n *NoopRecorder) RecordScreen(_ *ScreenEvent) error             { return nil }
func (n *NoopRecorder) RecordNotification(_ *NotificationEvent) error { return nil }
func (n *NoopRecorder) Close() error                                  { return nil }
