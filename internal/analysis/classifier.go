package analysis

import "SignalSentinel/internal/model"

// Classifier predicts the direction of the next bar. Implementations are
// opaque to the service; accuracy is their historical hit rate in [0,1].
type Classifier interface {
	Predict(frame *model.IndicatorFrame) (accuracy float64, label model.Direction)
}

// UnavailableClassifier is used when no model is deployed.
type UnavailableClassifier struct{}

func (UnavailableClassifier) Predict(*model.IndicatorFrame) (float64, model.Direction) {
	return 0, model.DirectionUnavailable
}
